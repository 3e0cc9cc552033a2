package estimation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/application/services/shared"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// CatalogReader is the read side of the catalog the estimator needs
type CatalogReader interface {
	GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error)
	GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error)
}

// Metrics receives one observation per top-level estimate
type Metrics interface {
	ObserveEstimate(outcome string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveEstimate(string, time.Duration) {}

// Estimate outcomes reported to Metrics
const (
	OutcomeEnough    = "enough"
	OutcomeBuildable = "buildable"
	OutcomeShort     = "short"
	OutcomeError     = "error"
)

// EstimatorConfig holds tuning for the estimator
type EstimatorConfig struct {
	// MaxParallel bounds concurrent sibling lines per BOM node (0 = unbounded)
	MaxParallel int
	Metrics     Metrics
}

// Estimator computes requirement estimates over a product's BOM
type Estimator struct {
	reader  CatalogReader
	config  EstimatorConfig
	logger  *zap.Logger
	metrics Metrics
}

// NewEstimator creates an estimator with default configuration
func NewEstimator(reader CatalogReader, logger *zap.Logger) *Estimator {
	return NewEstimatorWithConfig(reader, logger, EstimatorConfig{MaxParallel: 16})
}

// NewEstimatorWithConfig creates an estimator with custom configuration
func NewEstimatorWithConfig(reader CatalogReader, logger *zap.Logger, config EstimatorConfig) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Estimator{
		reader:  reader,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// WithReader returns a copy of the estimator reading through r, typically a
// transaction-bound catalog.
func (e *Estimator) WithReader(r CatalogReader) *Estimator {
	clone := *e
	clone.reader = r
	return &clone
}

// Estimate computes what it takes to supply quantity units of a product
func (e *Estimator) Estimate(ctx context.Context, productID entities.ProductID, quantity entities.Quantity) (*dto.ProductEstimate, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative, got %d", entities.ErrInvalidRequest, quantity)
	}

	start := time.Now()
	est, err := e.estimateProduct(ctx, shared.NewAncestry(), productID, quantity)
	elapsed := time.Since(start)

	if err != nil {
		e.metrics.ObserveEstimate(OutcomeError, elapsed)
		if !errors.Is(err, entities.ErrNotFound) {
			e.logger.Warn("estimate failed",
				zap.String("product_id", string(productID)),
				zap.Int64("quantity", int64(quantity)),
				zap.Error(err))
		}
		return nil, err
	}

	outcome := OutcomeShort
	switch {
	case est.Enough:
		outcome = OutcomeEnough
	case est.Buildable:
		outcome = OutcomeBuildable
	}
	e.metrics.ObserveEstimate(outcome, elapsed)
	e.logger.Debug("estimate computed",
		zap.String("product_id", string(productID)),
		zap.Int64("quantity", int64(quantity)),
		zap.Int64("create_new", int64(est.CreateNew)),
		zap.String("cost", est.Cost.String()),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed))

	return est, nil
}

func (e *Estimator) estimateProduct(
	ctx context.Context,
	ancestry shared.Ancestry,
	productID entities.ProductID,
	quantity entities.Quantity,
) (*dto.ProductEstimate, error) {
	ancestry, err := ancestry.Enter(productID)
	if err != nil {
		return nil, err
	}

	product, err := e.reader.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	result := &dto.ProductEstimate{
		ProductID: product.ID,
		Article:   product.Article,
		Required:  quantity,
		Stock:     product.Stock,
		Cost:      decimal.Zero,
		Time:      decimal.Zero,
		Materials: []dto.MaterialEstimate{},
		Details:   []dto.DetailEstimate{},
	}

	if quantity <= product.Stock {
		result.UseExisting = quantity
		result.StockAfter = product.Stock - quantity
		result.Enough = true
		result.Buildable = true
		return result, nil
	}

	createNew := quantity - product.Stock
	result.UseExisting = product.Stock
	result.CreateNew = createNew

	materials := make([]dto.MaterialEstimate, len(product.Materials))
	details := make([]dto.DetailEstimate, len(product.Details))

	g, gctx := errgroup.WithContext(ctx)
	if e.config.MaxParallel > 0 {
		g.SetLimit(e.config.MaxParallel)
	}

	for i, line := range product.Materials {
		g.Go(func() error {
			material, err := e.reader.GetMaterial(gctx, line.MaterialID)
			if err != nil {
				return fmt.Errorf("failed to get material %s for product %s: %w", line.MaterialID, productID, err)
			}
			est, err := EstimateMaterial(*material, line, createNew)
			if err != nil {
				return fmt.Errorf("failed to estimate product %s: %w", productID, err)
			}
			materials[i] = est
			return nil
		})
	}

	for i, line := range product.Details {
		g.Go(func() error {
			required, err := createNew.Mul(line.QuantityPerUnit)
			if err != nil {
				return fmt.Errorf("failed to estimate product %s: detail %s: %w", productID, line.ProductID, err)
			}
			child, err := e.estimateProduct(gctx, ancestry, line.ProductID, required)
			if err != nil {
				return err
			}
			details[i] = detailEstimate(line, createNew, child)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Materials = materials
	result.Details = details
	result.Buildable = true
	for _, m := range materials {
		result.Cost = result.Cost.Add(m.Cost)
		result.Time = result.Time.Add(m.Time)
		result.Buildable = result.Buildable && m.Enough
	}
	for _, d := range details {
		result.Cost = result.Cost.Add(d.Cost)
		result.Time = result.Time.Add(d.Time)
		result.Buildable = result.Buildable && d.Enough
	}

	return result, nil
}

// detailEstimate adds the usage line's assembly labour on top of the nested build
func detailEstimate(line entities.DetailUsage, createNew entities.Quantity, child *dto.ProductEstimate) dto.DetailEstimate {
	assemblyCost := scale(line.CostPerUnit, createNew)
	assemblyTime := scale(line.TimePerUnit, createNew)
	return dto.DetailEstimate{
		ProductID:    line.ProductID,
		Required:     child.Required,
		AssemblyCost: assemblyCost,
		AssemblyTime: assemblyTime,
		Cost:         child.Cost.Add(assemblyCost),
		Time:         child.Time.Add(assemblyTime),
		Enough:       child.Enough,
		Estimate:     child,
	}
}
