package stock

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/application/services/estimation"
	"github.com/vsinha/blacksmith/pkg/application/services/shared"
	"github.com/vsinha/blacksmith/pkg/application/services/tree"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
	"github.com/vsinha/blacksmith/pkg/infrastructure/events"
)

// Metrics receives one observation per mutation request
type Metrics interface {
	ObserveMutation(direction, outcome string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveMutation(string, string) {}

// Mutation directions and outcomes reported to Metrics
const (
	DirectionProduce = "produce"
	DirectionConsume = "consume"
	DirectionAdjust  = "adjust"

	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// MutatorConfig wires optional collaborators
type MutatorConfig struct {
	Events  events.EventStore
	Metrics Metrics
}

// Mutator applies feasibility-checked stock changes.
//
// Changes to one product are serialised, and each change re-estimates and
// writes inside a single catalog transaction, so two requests can never both
// pass the check against the same stock and then both draw it down.
type Mutator struct {
	catalog   repositories.Catalog
	estimator *estimation.Estimator
	resolver  *tree.Resolver
	locks     *shared.ProductLocks
	events    events.EventStore
	metrics   Metrics
	logger    *zap.Logger
}

// NewMutator creates a stock mutation engine over the catalog
func NewMutator(
	catalog repositories.Catalog,
	estimator *estimation.Estimator,
	resolver *tree.Resolver,
	logger *zap.Logger,
	config MutatorConfig,
) *Mutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Mutator{
		catalog:   catalog,
		estimator: estimator,
		resolver:  resolver,
		locks:     shared.NewProductLocks(),
		events:    config.Events,
		metrics:   metrics,
		logger:    logger,
	}
}

// journal collects the movements written by one transaction
type journal struct {
	tx        repositories.Catalog
	movements []entities.StockMovement
}

func (j *journal) record(ctx context.Context, m entities.StockMovement) error {
	if err := j.tx.RecordMovement(ctx, m); err != nil {
		return fmt.Errorf("failed to record movement for %s: %w", m.EntityID, err)
	}
	j.movements = append(j.movements, m)
	return nil
}

// Apply changes a product's finished-goods stock by change.
//
// A negative change consumes finished goods and never cascades. A positive
// change builds new units, drawing every material and nested product line
// from stock. Infeasible changes are not errors: they return
// Success=false with the estimate that explains the shortfall.
func (m *Mutator) Apply(ctx context.Context, productID entities.ProductID, change entities.Quantity) (*dto.MutationResult, error) {
	direction := DirectionProduce
	if change < 0 {
		direction = DirectionConsume
	}

	unlock := m.locks.Lock(productID)
	defer unlock()

	var (
		result    *dto.MutationResult
		movements []entities.StockMovement
	)

	err := m.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		estimator := m.estimator.WithReader(tx)
		j := &journal{tx: tx}

		var (
			estimate *dto.ProductEstimate
			feasible bool
			err      error
		)

		if change < 0 {
			estimate, err = estimator.Estimate(ctx, productID, -change)
			if err != nil {
				return err
			}
			feasible = estimate.Enough
			if feasible {
				err = m.consume(ctx, j, productID, -change, entities.ReasonConsumed)
			}
		} else {
			var product *entities.Product
			product, err = tx.GetProduct(ctx, productID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", productID, err)
			}
			var target entities.Quantity
			target, err = product.Stock.Add(change)
			if err != nil {
				return fmt.Errorf("failed to produce %d of product %s: %w", change, productID, err)
			}
			estimate, err = estimator.Estimate(ctx, productID, target)
			if err != nil {
				return err
			}
			feasible = estimate.Buildable
			if feasible && change > 0 {
				err = m.produce(ctx, j, product, change)
			}
		}
		if err != nil {
			return err
		}

		if !feasible {
			result = &dto.MutationResult{Success: false, Estimate: estimate}
			return nil
		}

		hydrated, err := m.resolver.WithReader(tx).Resolve(ctx, productID)
		if err != nil {
			return err
		}
		result = &dto.MutationResult{Success: true, Product: hydrated}
		movements = j.movements
		return nil
	})

	if err != nil {
		m.metrics.ObserveMutation(direction, OutcomeError)
		m.logger.Warn("stock change failed",
			zap.String("product_id", string(productID)),
			zap.Int64("change", int64(change)),
			zap.Error(err))
		return nil, err
	}

	if !result.Success {
		m.metrics.ObserveMutation(direction, OutcomeRejected)
		m.logger.Info("stock change rejected",
			zap.String("product_id", string(productID)),
			zap.Int64("change", int64(change)),
			zap.Int64("create_new", int64(result.Estimate.CreateNew)))
		m.publish(events.NewEstimateRejectedEvent(productID, change, result.Estimate.CreateNew, len(result.Estimate.Shortages())))
		return result, nil
	}

	m.metrics.ObserveMutation(direction, OutcomeApplied)
	m.logger.Info("stock changed",
		zap.String("product_id", string(productID)),
		zap.Int64("change", int64(change)),
		zap.Int("movements", len(movements)))
	for _, mv := range movements {
		m.publish(events.NewStockChangedEvent(mv))
	}
	return result, nil
}

// AdjustMaterial edits a material's graded stock directly
func (m *Mutator) AdjustMaterial(ctx context.Context, materialID entities.MaterialID, delta entities.StockDelta) (*entities.Material, error) {
	if delta.IsZero() {
		return nil, fmt.Errorf("%w: stock change must set ordinary or improved", entities.ErrInvalidRequest)
	}

	var (
		material  *entities.Material
		movements []entities.StockMovement
	)
	err := m.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		j := &journal{tx: tx}
		updated, err := tx.UpdateMaterialStock(ctx, materialID, delta)
		if err != nil {
			return fmt.Errorf("failed to update stock of material %s: %w", materialID, err)
		}
		for _, grade := range []entities.Grade{entities.Ordinary, entities.Improved} {
			qty := delta.Of(grade)
			if qty == 0 {
				continue
			}
			mv := entities.NewStockMovement(entities.MaterialMovement, string(materialID), grade,
				updated.Stock.Of(grade)-qty, qty, entities.ReasonAdjustment)
			if err := j.record(ctx, mv); err != nil {
				return err
			}
		}
		material = updated
		movements = j.movements
		return nil
	})
	if err != nil {
		m.metrics.ObserveMutation(DirectionAdjust, OutcomeError)
		return nil, err
	}

	m.metrics.ObserveMutation(DirectionAdjust, OutcomeApplied)
	for _, mv := range movements {
		m.publish(events.NewStockChangedEvent(mv))
	}
	return material, nil
}

// consume draws finished goods; the repository refuses to go below zero
func (m *Mutator) consume(ctx context.Context, j *journal, productID entities.ProductID, qty entities.Quantity, reason entities.MovementReason) error {
	if qty == 0 {
		return nil
	}
	updated, err := j.tx.UpdateProductStock(ctx, productID, -qty)
	if err != nil {
		return fmt.Errorf("failed to consume %d of product %s: %w", qty, productID, err)
	}
	return j.record(ctx, entities.NewStockMovement(entities.ProductMovement, string(productID),
		entities.Ordinary, updated.Stock+qty, -qty, reason))
}

// produce adds change units of product and draws every BOM line for them
func (m *Mutator) produce(ctx context.Context, j *journal, product *entities.Product, change entities.Quantity) error {
	updated, err := j.tx.UpdateProductStock(ctx, product.ID, change)
	if err != nil {
		return fmt.Errorf("failed to add %d to product %s: %w", change, product.ID, err)
	}
	err = j.record(ctx, entities.NewStockMovement(entities.ProductMovement, string(product.ID),
		entities.Ordinary, updated.Stock-change, change, entities.ReasonProduced))
	if err != nil {
		return err
	}

	for _, line := range product.Materials {
		qty, err := line.QuantityPerUnit.Mul(change)
		if err != nil {
			return err
		}
		if qty == 0 {
			continue
		}
		material, err := j.tx.UpdateMaterialStock(ctx, line.MaterialID, entities.DeltaFor(line.Grade, -qty))
		if err != nil {
			return fmt.Errorf("failed to draw %d %s of material %s: %w", qty, line.Grade, line.MaterialID, err)
		}
		err = j.record(ctx, entities.NewStockMovement(entities.MaterialMovement, string(line.MaterialID),
			line.Grade, material.Stock.Of(line.Grade)+qty, -qty, entities.ReasonAssembly))
		if err != nil {
			return err
		}
	}

	for _, line := range product.Details {
		qty, err := line.QuantityPerUnit.Mul(change)
		if err != nil {
			return err
		}
		if err := m.consume(ctx, j, line.ProductID, qty, entities.ReasonAssembly); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mutator) publish(event events.Event) {
	if m.events == nil {
		return
	}
	if err := m.events.AppendEvent(event.StreamID(), event); err != nil {
		m.logger.Warn("failed to publish event", zap.String("event_type", event.Type()), zap.Error(err))
	}
}
