package tree

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/application/services/shared"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// CatalogReader is the read side of the catalog the resolver needs
type CatalogReader interface {
	GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error)
	GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error)
	GetTag(ctx context.Context, id entities.TagID) (*entities.Tag, error)
}

// Resolver hydrates a product into its full BOM tree
type Resolver struct {
	reader      CatalogReader
	logger      *zap.Logger
	maxParallel int
}

// NewResolver creates a resolver. maxParallel bounds sibling fetches per level (0 = unbounded).
func NewResolver(reader CatalogReader, logger *zap.Logger, maxParallel int) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{reader: reader, logger: logger, maxParallel: maxParallel}
}

// WithReader returns a copy of the resolver reading through r
func (r *Resolver) WithReader(reader CatalogReader) *Resolver {
	clone := *r
	clone.reader = reader
	return &clone
}

// Resolve fetches a product and embeds every material, tag and nested product it references
func (r *Resolver) Resolve(ctx context.Context, productID entities.ProductID) (*dto.HydratedProduct, error) {
	tree, err := r.resolve(ctx, shared.NewAncestry(), productID)
	if err != nil {
		r.logger.Debug("resolve failed", zap.String("product_id", string(productID)), zap.Error(err))
		return nil, err
	}
	return tree, nil
}

func (r *Resolver) resolve(ctx context.Context, ancestry shared.Ancestry, productID entities.ProductID) (*dto.HydratedProduct, error) {
	ancestry, err := ancestry.Enter(productID)
	if err != nil {
		return nil, err
	}

	product, err := r.reader.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	out := &dto.HydratedProduct{
		ID:          product.ID,
		Article:     product.Article,
		MeasureUnit: product.MeasureUnit,
		Dimensions:  product.Dimensions,
		Stock:       product.Stock,
		Materials:   make([]dto.HydratedMaterial, len(product.Materials)),
		Details:     make([]dto.HydratedDetail, len(product.Details)),
		Tags:        make([]entities.Tag, len(product.Tags)),
	}

	// Levels run one after another; siblings within a level run concurrently
	err = r.fanOut(ctx, len(product.Materials), func(ctx context.Context, i int) error {
		line := product.Materials[i]
		material, err := r.reader.GetMaterial(ctx, line.MaterialID)
		if err != nil {
			return fmt.Errorf("failed to get material %s for product %s: %w", line.MaterialID, productID, err)
		}
		out.Materials[i] = dto.HydratedMaterial{MaterialUsage: line, Material: material}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.fanOut(ctx, len(product.Tags), func(ctx context.Context, i int) error {
		tag, err := r.reader.GetTag(ctx, product.Tags[i])
		if err != nil {
			return fmt.Errorf("failed to get tag %s for product %s: %w", product.Tags[i], productID, err)
		}
		out.Tags[i] = *tag
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.fanOut(ctx, len(product.Details), func(ctx context.Context, i int) error {
		line := product.Details[i]
		child, err := r.resolve(ctx, ancestry, line.ProductID)
		if err != nil {
			return err
		}
		out.Details[i] = dto.HydratedDetail{DetailUsage: line, Product: child}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Resolver) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if r.maxParallel > 0 {
		g.SetLimit(r.maxParallel)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(gctx, i) })
	}
	return g.Wait()
}
