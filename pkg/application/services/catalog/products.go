package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
)

// GetProduct returns the hydrated product tree
func (s *Service) GetProduct(ctx context.Context, id entities.ProductID) (*dto.HydratedProduct, error) {
	return s.hydrate(ctx, s.catalog, id)
}

// Product returns the stored product row and its own lines, without
// resolving any detail or material
func (s *Service) Product(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

// ListProducts returns every product without hydration
func (s *Service) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	return s.catalog.ListProducts(ctx)
}

// CreateProduct stores a new product. Any BOM lines it already carries must
// reference existing entries and must not close a cycle.
func (s *Service) CreateProduct(ctx context.Context, p *entities.Product) (*dto.HydratedProduct, error) {
	if p.ID == "" {
		p.ID = entities.NewProductID()
	}
	if p.Materials == nil {
		p.Materials = []entities.MaterialUsage{}
	}
	if p.Details == nil {
		p.Details = []entities.DetailUsage{}
	}
	if p.Tags == nil {
		p.Tags = []entities.TagID{}
	}

	var out *dto.HydratedProduct
	err := s.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		if err := s.checkReferences(ctx, tx, p); err != nil {
			return err
		}
		if err := tx.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to create product %q: %w", p.Article, err)
		}
		var err error
		out, err = s.hydrate(ctx, tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", string(p.ID)), zap.String("article", p.Article))
	return out, nil
}

// UpdateProduct edits a product's descriptive fields. BOM lines, tags and
// stock are kept as stored.
func (s *Service) UpdateProduct(ctx context.Context, p *entities.Product) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, p.ID, func(ctx context.Context, tx repositories.Catalog, current *entities.Product) error {
		current.Article = p.Article
		current.MeasureUnit = p.MeasureUnit
		current.Dimensions = p.Dimensions
		return nil
	})
}

// DeleteProduct removes a product no other product uses as a detail
func (s *Service) DeleteProduct(ctx context.Context, id entities.ProductID) error {
	return s.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		products, err := tx.ListProducts(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			if _, used := p.DetailLine(id); used {
				return fmt.Errorf("%w: product %s is a detail of %s", entities.ErrConflict, id, p.Article)
			}
		}
		return tx.DeleteProduct(ctx, id)
	})
}

// AddMaterial attaches a material line to a product
func (s *Service) AddMaterial(ctx context.Context, productID entities.ProductID, line entities.MaterialUsage) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		if _, err := tx.GetMaterial(ctx, line.MaterialID); err != nil {
			return err
		}
		return p.AddMaterial(line)
	})
}

// EditMaterial replaces a material line
func (s *Service) EditMaterial(ctx context.Context, productID entities.ProductID, line entities.MaterialUsage) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		return p.EditMaterial(line)
	})
}

// RemoveMaterial drops a material line
func (s *Service) RemoveMaterial(ctx context.Context, productID entities.ProductID, materialID entities.MaterialID) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		return p.RemoveMaterial(materialID)
	})
}

// AddDetail attaches a nested product line, refusing lines that close a cycle
func (s *Service) AddDetail(ctx context.Context, productID entities.ProductID, line entities.DetailUsage) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		if _, err := tx.GetProduct(ctx, line.ProductID); err != nil {
			return err
		}
		if err := s.checkCycle(ctx, tx, productID, line.ProductID); err != nil {
			return err
		}
		return p.AddDetail(line)
	})
}

// EditDetail replaces a nested product line
func (s *Service) EditDetail(ctx context.Context, productID entities.ProductID, line entities.DetailUsage) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		return p.EditDetail(line)
	})
}

// RemoveDetail drops a nested product line
func (s *Service) RemoveDetail(ctx context.Context, productID, detailID entities.ProductID) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		return p.RemoveDetail(detailID)
	})
}

// AddTag attaches an existing tag
func (s *Service) AddTag(ctx context.Context, productID entities.ProductID, tagID entities.TagID) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		if _, err := tx.GetTag(ctx, tagID); err != nil {
			return err
		}
		return p.AddTag(tagID)
	})
}

// RemoveTag detaches a tag
func (s *Service) RemoveTag(ctx context.Context, productID entities.ProductID, tagID entities.TagID) (*dto.HydratedProduct, error) {
	return s.editProduct(ctx, productID, func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
		return p.RemoveTag(tagID)
	})
}

// editProduct runs a read-modify-write of one product in a transaction and
// returns the refreshed tree.
func (s *Service) editProduct(
	ctx context.Context,
	productID entities.ProductID,
	edit func(ctx context.Context, tx repositories.Catalog, p *entities.Product) error,
) (*dto.HydratedProduct, error) {
	var out *dto.HydratedProduct
	err := s.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		p, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := edit(ctx, tx, p); err != nil {
			return err
		}
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to update product %s: %w", productID, err)
		}
		out, err = s.hydrate(ctx, tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) checkReferences(ctx context.Context, tx repositories.Catalog, p *entities.Product) error {
	for _, line := range p.Materials {
		if _, err := tx.GetMaterial(ctx, line.MaterialID); err != nil {
			return err
		}
	}
	for _, id := range p.Tags {
		if _, err := tx.GetTag(ctx, id); err != nil {
			return err
		}
	}
	for _, line := range p.Details {
		if _, err := tx.GetProduct(ctx, line.ProductID); err != nil {
			return err
		}
	}
	// A brand-new product has no parents yet, so its lines cannot close a cycle
	return nil
}

func (s *Service) checkCycle(ctx context.Context, tx repositories.Catalog, parent, child entities.ProductID) error {
	products, err := tx.ListProducts(ctx)
	if err != nil {
		return err
	}
	if path, cyclic := s.validator.WouldCreateCycle(products, parent, child); cyclic {
		return fmt.Errorf("%w: adding %s to %s closes %v", entities.ErrCyclicBOM, child, parent, path)
	}
	return nil
}
