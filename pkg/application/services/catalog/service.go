package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/application/services/tree"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
	"github.com/vsinha/blacksmith/pkg/domain/services"
)

// Service manages materials, tags, products and their BOM lines.
// Stock is never written here; see the stock package.
type Service struct {
	catalog   repositories.Catalog
	resolver  *tree.Resolver
	validator *services.BOMValidator
	logger    *zap.Logger
}

// NewService creates a catalog service
func NewService(catalog repositories.Catalog, resolver *tree.Resolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:   catalog,
		resolver:  resolver,
		validator: services.NewBOMValidator(),
		logger:    logger,
	}
}

// GetMaterial returns a material
func (s *Service) GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error) {
	return s.catalog.GetMaterial(ctx, id)
}

// ListMaterials returns every material
func (s *Service) ListMaterials(ctx context.Context) ([]*entities.Material, error) {
	return s.catalog.ListMaterials(ctx)
}

// CreateMaterial stores a new material, assigning an id when none is set
func (s *Service) CreateMaterial(ctx context.Context, m *entities.Material) (*entities.Material, error) {
	if m.ID == "" {
		m.ID = entities.NewMaterialID()
	}
	if err := s.catalog.CreateMaterial(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create material %q: %w", m.Article, err)
	}
	s.logger.Info("material created", zap.String("material_id", string(m.ID)), zap.String("article", m.Article))
	return m, nil
}

// UpdateMaterial edits a material's descriptive fields and prices. Stock is kept as stored.
func (s *Service) UpdateMaterial(ctx context.Context, m *entities.Material) (*entities.Material, error) {
	var out *entities.Material
	err := s.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		current, err := tx.GetMaterial(ctx, m.ID)
		if err != nil {
			return err
		}
		updated := *m
		updated.Stock = current.Stock
		if err := tx.UpdateMaterial(ctx, &updated); err != nil {
			return fmt.Errorf("failed to update material %s: %w", m.ID, err)
		}
		out = &updated
		return nil
	})
	return out, err
}

// DeleteMaterial removes a material no product uses
func (s *Service) DeleteMaterial(ctx context.Context, id entities.MaterialID) error {
	return s.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		products, err := tx.ListProducts(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			if _, used := p.MaterialLine(id); used {
				return fmt.Errorf("%w: material %s is used by product %s", entities.ErrConflict, id, p.Article)
			}
		}
		return tx.DeleteMaterial(ctx, id)
	})
}

// GetTag returns a tag
func (s *Service) GetTag(ctx context.Context, id entities.TagID) (*entities.Tag, error) {
	return s.catalog.GetTag(ctx, id)
}

// ListTags returns every tag
func (s *Service) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	return s.catalog.ListTags(ctx)
}

// CreateTag stores a new tag, assigning an id when none is set
func (s *Service) CreateTag(ctx context.Context, t *entities.Tag) (*entities.Tag, error) {
	if t.ID == "" {
		t.ID = entities.NewTagID()
	}
	if err := s.catalog.CreateTag(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tag %q: %w", t.Name, err)
	}
	return t, nil
}

// UpdateTag renames a tag
func (s *Service) UpdateTag(ctx context.Context, t *entities.Tag) (*entities.Tag, error) {
	if err := s.catalog.UpdateTag(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tag %s: %w", t.ID, err)
	}
	return t, nil
}

// DeleteTag removes a tag no product carries
func (s *Service) DeleteTag(ctx context.Context, id entities.TagID) error {
	return s.catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		products, err := tx.ListProducts(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.HasTag(id) {
				return fmt.Errorf("%w: tag %s is attached to product %s", entities.ErrConflict, id, p.Article)
			}
		}
		return tx.DeleteTag(ctx, id)
	})
}

// Movements returns the stock journal of a material or product
func (s *Service) Movements(ctx context.Context, entityID string) ([]entities.StockMovement, error) {
	return s.catalog.ListMovements(ctx, entityID)
}

// ValidateBOM checks the whole catalog for cycles and dangling detail lines
func (s *Service) ValidateBOM(ctx context.Context) (*services.ValidationResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateCatalog(products), nil
}

// hydrate resolves a product tree through the given reader
func (s *Service) hydrate(ctx context.Context, reader tree.CatalogReader, id entities.ProductID) (*dto.HydratedProduct, error) {
	return s.resolver.WithReader(reader).Resolve(ctx, id)
}
