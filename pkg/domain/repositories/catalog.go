package repositories

import (
	"context"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// MaterialRepository provides access to raw material records.
//
// Get operations return an error wrapping entities.ErrNotFound when the id is
// unknown. UpdateMaterialStock applies the delta atomically and fails with
// entities.ErrInsufficientStock, writing nothing, if a grade would go negative.
// UpdateMaterial never writes stock.
type MaterialRepository interface {
	GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error)
	ListMaterials(ctx context.Context) ([]*entities.Material, error)
	CreateMaterial(ctx context.Context, m *entities.Material) error
	UpdateMaterial(ctx context.Context, m *entities.Material) error
	DeleteMaterial(ctx context.Context, id entities.MaterialID) error
	UpdateMaterialStock(ctx context.Context, id entities.MaterialID, delta entities.StockDelta) (*entities.Material, error)
}

// ProductRepository provides access to product records and their BOM lines.
// UpdateProduct keeps the stored stock; only UpdateProductStock changes it.
type ProductRepository interface {
	GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error)
	ListProducts(ctx context.Context) ([]*entities.Product, error)
	CreateProduct(ctx context.Context, p *entities.Product) error
	UpdateProduct(ctx context.Context, p *entities.Product) error
	DeleteProduct(ctx context.Context, id entities.ProductID) error
	UpdateProductStock(ctx context.Context, id entities.ProductID, delta entities.Quantity) (*entities.Product, error)
}

// TagRepository provides access to tags
type TagRepository interface {
	GetTag(ctx context.Context, id entities.TagID) (*entities.Tag, error)
	ListTags(ctx context.Context) ([]*entities.Tag, error)
	CreateTag(ctx context.Context, t *entities.Tag) error
	UpdateTag(ctx context.Context, t *entities.Tag) error
	DeleteTag(ctx context.Context, id entities.TagID) error
}

// MovementRepository stores the stock movement journal
type MovementRepository interface {
	RecordMovement(ctx context.Context, m entities.StockMovement) error
	ListMovements(ctx context.Context, entityID string) ([]entities.StockMovement, error)
}

// Catalog is the full persistence surface used by the application services.
//
// WithinTx runs fn against a Catalog bound to a single transaction. If fn
// returns an error every write made through the transactional Catalog is
// discarded.
type Catalog interface {
	MaterialRepository
	ProductRepository
	TagRepository
	MovementRepository
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Catalog) error) error
}
