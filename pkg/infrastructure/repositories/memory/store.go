package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
)

// Store is an in-memory catalog.
//
// Readers always see a committed state. Writers are serialised by a store-wide
// lock; WithinTx runs against a private copy of the state and swaps it in only
// when the callback succeeds, so a failed transaction leaves nothing behind.
type Store struct {
	writer  sync.Mutex
	current atomic.Pointer[catalogState]
}

// NewStore creates an empty in-memory catalog
func NewStore() *Store {
	s := &Store{}
	s.current.Store(newCatalogState())
	return s
}

// Verify interface compliance
var _ repositories.Catalog = (*Store)(nil)
var _ repositories.Catalog = (*Tx)(nil)

// Tx is a Catalog bound to one in-flight transaction
type Tx struct {
	*catalogState
}

// WithinTx on an open transaction joins it
func (tx *Tx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Catalog) error) error {
	return fn(ctx, tx)
}

// WithinTx runs fn in a transaction. Concurrent transactions queue behind each other.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Catalog) error) error {
	s.writer.Lock()
	defer s.writer.Unlock()

	working := s.current.Load().clone()
	if err := fn(ctx, &Tx{catalogState: working}); err != nil {
		return err
	}
	s.current.Store(working)
	return nil
}

func (s *Store) state() *catalogState {
	return s.current.Load()
}

func (s *Store) write(fn func(st *catalogState) error) error {
	s.writer.Lock()
	defer s.writer.Unlock()
	return fn(s.state())
}

// GetMaterial returns a copy of a material
func (s *Store) GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error) {
	return s.state().GetMaterial(ctx, id)
}

// ListMaterials returns every material ordered by article
func (s *Store) ListMaterials(ctx context.Context) ([]*entities.Material, error) {
	return s.state().ListMaterials(ctx)
}

// CreateMaterial stores a new material
func (s *Store) CreateMaterial(ctx context.Context, m *entities.Material) error {
	return s.write(func(st *catalogState) error { return st.CreateMaterial(ctx, m) })
}

// UpdateMaterial replaces a material record
func (s *Store) UpdateMaterial(ctx context.Context, m *entities.Material) error {
	return s.write(func(st *catalogState) error { return st.UpdateMaterial(ctx, m) })
}

// DeleteMaterial removes a material
func (s *Store) DeleteMaterial(ctx context.Context, id entities.MaterialID) error {
	return s.write(func(st *catalogState) error { return st.DeleteMaterial(ctx, id) })
}

// UpdateMaterialStock applies a graded stock delta
func (s *Store) UpdateMaterialStock(ctx context.Context, id entities.MaterialID, delta entities.StockDelta) (*entities.Material, error) {
	var out *entities.Material
	err := s.write(func(st *catalogState) error {
		var err error
		out, err = st.UpdateMaterialStock(ctx, id, delta)
		return err
	})
	return out, err
}

// GetProduct returns a copy of a product
func (s *Store) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	return s.state().GetProduct(ctx, id)
}

// ListProducts returns every product ordered by article
func (s *Store) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	return s.state().ListProducts(ctx)
}

// CreateProduct stores a new product
func (s *Store) CreateProduct(ctx context.Context, p *entities.Product) error {
	return s.write(func(st *catalogState) error { return st.CreateProduct(ctx, p) })
}

// UpdateProduct replaces a product record including its BOM lines
func (s *Store) UpdateProduct(ctx context.Context, p *entities.Product) error {
	return s.write(func(st *catalogState) error { return st.UpdateProduct(ctx, p) })
}

// DeleteProduct removes a product
func (s *Store) DeleteProduct(ctx context.Context, id entities.ProductID) error {
	return s.write(func(st *catalogState) error { return st.DeleteProduct(ctx, id) })
}

// UpdateProductStock applies a finished-goods stock delta
func (s *Store) UpdateProductStock(ctx context.Context, id entities.ProductID, delta entities.Quantity) (*entities.Product, error) {
	var out *entities.Product
	err := s.write(func(st *catalogState) error {
		var err error
		out, err = st.UpdateProductStock(ctx, id, delta)
		return err
	})
	return out, err
}

// GetTag returns a tag
func (s *Store) GetTag(ctx context.Context, id entities.TagID) (*entities.Tag, error) {
	return s.state().GetTag(ctx, id)
}

// ListTags returns every tag ordered by name
func (s *Store) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	return s.state().ListTags(ctx)
}

// CreateTag stores a new tag
func (s *Store) CreateTag(ctx context.Context, t *entities.Tag) error {
	return s.write(func(st *catalogState) error { return st.CreateTag(ctx, t) })
}

// UpdateTag renames a tag
func (s *Store) UpdateTag(ctx context.Context, t *entities.Tag) error {
	return s.write(func(st *catalogState) error { return st.UpdateTag(ctx, t) })
}

// DeleteTag removes a tag
func (s *Store) DeleteTag(ctx context.Context, id entities.TagID) error {
	return s.write(func(st *catalogState) error { return st.DeleteTag(ctx, id) })
}

// RecordMovement appends to the stock journal
func (s *Store) RecordMovement(ctx context.Context, m entities.StockMovement) error {
	return s.write(func(st *catalogState) error { return st.RecordMovement(ctx, m) })
}

// ListMovements returns the journal of one material or product, oldest first
func (s *Store) ListMovements(ctx context.Context, entityID string) ([]entities.StockMovement, error) {
	return s.state().ListMovements(ctx, entityID)
}
