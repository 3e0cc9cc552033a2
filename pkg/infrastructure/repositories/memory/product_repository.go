package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (st *catalogState) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	p, ok := st.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, entities.ErrNotFound)
	}
	return p.Clone(), nil
}

func (st *catalogState) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*entities.Product, 0, len(st.products))
	for _, p := range st.products {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Article < out[j].Article
	})
	return out, nil
}

func (st *catalogState) CreateProduct(ctx context.Context, p *entities.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.products[p.ID]; exists {
		return fmt.Errorf("product %s already exists: %w", p.ID, entities.ErrConflict)
	}
	if err := st.productArticleTaken(p.Article, p.ID); err != nil {
		return err
	}
	st.products[p.ID] = p.Clone()
	return nil
}

func (st *catalogState) UpdateProduct(ctx context.Context, p *entities.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	stored, exists := st.products[p.ID]
	if !exists {
		return fmt.Errorf("product %s: %w", p.ID, entities.ErrNotFound)
	}
	if err := st.productArticleTaken(p.Article, p.ID); err != nil {
		return err
	}
	next := p.Clone()
	next.Stock = stored.Stock
	st.products[p.ID] = next
	return nil
}

func (st *catalogState) DeleteProduct(ctx context.Context, id entities.ProductID) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.products[id]; !exists {
		return fmt.Errorf("product %s: %w", id, entities.ErrNotFound)
	}
	delete(st.products, id)
	return nil
}

func (st *catalogState) UpdateProductStock(ctx context.Context, id entities.ProductID, delta entities.Quantity) (*entities.Product, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, entities.ErrNotFound)
	}
	if p.Stock+delta < 0 {
		return nil, fmt.Errorf("product %s has %d, cannot apply %d: %w", id, p.Stock, delta, entities.ErrInsufficientStock)
	}
	p.Stock += delta
	return p.Clone(), nil
}

// productArticleTaken must be called with st.mu held
func (st *catalogState) productArticleTaken(article string, self entities.ProductID) error {
	for id, other := range st.products {
		if id != self && other.Article == article {
			return fmt.Errorf("product article %q: %w", article, entities.ErrConflict)
		}
	}
	return nil
}
