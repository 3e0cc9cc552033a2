package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (st *catalogState) GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	m, ok := st.materials[id]
	if !ok {
		return nil, fmt.Errorf("material %s: %w", id, entities.ErrNotFound)
	}
	return &m, nil
}

func (st *catalogState) ListMaterials(ctx context.Context) ([]*entities.Material, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*entities.Material, 0, len(st.materials))
	for _, m := range st.materials {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Article < out[j].Article
	})
	return out, nil
}

func (st *catalogState) CreateMaterial(ctx context.Context, m *entities.Material) error {
	if err := m.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.materials[m.ID]; exists {
		return fmt.Errorf("material %s already exists: %w", m.ID, entities.ErrConflict)
	}
	if err := st.materialArticleTaken(m.Article, m.ID); err != nil {
		return err
	}
	st.materials[m.ID] = *m
	return nil
}

func (st *catalogState) UpdateMaterial(ctx context.Context, m *entities.Material) error {
	if err := m.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	stored, exists := st.materials[m.ID]
	if !exists {
		return fmt.Errorf("material %s: %w", m.ID, entities.ErrNotFound)
	}
	if err := st.materialArticleTaken(m.Article, m.ID); err != nil {
		return err
	}
	next := *m
	next.Stock = stored.Stock
	st.materials[m.ID] = next
	return nil
}

func (st *catalogState) DeleteMaterial(ctx context.Context, id entities.MaterialID) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.materials[id]; !exists {
		return fmt.Errorf("material %s: %w", id, entities.ErrNotFound)
	}
	delete(st.materials, id)
	return nil
}

func (st *catalogState) UpdateMaterialStock(ctx context.Context, id entities.MaterialID, delta entities.StockDelta) (*entities.Material, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	m, ok := st.materials[id]
	if !ok {
		return nil, fmt.Errorf("material %s: %w", id, entities.ErrNotFound)
	}
	stock, err := m.Stock.Apply(delta)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", id, err)
	}
	m.Stock = stock
	st.materials[id] = m
	return &m, nil
}

// materialArticleTaken must be called with st.mu held
func (st *catalogState) materialArticleTaken(article string, self entities.MaterialID) error {
	for id, other := range st.materials {
		if id != self && other.Article == article {
			return fmt.Errorf("material article %q: %w", article, entities.ErrConflict)
		}
	}
	return nil
}
