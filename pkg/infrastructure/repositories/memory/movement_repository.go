package memory

import (
	"context"
	"fmt"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (st *catalogState) RecordMovement(ctx context.Context, m entities.StockMovement) error {
	if m.EntityID == "" {
		return fmt.Errorf("%w: movement has no entity id", entities.ErrInvalidRequest)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.movements = append(st.movements, m)
	return nil
}

func (st *catalogState) ListMovements(ctx context.Context, entityID string) ([]entities.StockMovement, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := []entities.StockMovement{}
	for _, m := range st.movements {
		if m.EntityID == entityID {
			out = append(out, m)
		}
	}
	return out, nil
}
