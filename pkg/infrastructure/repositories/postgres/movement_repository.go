package postgres

import (
	"context"
	"fmt"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (s *Store) RecordMovement(ctx context.Context, m entities.StockMovement) error {
	if m.EntityID == "" {
		return fmt.Errorf("%w: movement has no entity id", entities.ErrInvalidRequest)
	}
	db, unlock := s.conn(ctx)
	defer unlock()

	row := fromMovement(m)
	if err := db.Create(&row).Error; err != nil {
		return translate(err, fmt.Sprintf("record movement for %s", m.EntityID))
	}
	return nil
}

func (s *Store) ListMovements(ctx context.Context, entityID string) ([]entities.StockMovement, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	var rows []movementModel
	if err := db.Where("entity_id = ?", entityID).Order("seq").Find(&rows).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("list movements of %s", entityID))
	}
	out := make([]entities.StockMovement, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntity())
	}
	return out, nil
}
