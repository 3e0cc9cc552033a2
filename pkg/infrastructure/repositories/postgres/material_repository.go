package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (s *Store) GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error) {
	db, unlock := s.conn(ctx)
	defer unlock()
	return getMaterial(db, id)
}

func getMaterial(db *gorm.DB, id entities.MaterialID) (*entities.Material, error) {
	var m materialModel
	if err := db.Where("id = ?", string(id)).Take(&m).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("material %s", id))
	}
	return m.toEntity(), nil
}

func (s *Store) ListMaterials(ctx context.Context) ([]*entities.Material, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	var rows []materialModel
	if err := db.Order("article").Find(&rows).Error; err != nil {
		return nil, translate(err, "list materials")
	}
	out := make([]*entities.Material, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntity())
	}
	return out, nil
}

func (s *Store) CreateMaterial(ctx context.Context, m *entities.Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	db, unlock := s.conn(ctx)
	defer unlock()

	row := fromMaterial(m)
	if err := db.Create(&row).Error; err != nil {
		return translate(err, fmt.Sprintf("create material %q", m.Article))
	}
	return nil
}

// UpdateMaterial rewrites every column except the graded stock, which only
// UpdateMaterialStock changes.
func (s *Store) UpdateMaterial(ctx context.Context, m *entities.Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	db, unlock := s.conn(ctx)
	defer unlock()

	row := fromMaterial(m)
	res := db.Model(&materialModel{}).Where("id = ?", row.ID).Select("*").Omit("id", "stock_ordinary", "stock_improved").Updates(&row)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("update material %s", m.ID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("material %s: %w", m.ID, entities.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteMaterial(ctx context.Context, id entities.MaterialID) error {
	db, unlock := s.conn(ctx)
	defer unlock()

	res := db.Where("id = ?", string(id)).Delete(&materialModel{})
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete material %s", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("material %s: %w", id, entities.ErrNotFound)
	}
	return nil
}

// UpdateMaterialStock applies the delta with a guarded UPDATE so concurrent
// writers can never take a grade below zero.
func (s *Store) UpdateMaterialStock(ctx context.Context, id entities.MaterialID, delta entities.StockDelta) (*entities.Material, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	res := db.Model(&materialModel{}).
		Where("id = ? AND stock_ordinary + ? >= 0 AND stock_improved + ? >= 0",
			string(id), int64(delta.Ordinary), int64(delta.Improved)).
		Updates(map[string]any{
			"stock_ordinary": gorm.Expr("stock_ordinary + ?", int64(delta.Ordinary)),
			"stock_improved": gorm.Expr("stock_improved + ?", int64(delta.Improved)),
		})
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("update stock of material %s", id))
	}

	current, err := getMaterial(db, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("material %s has ordinary %d improved %d, cannot apply %+d/%+d: %w",
			id, current.Stock.Ordinary, current.Stock.Improved, delta.Ordinary, delta.Improved, entities.ErrInsufficientStock)
	}
	return current, nil
}
