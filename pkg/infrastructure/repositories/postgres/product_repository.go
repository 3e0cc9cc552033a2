package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// withLines preloads every BOM list in insertion order
func withLines(db *gorm.DB) *gorm.DB {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position") }
	return db.
		Preload("Materials", byPosition).
		Preload("Details", byPosition).
		Preload("Tags", byPosition)
}

func (s *Store) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	var row productModel
	if err := withLines(db).Where("id = ?", string(id)).Take(&row).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("product %s", id))
	}
	return row.toEntity(), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	var rows []productModel
	if err := withLines(db).Order("article").Find(&rows).Error; err != nil {
		return nil, translate(err, "list products")
	}
	out := make([]*entities.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntity())
	}
	return out, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *entities.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	row := fromProduct(p)
	err := s.atomic(ctx, func(db *gorm.DB) error {
		if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		return insertLines(db, row)
	})
	return translate(err, fmt.Sprintf("create product %q", p.Article))
}

// UpdateProduct rewrites the descriptive columns and replaces every BOM list.
// Stock is left as stored; only UpdateProductStock changes it.
func (s *Store) UpdateProduct(ctx context.Context, p *entities.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	row := fromProduct(p)
	err := s.atomic(ctx, func(db *gorm.DB) error {
		res := db.Model(&productModel{}).Where("id = ?", row.ID).
			Updates(map[string]any{
				"article":      row.Article,
				"measure_unit": row.MeasureUnit,
				"dimensions":   row.Dimensions,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %s: %w", p.ID, entities.ErrNotFound)
		}
		for _, model := range []any{&materialLineModel{}, &detailLineModel{}, &productTagModel{}} {
			if err := db.Where("product_id = ?", row.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return insertLines(db, row)
	})
	return translate(err, fmt.Sprintf("update product %s", p.ID))
}

func insertLines(db *gorm.DB, row productModel) error {
	if len(row.Materials) > 0 {
		if err := db.Create(&row.Materials).Error; err != nil {
			return err
		}
	}
	if len(row.Details) > 0 {
		if err := db.Create(&row.Details).Error; err != nil {
			return err
		}
	}
	if len(row.Tags) > 0 {
		if err := db.Create(&row.Tags).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id entities.ProductID) error {
	db, unlock := s.conn(ctx)
	defer unlock()

	res := db.Where("id = ?", string(id)).Delete(&productModel{})
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete product %s", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, entities.ErrNotFound)
	}
	return nil
}

// UpdateProductStock applies the delta with a guarded UPDATE
func (s *Store) UpdateProductStock(ctx context.Context, id entities.ProductID, delta entities.Quantity) (*entities.Product, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	res := db.Model(&productModel{}).
		Where("id = ? AND stock + ? >= 0", string(id), int64(delta)).
		Update("stock", gorm.Expr("stock + ?", int64(delta)))
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("update stock of product %s", id))
	}

	var row productModel
	if err := withLines(db).Where("id = ?", string(id)).Take(&row).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("product %s", id))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product %s has %d, cannot apply %d: %w", id, row.Stock, delta, entities.ErrInsufficientStock)
	}
	return row.toEntity(), nil
}
