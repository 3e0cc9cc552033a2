package postgres

import (
	"context"
	"fmt"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (s *Store) GetTag(ctx context.Context, id entities.TagID) (*entities.Tag, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	var row tagModel
	if err := db.Where("id = ?", string(id)).Take(&row).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("tag %s", id))
	}
	return row.toEntity(), nil
}

func (s *Store) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	db, unlock := s.conn(ctx)
	defer unlock()

	var rows []tagModel
	if err := db.Order("name").Find(&rows).Error; err != nil {
		return nil, translate(err, "list tags")
	}
	out := make([]*entities.Tag, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntity())
	}
	return out, nil
}

func (s *Store) CreateTag(ctx context.Context, t *entities.Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}
	db, unlock := s.conn(ctx)
	defer unlock()

	row := fromTag(t)
	if err := db.Create(&row).Error; err != nil {
		return translate(err, fmt.Sprintf("create tag %q", t.Name))
	}
	return nil
}

func (s *Store) UpdateTag(ctx context.Context, t *entities.Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}
	db, unlock := s.conn(ctx)
	defer unlock()

	res := db.Model(&tagModel{}).Where("id = ?", string(t.ID)).Update("name", t.Name)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("update tag %s", t.ID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tag %s: %w", t.ID, entities.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteTag(ctx context.Context, id entities.TagID) error {
	db, unlock := s.conn(ctx)
	defer unlock()

	res := db.Where("id = ?", string(id)).Delete(&tagModel{})
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete tag %s", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tag %s: %w", id, entities.ErrNotFound)
	}
	return nil
}
