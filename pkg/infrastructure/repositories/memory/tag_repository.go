package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (st *catalogState) GetTag(ctx context.Context, id entities.TagID) (*entities.Tag, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	t, ok := st.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", id, entities.ErrNotFound)
	}
	return &t, nil
}

func (st *catalogState) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*entities.Tag, 0, len(st.tags))
	for _, t := range st.tags {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (st *catalogState) CreateTag(ctx context.Context, t *entities.Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.tags[t.ID]; exists {
		return fmt.Errorf("tag %s already exists: %w", t.ID, entities.ErrConflict)
	}
	if err := st.tagNameTaken(t.Name, t.ID); err != nil {
		return err
	}
	st.tags[t.ID] = *t
	return nil
}

func (st *catalogState) UpdateTag(ctx context.Context, t *entities.Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.tags[t.ID]; !exists {
		return fmt.Errorf("tag %s: %w", t.ID, entities.ErrNotFound)
	}
	if err := st.tagNameTaken(t.Name, t.ID); err != nil {
		return err
	}
	st.tags[t.ID] = *t
	return nil
}

func (st *catalogState) DeleteTag(ctx context.Context, id entities.TagID) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.tags[id]; !exists {
		return fmt.Errorf("tag %s: %w", id, entities.ErrNotFound)
	}
	delete(st.tags, id)
	return nil
}

// tagNameTaken must be called with st.mu held
func (st *catalogState) tagNameTaken(name string, self entities.TagID) error {
	for id, other := range st.tags {
		if id != self && other.Name == name {
			return fmt.Errorf("tag name %q: %w", name, entities.ErrConflict)
		}
	}
	return nil
}
