package entities

import (
	"fmt"
	"strings"
)

// Tag is a free-form classification label for products
type Tag struct {
	ID   TagID  `json:"id"`
	Name string `json:"name"`
}

// NewTag creates a validated Tag with a fresh identifier
func NewTag(name string) (*Tag, error) {
	t := &Tag{ID: NewTagID(), Name: strings.TrimSpace(name)}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the tag invariants
func (t *Tag) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRequest)
	}
	return nil
}
