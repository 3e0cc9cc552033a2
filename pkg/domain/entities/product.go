package entities

import (
	"fmt"
	"strings"
)

// Product represents a finished or semi-finished good and its bill of materials.
// Materials and Details keep their insertion order; each list holds at most one
// line per referenced id.
type Product struct {
	ID          ProductID       `json:"id"`
	Article     string          `json:"article"`
	MeasureUnit string          `json:"measure_unit"`
	Dimensions  Dimensions      `json:"dimensions"`
	Stock       Quantity        `json:"stock"`
	Materials   []MaterialUsage `json:"materials"`
	Details     []DetailUsage   `json:"details"`
	Tags        []TagID         `json:"tags"`
}

// NewProduct creates a validated Product with a fresh identifier and an empty BOM
func NewProduct(article, measureUnit string, stock Quantity) (*Product, error) {
	p := &Product{
		ID:          NewProductID(),
		Article:     strings.TrimSpace(article),
		MeasureUnit: measureUnit,
		Stock:       stock,
		Materials:   []MaterialUsage{},
		Details:     []DetailUsage{},
		Tags:        []TagID{},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the product invariants, including every BOM line
func (p *Product) Validate() error {
	if p.Article == "" {
		return fmt.Errorf("%w: article cannot be empty", ErrInvalidRequest)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative, got %d", ErrInvalidRequest, p.Stock)
	}
	if err := p.Dimensions.validate(); err != nil {
		return err
	}
	for _, u := range p.Materials {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	for _, u := range p.Details {
		if err := u.Validate(); err != nil {
			return err
		}
		if u.ProductID == p.ID {
			return fmt.Errorf("%w: product %s cannot contain itself", ErrCyclicBOM, p.ID)
		}
	}
	return nil
}

// Clone returns a deep copy so callers never share line slices
func (p *Product) Clone() *Product {
	c := *p
	c.Materials = append([]MaterialUsage{}, p.Materials...)
	c.Details = append([]DetailUsage{}, p.Details...)
	c.Tags = append([]TagID{}, p.Tags...)
	return &c
}

func (p *Product) materialIndex(id MaterialID) int {
	for i, u := range p.Materials {
		if u.MaterialID == id {
			return i
		}
	}
	return -1
}

func (p *Product) detailIndex(id ProductID) int {
	for i, u := range p.Details {
		if u.ProductID == id {
			return i
		}
	}
	return -1
}

func (p *Product) tagIndex(id TagID) int {
	for i, t := range p.Tags {
		if t == id {
			return i
		}
	}
	return -1
}

// AddMaterial appends a material line
func (p *Product) AddMaterial(u MaterialUsage) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if p.materialIndex(u.MaterialID) >= 0 {
		return fmt.Errorf("%w: material %s already used by product %s", ErrConflict, u.MaterialID, p.ID)
	}
	p.Materials = append(p.Materials, u)
	return nil
}

// EditMaterial replaces an existing material line in place
func (p *Product) EditMaterial(u MaterialUsage) error {
	if err := u.Validate(); err != nil {
		return err
	}
	i := p.materialIndex(u.MaterialID)
	if i < 0 {
		return fmt.Errorf("%w: material %s is not used by product %s", ErrNotFound, u.MaterialID, p.ID)
	}
	p.Materials[i] = u
	return nil
}

// RemoveMaterial drops a material line
func (p *Product) RemoveMaterial(id MaterialID) error {
	i := p.materialIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: material %s is not used by product %s", ErrNotFound, id, p.ID)
	}
	p.Materials = append(p.Materials[:i], p.Materials[i+1:]...)
	return nil
}

// MaterialLine returns the usage line for a material
func (p *Product) MaterialLine(id MaterialID) (MaterialUsage, bool) {
	if i := p.materialIndex(id); i >= 0 {
		return p.Materials[i], true
	}
	return MaterialUsage{}, false
}

// AddDetail appends a nested product line
func (p *Product) AddDetail(u DetailUsage) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ProductID == p.ID {
		return fmt.Errorf("%w: product %s cannot contain itself", ErrCyclicBOM, p.ID)
	}
	if p.detailIndex(u.ProductID) >= 0 {
		return fmt.Errorf("%w: detail %s already used by product %s", ErrConflict, u.ProductID, p.ID)
	}
	p.Details = append(p.Details, u)
	return nil
}

// EditDetail replaces an existing nested product line in place
func (p *Product) EditDetail(u DetailUsage) error {
	if err := u.Validate(); err != nil {
		return err
	}
	i := p.detailIndex(u.ProductID)
	if i < 0 {
		return fmt.Errorf("%w: detail %s is not used by product %s", ErrNotFound, u.ProductID, p.ID)
	}
	p.Details[i] = u
	return nil
}

// RemoveDetail drops a nested product line
func (p *Product) RemoveDetail(id ProductID) error {
	i := p.detailIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: detail %s is not used by product %s", ErrNotFound, id, p.ID)
	}
	p.Details = append(p.Details[:i], p.Details[i+1:]...)
	return nil
}

// DetailLine returns the usage line for a nested product
func (p *Product) DetailLine(id ProductID) (DetailUsage, bool) {
	if i := p.detailIndex(id); i >= 0 {
		return p.Details[i], true
	}
	return DetailUsage{}, false
}

// AddTag attaches a tag
func (p *Product) AddTag(id TagID) error {
	if id == "" {
		return fmt.Errorf("%w: tag id cannot be empty", ErrInvalidRequest)
	}
	if p.tagIndex(id) >= 0 {
		return fmt.Errorf("%w: tag %s already attached to product %s", ErrConflict, id, p.ID)
	}
	p.Tags = append(p.Tags, id)
	return nil
}

// RemoveTag detaches a tag
func (p *Product) RemoveTag(id TagID) error {
	i := p.tagIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: tag %s is not attached to product %s", ErrNotFound, id, p.ID)
	}
	p.Tags = append(p.Tags[:i], p.Tags[i+1:]...)
	return nil
}

// HasTag reports whether the tag is attached
func (p *Product) HasTag(id TagID) bool {
	return p.tagIndex(id) >= 0
}
