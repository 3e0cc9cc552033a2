package entities

import "github.com/google/uuid"

// MaterialID identifies a raw material in the catalog
type MaterialID string

// ProductID identifies a finished or semi-finished product in the catalog
type ProductID string

// TagID identifies a classification tag
type TagID string

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// NewMaterialID generates a fresh material identifier
func NewMaterialID() MaterialID {
	return MaterialID(uuid.NewString())
}

// NewProductID generates a fresh product identifier
func NewProductID() ProductID {
	return ProductID(uuid.NewString())
}

// NewTagID generates a fresh tag identifier
func NewTagID() TagID {
	return TagID(uuid.NewString())
}

// ValidID reports whether s has the shape of a catalog identifier
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
