package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Dimensions describes the physical size of a catalog entry
type Dimensions struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Weight decimal.Decimal `json:"weight"`
}

func (d Dimensions) validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"length", d.Length},
		{"width", d.Width},
		{"height", d.Height},
		{"weight", d.Weight},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative, got %s", ErrInvalidRequest, f.name, f.value)
		}
	}
	return nil
}

// Material represents a purchasable raw material with graded stock.
//
// ConversionCost and ConversionTime are the extra cost and time needed to turn
// one ordinary unit into an improved one.
type Material struct {
	ID             MaterialID      `json:"id"`
	Article        string          `json:"article"`
	MeasureUnit    string          `json:"measure_unit"`
	Dimensions     Dimensions      `json:"dimensions"`
	Price          decimal.Decimal `json:"price"`
	ConversionCost decimal.Decimal `json:"conversion_cost"`
	ConversionTime decimal.Decimal `json:"conversion_time"`
	Stock          Stock           `json:"stock"`
}

// NewMaterial creates a validated Material with a fresh identifier
func NewMaterial(article, measureUnit string, price, conversionCost, conversionTime decimal.Decimal, stock Stock) (*Material, error) {
	m := &Material{
		ID:             NewMaterialID(),
		Article:        strings.TrimSpace(article),
		MeasureUnit:    measureUnit,
		Price:          price,
		ConversionCost: conversionCost,
		ConversionTime: conversionTime,
		Stock:          stock,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the material invariants
func (m *Material) Validate() error {
	if m.Article == "" {
		return fmt.Errorf("%w: article cannot be empty", ErrInvalidRequest)
	}
	if m.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative, got %s", ErrInvalidRequest, m.Price)
	}
	if m.ConversionCost.IsNegative() {
		return fmt.Errorf("%w: conversion cost cannot be negative, got %s", ErrInvalidRequest, m.ConversionCost)
	}
	if m.ConversionTime.IsNegative() {
		return fmt.Errorf("%w: conversion time cannot be negative, got %s", ErrInvalidRequest, m.ConversionTime)
	}
	if m.Stock.Ordinary < 0 || m.Stock.Improved < 0 {
		return fmt.Errorf("%w: stock cannot be negative, got ordinary %d improved %d",
			ErrInvalidRequest, m.Stock.Ordinary, m.Stock.Improved)
	}
	return m.Dimensions.validate()
}
