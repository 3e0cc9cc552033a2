package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaterialUsage is one BOM line consuming a material per unit of product
type MaterialUsage struct {
	MaterialID      MaterialID      `json:"material_id"`
	QuantityPerUnit Quantity        `json:"quantity"`
	TimePerUnit     decimal.Decimal `json:"time"`
	CostPerUnit     decimal.Decimal `json:"cost"`
	Grade           Grade           `json:"grade"`
}

// NewMaterialUsage creates a validated MaterialUsage
func NewMaterialUsage(materialID MaterialID, qtyPer Quantity, timePer, costPer decimal.Decimal, grade Grade) (*MaterialUsage, error) {
	u := &MaterialUsage{
		MaterialID:      materialID,
		QuantityPerUnit: qtyPer,
		TimePerUnit:     timePer,
		CostPerUnit:     costPer,
		Grade:           grade,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the usage line invariants
func (u MaterialUsage) Validate() error {
	if u.MaterialID == "" {
		return fmt.Errorf("%w: material id cannot be empty", ErrInvalidRequest)
	}
	return validateRates(u.QuantityPerUnit, u.TimePerUnit, u.CostPerUnit)
}

// DetailUsage is one BOM line consuming a nested product per unit of product
type DetailUsage struct {
	ProductID       ProductID       `json:"product_id"`
	QuantityPerUnit Quantity        `json:"quantity"`
	TimePerUnit     decimal.Decimal `json:"time"`
	CostPerUnit     decimal.Decimal `json:"cost"`
}

// NewDetailUsage creates a validated DetailUsage
func NewDetailUsage(productID ProductID, qtyPer Quantity, timePer, costPer decimal.Decimal) (*DetailUsage, error) {
	u := &DetailUsage{
		ProductID:       productID,
		QuantityPerUnit: qtyPer,
		TimePerUnit:     timePer,
		CostPerUnit:     costPer,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the usage line invariants
func (u DetailUsage) Validate() error {
	if u.ProductID == "" {
		return fmt.Errorf("%w: detail id cannot be empty", ErrInvalidRequest)
	}
	return validateRates(u.QuantityPerUnit, u.TimePerUnit, u.CostPerUnit)
}

func validateRates(qty Quantity, timePer, costPer decimal.Decimal) error {
	if qty < 0 {
		return fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidRequest, qty)
	}
	if timePer.IsNegative() {
		return fmt.Errorf("%w: time cannot be negative, got %s", ErrInvalidRequest, timePer)
	}
	if costPer.IsNegative() {
		return fmt.Errorf("%w: cost cannot be negative, got %s", ErrInvalidRequest, costPer)
	}
	return nil
}
