package api

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// Request bodies use pointers so edits only touch the fields that were sent.
// A body that sets nothing is rejected.

type materialRequest struct {
	Article        *string              `json:"article"`
	MeasureUnit    *string              `json:"measure_unit"`
	Dimensions     *entities.Dimensions `json:"dimensions"`
	Price          *decimal.Decimal     `json:"price"`
	ConversionCost *decimal.Decimal     `json:"conversion_cost"`
	ConversionTime *decimal.Decimal     `json:"conversion_time"`
	Stock          *entities.Stock      `json:"stock"`
}

func (r materialRequest) empty() bool {
	return r.Article == nil && r.MeasureUnit == nil && r.Dimensions == nil &&
		r.Price == nil && r.ConversionCost == nil && r.ConversionTime == nil && r.Stock == nil
}

// apply copies the sent fields onto m. Stock is only honoured on create.
func (r materialRequest) apply(m *entities.Material, create bool) {
	if r.Article != nil {
		m.Article = *r.Article
	}
	if r.MeasureUnit != nil {
		m.MeasureUnit = *r.MeasureUnit
	}
	if r.Dimensions != nil {
		m.Dimensions = *r.Dimensions
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.ConversionCost != nil {
		m.ConversionCost = *r.ConversionCost
	}
	if r.ConversionTime != nil {
		m.ConversionTime = *r.ConversionTime
	}
	if create && r.Stock != nil {
		m.Stock = *r.Stock
	}
}

type stockDeltaRequest struct {
	Ordinary *entities.Quantity `json:"ordinary"`
	Improved *entities.Quantity `json:"improved"`
}

type tagRequest struct {
	Name *string `json:"name"`
}

type productRequest struct {
	Article     *string              `json:"article"`
	MeasureUnit *string              `json:"measure_unit"`
	Dimensions  *entities.Dimensions `json:"dimensions"`
	Stock       *entities.Quantity   `json:"stock"`
}

func (r productRequest) empty() bool {
	return r.Article == nil && r.MeasureUnit == nil && r.Dimensions == nil && r.Stock == nil
}

func (r productRequest) apply(p *entities.Product, create bool) {
	if r.Article != nil {
		p.Article = *r.Article
	}
	if r.MeasureUnit != nil {
		p.MeasureUnit = *r.MeasureUnit
	}
	if r.Dimensions != nil {
		p.Dimensions = *r.Dimensions
	}
	if create && r.Stock != nil {
		p.Stock = *r.Stock
	}
}

// lineRequest is the body of a material or detail BOM line
type lineRequest struct {
	Quantity *entities.Quantity `json:"quantity"`
	Time     *decimal.Decimal   `json:"time"`
	Cost     *decimal.Decimal   `json:"cost"`
	Grade    *entities.Grade    `json:"grade"`
}

func (r lineRequest) empty() bool {
	return r.Quantity == nil && r.Time == nil && r.Cost == nil && r.Grade == nil
}

func (r lineRequest) applyMaterial(u *entities.MaterialUsage) {
	if r.Quantity != nil {
		u.QuantityPerUnit = *r.Quantity
	}
	if r.Time != nil {
		u.TimePerUnit = *r.Time
	}
	if r.Cost != nil {
		u.CostPerUnit = *r.Cost
	}
	if r.Grade != nil {
		u.Grade = *r.Grade
	}
}

func (r lineRequest) applyDetail(u *entities.DetailUsage) {
	if r.Quantity != nil {
		u.QuantityPerUnit = *r.Quantity
	}
	if r.Time != nil {
		u.TimePerUnit = *r.Time
	}
	if r.Cost != nil {
		u.CostPerUnit = *r.Cost
	}
}

type estimateRequest struct {
	Quantity *entities.Quantity `json:"quantity"`
}

type stockChangeRequest struct {
	Change *entities.Quantity `json:"change"`
}
