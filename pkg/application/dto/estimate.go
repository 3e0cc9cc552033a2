package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// MaterialCase identifies which branch of the material estimate applied
type MaterialCase int

const (
	// CaseSufficient: the required grade already covers the requirement
	CaseSufficient MaterialCase = iota
	// CaseConvert: improved stock is short but ordinary stock can be converted
	CaseConvert
	// CasePurchaseAndConvert: both grades together are short; buy the rest and convert
	CasePurchaseAndConvert
	// CasePurchase: ordinary stock is short; buy the rest
	CasePurchase
)

// String method for MaterialCase enum
func (c MaterialCase) String() string {
	switch c {
	case CaseSufficient:
		return "sufficient"
	case CaseConvert:
		return "convert"
	case CasePurchaseAndConvert:
		return "purchase_and_convert"
	case CasePurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// MarshalText lets the case serialise by name
func (c MaterialCase) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a case name
func (c *MaterialCase) UnmarshalText(text []byte) error {
	for _, candidate := range []MaterialCase{CaseSufficient, CaseConvert, CasePurchaseAndConvert, CasePurchase} {
		if candidate.String() == string(text) {
			*c = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown material case %q", text)
}

// MaterialEstimate is the plan for one material usage line
type MaterialEstimate struct {
	MaterialID  entities.MaterialID `json:"material_id"`
	Article     string              `json:"article"`
	Grade       entities.Grade      `json:"grade"`
	Case        MaterialCase        `json:"case"`
	Required    entities.Quantity   `json:"required"`
	UseExisting entities.Quantity   `json:"use_existing"`
	Convert     entities.Quantity   `json:"convert"`
	Purchase    entities.Quantity   `json:"purchase"`
	Cost        decimal.Decimal     `json:"cost"`
	Time        decimal.Decimal     `json:"time"`
	Stock       entities.Stock      `json:"stock"`
	Enough      bool                `json:"enough"`
}

// DetailEstimate is the plan for one nested product usage line.
// Cost and Time include the nested build plus this line's assembly labour.
type DetailEstimate struct {
	ProductID    entities.ProductID `json:"product_id"`
	Required     entities.Quantity  `json:"required"`
	AssemblyCost decimal.Decimal    `json:"assembly_cost"`
	AssemblyTime decimal.Decimal    `json:"assembly_time"`
	Cost         decimal.Decimal    `json:"cost"`
	Time         decimal.Decimal    `json:"time"`
	Enough       bool               `json:"enough"`
	Estimate     *ProductEstimate   `json:"estimate"`
}

// ProductEstimate mirrors the BOM tree for a requested quantity.
//
// Enough means the quantity is served entirely from finished-goods stock.
// Buildable means every direct material and detail line is covered by
// existing stock, so CreateNew units could be built right away.
type ProductEstimate struct {
	ProductID   entities.ProductID `json:"product_id"`
	Article     string             `json:"article"`
	Required    entities.Quantity  `json:"required"`
	Stock       entities.Quantity  `json:"stock"`
	UseExisting entities.Quantity  `json:"use_existing"`
	CreateNew   entities.Quantity  `json:"create_new"`
	StockAfter  entities.Quantity  `json:"stock_after"`
	Cost        decimal.Decimal    `json:"cost"`
	Time        decimal.Decimal    `json:"time"`
	Enough      bool               `json:"enough"`
	Buildable   bool               `json:"buildable"`
	Materials   []MaterialEstimate `json:"materials"`
	Details     []DetailEstimate   `json:"details"`
}

// Shortages lists every material line, at any depth, that is not covered by stock
func (e *ProductEstimate) Shortages() []MaterialEstimate {
	var out []MaterialEstimate
	var walk func(node *ProductEstimate)
	walk = func(node *ProductEstimate) {
		if node == nil {
			return
		}
		for _, m := range node.Materials {
			if !m.Enough {
				out = append(out, m)
			}
		}
		for _, d := range node.Details {
			walk(d.Estimate)
		}
	}
	walk(e)
	return out
}
