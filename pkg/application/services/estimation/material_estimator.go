package estimation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// EstimateMaterial plans how to cover usage.QuantityPerUnit * multiplier units
// of a material in the grade the usage line asks for.
//
// Exactly one case applies, tried in order:
//   - CaseSufficient: the requested grade already covers the requirement
//   - CaseConvert: improved is short, improved+ordinary covers it
//   - CasePurchaseAndConvert: improved is short and so is improved+ordinary
//   - CasePurchase: ordinary is short
//
// Only CaseSufficient reports Enough. The function is pure; it never touches
// the store. A requirement too large for a Quantity is ErrInvalidRequest.
func EstimateMaterial(material entities.Material, usage entities.MaterialUsage, multiplier entities.Quantity) (dto.MaterialEstimate, error) {
	required, err := usage.QuantityPerUnit.Mul(multiplier)
	if err != nil {
		return dto.MaterialEstimate{}, fmt.Errorf("material %s: %w", material.Article, err)
	}
	stock := material.Stock

	est := dto.MaterialEstimate{
		MaterialID: material.ID,
		Article:    material.Article,
		Grade:      usage.Grade,
		Required:   required,
		Cost:       decimal.Zero,
		Time:       decimal.Zero,
		Stock:      stock,
	}

	switch {
	case required <= stock.Of(usage.Grade):
		est.Case = dto.CaseSufficient
		est.UseExisting = required
		est.Enough = true

	case usage.Grade == entities.Improved && required-stock.Improved <= stock.Ordinary:
		est.Case = dto.CaseConvert
		est.UseExisting = required
		est.Convert = required - stock.Improved
		est.Cost = scale(material.ConversionCost, est.Convert)
		est.Time = scale(material.ConversionTime, est.Convert)

	case usage.Grade == entities.Improved:
		est.Case = dto.CasePurchaseAndConvert
		est.UseExisting = stock.Improved + stock.Ordinary
		est.Purchase = required - est.UseExisting
		// Everything that is not already improved goes through conversion,
		// existing ordinary units and purchased ones alike.
		est.Convert = required - stock.Improved
		est.Cost = scale(material.ConversionCost, est.Convert).
			Add(scale(material.Price, est.Purchase))
		est.Time = scale(material.ConversionTime, est.Convert)

	default:
		est.Case = dto.CasePurchase
		est.UseExisting = stock.Ordinary
		est.Purchase = required - stock.Ordinary
		est.Cost = scale(material.Price, est.Purchase)
	}

	return est, nil
}

// scale multiplies a per-unit rate by a quantity
func scale(rate decimal.Decimal, qty entities.Quantity) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(qty)))
}
