package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/infrastructure/repositories/memory"
)

// MustMaterial is a helper for tests - panics on validation error
func MustMaterial(article string, price, conversionCost, conversionTime int64, stock entities.Stock) *entities.Material {
	m, err := entities.NewMaterial(
		article,
		"pcs",
		decimal.NewFromInt(price),
		decimal.NewFromInt(conversionCost),
		decimal.NewFromInt(conversionTime),
		stock,
	)
	if err != nil {
		panic(err)
	}
	return m
}

// MustProduct is a helper for tests - panics on validation error
func MustProduct(article string, stock entities.Quantity) *entities.Product {
	p, err := entities.NewProduct(article, "pcs", stock)
	if err != nil {
		panic(err)
	}
	return p
}

// MaterialLine builds a material usage line with no labour of its own
func MaterialLine(id entities.MaterialID, qtyPer entities.Quantity, grade entities.Grade) entities.MaterialUsage {
	return entities.MaterialUsage{
		MaterialID:      id,
		QuantityPerUnit: qtyPer,
		TimePerUnit:     decimal.Zero,
		CostPerUnit:     decimal.Zero,
		Grade:           grade,
	}
}

// DetailLine builds a nested product line with the given assembly labour rates
func DetailLine(id entities.ProductID, qtyPer entities.Quantity, timePer, costPer int64) entities.DetailUsage {
	return entities.DetailUsage{
		ProductID:       id,
		QuantityPerUnit: qtyPer,
		TimePerUnit:     decimal.NewFromInt(timePer),
		CostPerUnit:     decimal.NewFromInt(costPer),
	}
}

// Workshop is a small furniture catalog shared by service tests
type Workshop struct {
	Store *memory.Store

	Oak   *entities.Material
	Bolt  *entities.Material
	Leg   *entities.Product
	Top   *entities.Product
	Table *entities.Product
	Wood  *entities.Tag
}

// BuildWorkshopCatalog creates the workshop scenario:
//
//	TABLE (stock 0)
//	├── BOLT x4 ordinary
//	├── LEG x4   (assembly time 1, cost 2)
//	│   ├── OAK x2 ordinary
//	│   └── BOLT x2 ordinary
//	└── TOP x1   (assembly time 3, cost 5), stock 1
//	    └── OAK x6 improved
//
// OAK: ordinary 100, improved 10, price 5, conversion cost 1 / time 2.
// BOLT: ordinary 50, price 1.
func BuildWorkshopCatalog() *Workshop {
	ctx := context.Background()
	w := &Workshop{Store: memory.NewStore()}

	w.Oak = MustMaterial("OAK", 5, 1, 2, entities.Stock{Ordinary: 100, Improved: 10})
	w.Bolt = MustMaterial("BOLT", 1, 0, 0, entities.Stock{Ordinary: 50})

	w.Leg = MustProduct("LEG", 0)
	must(w.Leg.AddMaterial(MaterialLine(w.Oak.ID, 2, entities.Ordinary)))
	must(w.Leg.AddMaterial(MaterialLine(w.Bolt.ID, 2, entities.Ordinary)))

	w.Top = MustProduct("TOP", 1)
	must(w.Top.AddMaterial(MaterialLine(w.Oak.ID, 6, entities.Improved)))

	tag, err := entities.NewTag("wood")
	must(err)
	w.Wood = tag

	w.Table = MustProduct("TABLE", 0)
	must(w.Table.AddMaterial(MaterialLine(w.Bolt.ID, 4, entities.Ordinary)))
	must(w.Table.AddDetail(DetailLine(w.Leg.ID, 4, 1, 2)))
	must(w.Table.AddDetail(DetailLine(w.Top.ID, 1, 3, 5)))
	must(w.Table.AddTag(w.Wood.ID))

	must(w.Store.CreateMaterial(ctx, w.Oak))
	must(w.Store.CreateMaterial(ctx, w.Bolt))
	must(w.Store.CreateTag(ctx, w.Wood))
	must(w.Store.CreateProduct(ctx, w.Leg))
	must(w.Store.CreateProduct(ctx, w.Top))
	must(w.Store.CreateProduct(ctx, w.Table))

	return w
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
