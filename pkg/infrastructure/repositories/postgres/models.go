package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// dimensionsJSON stores Dimensions in a jsonb column
type dimensionsJSON = datatypes.JSONType[entities.Dimensions]

type materialModel struct {
	ID             string          `gorm:"primaryKey;type:uuid"`
	Article        string          `gorm:"uniqueIndex;not null"`
	MeasureUnit    string          `gorm:"not null"`
	Dimensions     dimensionsJSON  `gorm:"type:jsonb"`
	Price          decimal.Decimal `gorm:"type:numeric(18,4)"`
	ConversionCost decimal.Decimal `gorm:"type:numeric(18,4)"`
	ConversionTime decimal.Decimal `gorm:"type:numeric(18,4)"`
	StockOrdinary  int64           `gorm:"not null"`
	StockImproved  int64           `gorm:"not null"`
}

func (materialModel) TableName() string { return "materials" }

type productModel struct {
	ID          string         `gorm:"primaryKey;type:uuid"`
	Article     string         `gorm:"uniqueIndex;not null"`
	MeasureUnit string         `gorm:"not null"`
	Dimensions  dimensionsJSON `gorm:"type:jsonb"`
	Stock       int64          `gorm:"not null"`

	Materials []materialLineModel `gorm:"foreignKey:ProductID"`
	Details   []detailLineModel   `gorm:"foreignKey:ProductID"`
	Tags      []productTagModel   `gorm:"foreignKey:ProductID"`
}

func (productModel) TableName() string { return "products" }

type materialLineModel struct {
	ProductID  string          `gorm:"primaryKey;type:uuid"`
	MaterialID string          `gorm:"primaryKey;type:uuid"`
	Position   int             `gorm:"not null"`
	Quantity   int64           `gorm:"not null"`
	Time       decimal.Decimal `gorm:"type:numeric(18,4)"`
	Cost       decimal.Decimal `gorm:"type:numeric(18,4)"`
	Grade      int16           `gorm:"not null"`
}

func (materialLineModel) TableName() string { return "product_materials" }

type detailLineModel struct {
	ProductID string          `gorm:"primaryKey;type:uuid"`
	DetailID  string          `gorm:"primaryKey;type:uuid"`
	Position  int             `gorm:"not null"`
	Quantity  int64           `gorm:"not null"`
	Time      decimal.Decimal `gorm:"type:numeric(18,4)"`
	Cost      decimal.Decimal `gorm:"type:numeric(18,4)"`
}

func (detailLineModel) TableName() string { return "product_details" }

type productTagModel struct {
	ProductID string `gorm:"primaryKey;type:uuid"`
	TagID     string `gorm:"primaryKey;type:uuid"`
	Position  int    `gorm:"not null"`
}

func (productTagModel) TableName() string { return "product_tags" }

type tagModel struct {
	ID   string `gorm:"primaryKey;type:uuid"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (tagModel) TableName() string { return "tags" }

type movementModel struct {
	Seq       int64  `gorm:"primaryKey;autoIncrement"`
	ID        string `gorm:"uniqueIndex;type:uuid"`
	Kind      int16
	EntityID  string `gorm:"index"`
	Grade     int16
	Delta     int64
	Before    int64
	After     int64
	Reason    string
	CreatedAt time.Time
}

func (movementModel) TableName() string { return "stock_movements" }

func fromMaterial(m *entities.Material) materialModel {
	return materialModel{
		ID:             string(m.ID),
		Article:        m.Article,
		MeasureUnit:    m.MeasureUnit,
		Dimensions:     datatypes.NewJSONType(m.Dimensions),
		Price:          m.Price,
		ConversionCost: m.ConversionCost,
		ConversionTime: m.ConversionTime,
		StockOrdinary:  int64(m.Stock.Ordinary),
		StockImproved:  int64(m.Stock.Improved),
	}
}

func (m materialModel) toEntity() *entities.Material {
	return &entities.Material{
		ID:             entities.MaterialID(m.ID),
		Article:        m.Article,
		MeasureUnit:    m.MeasureUnit,
		Dimensions:     m.Dimensions.Data(),
		Price:          m.Price,
		ConversionCost: m.ConversionCost,
		ConversionTime: m.ConversionTime,
		Stock: entities.Stock{
			Ordinary: entities.Quantity(m.StockOrdinary),
			Improved: entities.Quantity(m.StockImproved),
		},
	}
}

// fromProduct maps the product row and its lines. Positions keep the
// insertion order of every list.
func fromProduct(p *entities.Product) productModel {
	pm := productModel{
		ID:          string(p.ID),
		Article:     p.Article,
		MeasureUnit: p.MeasureUnit,
		Dimensions:  datatypes.NewJSONType(p.Dimensions),
		Stock:       int64(p.Stock),
		Materials:   make([]materialLineModel, 0, len(p.Materials)),
		Details:     make([]detailLineModel, 0, len(p.Details)),
		Tags:        make([]productTagModel, 0, len(p.Tags)),
	}
	for i, u := range p.Materials {
		pm.Materials = append(pm.Materials, materialLineModel{
			ProductID:  pm.ID,
			MaterialID: string(u.MaterialID),
			Position:   i,
			Quantity:   int64(u.QuantityPerUnit),
			Time:       u.TimePerUnit,
			Cost:       u.CostPerUnit,
			Grade:      int16(u.Grade),
		})
	}
	for i, u := range p.Details {
		pm.Details = append(pm.Details, detailLineModel{
			ProductID: pm.ID,
			DetailID:  string(u.ProductID),
			Position:  i,
			Quantity:  int64(u.QuantityPerUnit),
			Time:      u.TimePerUnit,
			Cost:      u.CostPerUnit,
		})
	}
	for i, id := range p.Tags {
		pm.Tags = append(pm.Tags, productTagModel{ProductID: pm.ID, TagID: string(id), Position: i})
	}
	return pm
}

func (pm productModel) toEntity() *entities.Product {
	p := &entities.Product{
		ID:          entities.ProductID(pm.ID),
		Article:     pm.Article,
		MeasureUnit: pm.MeasureUnit,
		Dimensions:  pm.Dimensions.Data(),
		Stock:       entities.Quantity(pm.Stock),
		Materials:   make([]entities.MaterialUsage, 0, len(pm.Materials)),
		Details:     make([]entities.DetailUsage, 0, len(pm.Details)),
		Tags:        make([]entities.TagID, 0, len(pm.Tags)),
	}
	for _, l := range pm.Materials {
		p.Materials = append(p.Materials, entities.MaterialUsage{
			MaterialID:      entities.MaterialID(l.MaterialID),
			QuantityPerUnit: entities.Quantity(l.Quantity),
			TimePerUnit:     l.Time,
			CostPerUnit:     l.Cost,
			Grade:           entities.Grade(l.Grade),
		})
	}
	for _, l := range pm.Details {
		p.Details = append(p.Details, entities.DetailUsage{
			ProductID:       entities.ProductID(l.DetailID),
			QuantityPerUnit: entities.Quantity(l.Quantity),
			TimePerUnit:     l.Time,
			CostPerUnit:     l.Cost,
		})
	}
	for _, t := range pm.Tags {
		p.Tags = append(p.Tags, entities.TagID(t.TagID))
	}
	return p
}

func fromTag(t *entities.Tag) tagModel {
	return tagModel{ID: string(t.ID), Name: t.Name}
}

func (t tagModel) toEntity() *entities.Tag {
	return &entities.Tag{ID: entities.TagID(t.ID), Name: t.Name}
}

func fromMovement(m entities.StockMovement) movementModel {
	return movementModel{
		ID:        m.ID,
		Kind:      int16(m.Kind),
		EntityID:  m.EntityID,
		Grade:     int16(m.Grade),
		Delta:     int64(m.Delta),
		Before:    int64(m.Before),
		After:     int64(m.After),
		Reason:    string(m.Reason),
		CreatedAt: m.CreatedAt,
	}
}

func (m movementModel) toEntity() entities.StockMovement {
	return entities.StockMovement{
		ID:        m.ID,
		Kind:      entities.MovementKind(m.Kind),
		EntityID:  m.EntityID,
		Grade:     entities.Grade(m.Grade),
		Delta:     entities.Quantity(m.Delta),
		Before:    entities.Quantity(m.Before),
		After:     entities.Quantity(m.After),
		Reason:    entities.MovementReason(m.Reason),
		CreatedAt: m.CreatedAt,
	}
}
