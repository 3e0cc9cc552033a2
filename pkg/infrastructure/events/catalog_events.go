package events

import (
	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

const (
	StockChangedEvent     = "stock.changed"
	EstimateRejectedEvent = "estimate.rejected"
)

// StockChanged is published once per committed stock movement
type StockChanged struct {
	Movement entities.StockMovement `json:"movement"`
}

// EstimateRejected is published when a stock mutation fails its feasibility check
type EstimateRejected struct {
	ProductID entities.ProductID `json:"product_id"`
	Change    entities.Quantity  `json:"change"`
	CreateNew entities.Quantity  `json:"create_new"`
	Shortages int                `json:"shortages"`
}

func NewStockChangedEvent(m entities.StockMovement) Event {
	return NewEvent(StockChangedEvent, m.EntityID, StockChanged{Movement: m})
}

func NewEstimateRejectedEvent(productID entities.ProductID, change, createNew entities.Quantity, shortages int) Event {
	return NewEvent(EstimateRejectedEvent, string(productID), EstimateRejected{
		ProductID: productID,
		Change:    change,
		CreateNew: createNew,
		Shortages: shortages,
	})
}
