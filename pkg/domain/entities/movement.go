package entities

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind tells which kind of catalog entry a stock movement touched
type MovementKind int

const (
	MaterialMovement MovementKind = iota
	ProductMovement
)

// String method for MovementKind enum
func (k MovementKind) String() string {
	switch k {
	case MaterialMovement:
		return "material"
	case ProductMovement:
		return "product"
	default:
		return "unknown"
	}
}

// MovementReason explains why stock changed
type MovementReason string

const (
	ReasonProduced   MovementReason = "produced"
	ReasonConsumed   MovementReason = "consumed"
	ReasonAssembly   MovementReason = "assembly"
	ReasonAdjustment MovementReason = "adjustment"
)

// StockMovement is one journal entry of a stock change.
// Grade is only meaningful for material movements.
type StockMovement struct {
	ID        string         `json:"id"`
	Kind      MovementKind   `json:"kind"`
	EntityID  string         `json:"entity_id"`
	Grade     Grade          `json:"grade"`
	Delta     Quantity       `json:"delta"`
	Before    Quantity       `json:"before"`
	After     Quantity       `json:"after"`
	Reason    MovementReason `json:"reason"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewStockMovement stamps a movement with an id and the current time
func NewStockMovement(kind MovementKind, entityID string, grade Grade, before, delta Quantity, reason MovementReason) StockMovement {
	return StockMovement{
		ID:        uuid.NewString(),
		Kind:      kind,
		EntityID:  entityID,
		Grade:     grade,
		Delta:     delta,
		Before:    before,
		After:     before + delta,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}
