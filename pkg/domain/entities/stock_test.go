package entities

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStock_Apply(t *testing.T) {
	tests := []struct {
		name      string
		stock     Stock
		delta     StockDelta
		expected  Stock
		expectErr bool
	}{
		{"consume ordinary", Stock{Ordinary: 10, Improved: 2}, StockDelta{Ordinary: -4}, Stock{Ordinary: 6, Improved: 2}, false},
		{"consume improved to zero", Stock{Ordinary: 10, Improved: 2}, StockDelta{Improved: -2}, Stock{Ordinary: 10, Improved: 0}, false},
		{"receive both", Stock{}, StockDelta{Ordinary: 3, Improved: 1}, Stock{Ordinary: 3, Improved: 1}, false},
		{"overdraw ordinary", Stock{Ordinary: 1}, StockDelta{Ordinary: -2}, Stock{Ordinary: 1}, true},
		{"overdraw improved", Stock{Improved: 1}, StockDelta{Improved: -5}, Stock{Improved: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stock.Apply(tt.delta)
			if tt.expectErr {
				if !errors.Is(err, ErrInsufficientStock) {
					t.Fatalf("Expected ErrInsufficientStock, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestStock_OfAndDeltaFor(t *testing.T) {
	s := Stock{Ordinary: 7, Improved: 3}
	if s.Of(Ordinary) != 7 {
		t.Errorf("Expected ordinary 7, got %d", s.Of(Ordinary))
	}
	if s.Of(Improved) != 3 {
		t.Errorf("Expected improved 3, got %d", s.Of(Improved))
	}
	if s.Total() != 10 {
		t.Errorf("Expected total 10, got %d", s.Total())
	}
	if d := DeltaFor(Improved, -2); d != (StockDelta{Improved: -2}) {
		t.Errorf("Expected improved delta, got %+v", d)
	}
	if d := DeltaFor(Ordinary, 5); d != (StockDelta{Ordinary: 5}) {
		t.Errorf("Expected ordinary delta, got %+v", d)
	}
	if !(StockDelta{}).IsZero() {
		t.Error("Expected empty delta to be zero")
	}
}

func TestGrade_JSON(t *testing.T) {
	var line MaterialUsage
	if err := json.Unmarshal([]byte(`{"material_id":"m","quantity":2,"grade":"improved"}`), &line); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if line.Grade != Improved {
		t.Errorf("Expected improved grade, got %s", line.Grade)
	}

	out, err := json.Marshal(Ordinary)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `"ordinary"` {
		t.Errorf("Expected \"ordinary\", got %s", out)
	}

	if err := json.Unmarshal([]byte(`{"grade":"shiny"}`), &line); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for unknown grade, got %v", err)
	}
}

func TestMaterial_Validation(t *testing.T) {
	m, err := NewMaterial("OAK-BOARD", "m", decimal.NewFromInt(5), decimal.NewFromInt(1), decimal.NewFromInt(2), Stock{Ordinary: 10, Improved: 2})
	if err != nil {
		t.Fatalf("Expected valid material creation to succeed: %v", err)
	}
	if !m.Price.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected price 5, got %s", m.Price)
	}

	testCases := []struct {
		name        string
		article     string
		price       decimal.Decimal
		stock       Stock
		expectError string
	}{
		{"empty article", "", decimal.Zero, Stock{}, "invalid request: article cannot be empty"},
		{"negative price", "OAK", decimal.NewFromInt(-1), Stock{}, "invalid request: price cannot be negative, got -1"},
		{"negative stock", "OAK", decimal.Zero, Stock{Improved: -1}, "invalid request: stock cannot be negative, got ordinary 0 improved -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMaterial(tc.article, "m", tc.price, decimal.Zero, decimal.Zero, tc.stock)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestNewStockMovement(t *testing.T) {
	mv := NewStockMovement(MaterialMovement, "m1", Improved, 10, -4, ReasonAssembly)
	if mv.After != 6 {
		t.Errorf("Expected after 6, got %d", mv.After)
	}
	if mv.ID == "" {
		t.Error("Expected movement id to be set")
	}
	if mv.Kind.String() != "material" {
		t.Errorf("Expected kind material, got %s", mv.Kind)
	}
}
