package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProduct_Validation(t *testing.T) {
	valid, err := NewProduct("CHAIR-01", "pcs", 5)
	if err != nil {
		t.Fatalf("Expected valid product creation to succeed: %v", err)
	}
	if valid.Stock != 5 {
		t.Errorf("Expected stock 5, got %d", valid.Stock)
	}
	if !ValidID(string(valid.ID)) {
		t.Errorf("Expected generated id to be a valid identifier, got %q", valid.ID)
	}

	testCases := []struct {
		name        string
		article     string
		stock       Quantity
		expectError string
	}{
		{"empty article", "", 0, "invalid request: article cannot be empty"},
		{"blank article", "   ", 0, "invalid request: article cannot be empty"},
		{"negative stock", "CHAIR-01", -1, "invalid request: stock cannot be negative, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(tc.article, "pcs", tc.stock)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestProduct_MaterialLines(t *testing.T) {
	p, _ := NewProduct("TABLE", "pcs", 0)
	line := MaterialUsage{MaterialID: "wood", QuantityPerUnit: 4, TimePerUnit: decimal.NewFromInt(1), CostPerUnit: decimal.NewFromInt(2)}

	if err := p.AddMaterial(line); err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}
	if err := p.AddMaterial(line); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate line, got %v", err)
	}

	line.QuantityPerUnit = 6
	line.Grade = Improved
	if err := p.EditMaterial(line); err != nil {
		t.Fatalf("EditMaterial failed: %v", err)
	}
	got, ok := p.MaterialLine("wood")
	if !ok {
		t.Fatal("Expected material line to exist")
	}
	if got.QuantityPerUnit != 6 || got.Grade != Improved {
		t.Errorf("Expected edited line qty 6 improved, got %d %s", got.QuantityPerUnit, got.Grade)
	}

	if err := p.EditMaterial(MaterialUsage{MaterialID: "steel"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound editing absent line, got %v", err)
	}
	if err := p.RemoveMaterial("wood"); err != nil {
		t.Fatalf("RemoveMaterial failed: %v", err)
	}
	if len(p.Materials) != 0 {
		t.Errorf("Expected no material lines, got %d", len(p.Materials))
	}
	if err := p.RemoveMaterial("wood"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound removing absent line, got %v", err)
	}
	if err := p.AddMaterial(MaterialUsage{MaterialID: "wood", QuantityPerUnit: -1}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for negative quantity, got %v", err)
	}
}

func TestProduct_DetailLines(t *testing.T) {
	p, _ := NewProduct("TABLE", "pcs", 0)

	if err := p.AddDetail(DetailUsage{ProductID: p.ID, QuantityPerUnit: 1}); !errors.Is(err, ErrCyclicBOM) {
		t.Errorf("Expected ErrCyclicBOM for self reference, got %v", err)
	}
	if err := p.AddDetail(DetailUsage{ProductID: "leg", QuantityPerUnit: 4}); err != nil {
		t.Fatalf("AddDetail failed: %v", err)
	}
	if err := p.AddDetail(DetailUsage{ProductID: "leg", QuantityPerUnit: 2}); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate detail, got %v", err)
	}
	if err := p.EditDetail(DetailUsage{ProductID: "leg", QuantityPerUnit: 3}); err != nil {
		t.Fatalf("EditDetail failed: %v", err)
	}
	if got, _ := p.DetailLine("leg"); got.QuantityPerUnit != 3 {
		t.Errorf("Expected detail qty 3, got %d", got.QuantityPerUnit)
	}
	if err := p.RemoveDetail("leg"); err != nil {
		t.Fatalf("RemoveDetail failed: %v", err)
	}
	if err := p.RemoveDetail("leg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProduct_Tags(t *testing.T) {
	p, _ := NewProduct("TABLE", "pcs", 0)

	if err := p.AddTag("oak"); err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	if err := p.AddTag("oak"); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
	if !p.HasTag("oak") {
		t.Error("Expected tag to be attached")
	}
	if err := p.RemoveTag("oak"); err != nil {
		t.Fatalf("RemoveTag failed: %v", err)
	}
	if err := p.RemoveTag("oak"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProduct_CloneIsIndependent(t *testing.T) {
	p, _ := NewProduct("TABLE", "pcs", 0)
	_ = p.AddMaterial(MaterialUsage{MaterialID: "wood", QuantityPerUnit: 1})

	c := p.Clone()
	c.Materials[0].QuantityPerUnit = 99
	_ = c.AddTag("oak")

	if p.Materials[0].QuantityPerUnit != 1 {
		t.Errorf("Expected original line untouched, got %d", p.Materials[0].QuantityPerUnit)
	}
	if len(p.Tags) != 0 {
		t.Errorf("Expected original tags untouched, got %v", p.Tags)
	}
}
