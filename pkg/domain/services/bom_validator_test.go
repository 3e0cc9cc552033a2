package services

import (
	"testing"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func product(id entities.ProductID, details ...entities.ProductID) *entities.Product {
	p := &entities.Product{ID: id, Article: string(id)}
	for _, d := range details {
		p.Details = append(p.Details, entities.DetailUsage{ProductID: d, QuantityPerUnit: 1})
	}
	return p
}

func TestBOMValidator_DetectSimpleCycle(t *testing.T) {
	// A -> B -> A
	products := []*entities.Product{product("A", "B"), product("B", "A")}

	result := NewBOMValidator().ValidateCatalog(products)

	if !result.HasCycles {
		t.Error("Expected cycle to be detected")
	}
	if len(result.CyclePaths) == 0 {
		t.Fatal("Expected at least one cycle path")
	}
	cycle := result.CyclePaths[0]
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("Expected closed cycle path, got %v", cycle)
	}
	if len(result.Errors) == 0 {
		t.Error("Expected validation errors for cycles")
	}
}

func TestBOMValidator_DetectLongerCycle(t *testing.T) {
	// A -> B -> C -> A
	products := []*entities.Product{product("A", "B"), product("B", "C"), product("C", "A")}

	result := NewBOMValidator().ValidateCatalog(products)

	if !result.HasCycles {
		t.Fatal("Expected cycle to be detected")
	}
	if len(result.CyclePaths[0]) != 4 {
		t.Errorf("Expected cycle path of 4 nodes, got %v", result.CyclePaths[0])
	}
}

func TestBOMValidator_DiamondIsNotACycle(t *testing.T) {
	// A -> B, A -> C, B -> D, C -> D
	products := []*entities.Product{
		product("A", "B", "C"),
		product("B", "D"),
		product("C", "D"),
		product("D"),
	}

	result := NewBOMValidator().ValidateCatalog(products)

	if result.HasCycles {
		t.Errorf("Expected no cycles in diamond, got %v", result.CyclePaths)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
}

func TestBOMValidator_MissingDetails(t *testing.T) {
	products := []*entities.Product{product("A", "GHOST")}

	result := NewBOMValidator().ValidateCatalog(products)

	if len(result.MissingDetails) != 1 || result.MissingDetails[0] != "GHOST" {
		t.Errorf("Expected GHOST to be reported missing, got %v", result.MissingDetails)
	}
}

func TestBOMValidator_WouldCreateCycle(t *testing.T) {
	products := []*entities.Product{
		product("TABLE", "LEG"),
		product("LEG", "FOOT"),
		product("FOOT"),
		product("SHELF"),
	}
	v := NewBOMValidator()

	tests := []struct {
		name          string
		parent, child entities.ProductID
		expectCycle   bool
		expectPathLen int
	}{
		{"self reference", "TABLE", "TABLE", true, 2},
		{"back edge to root", "FOOT", "TABLE", true, 4},
		{"direct back edge", "LEG", "TABLE", true, 3},
		{"unrelated product", "TABLE", "SHELF", false, 0},
		{"shared leaf", "SHELF", "FOOT", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, cyclic := v.WouldCreateCycle(products, tt.parent, tt.child)
			if cyclic != tt.expectCycle {
				t.Fatalf("Expected cycle=%v, got %v (path %v)", tt.expectCycle, cyclic, path)
			}
			if len(path) != tt.expectPathLen {
				t.Errorf("Expected path length %d, got %v", tt.expectPathLen, path)
			}
			if cyclic && (path[0] != tt.parent || path[len(path)-1] != tt.parent) {
				t.Errorf("Expected path to start and end at %s, got %v", tt.parent, path)
			}
		})
	}
}

func TestBOMValidator_DetectDuplicateLines(t *testing.T) {
	// Lines written straight to storage can repeat an id that AddMaterial would refuse
	table := product("TABLE", "LEG", "TOP", "LEG", "LEG")
	table.Materials = []entities.MaterialUsage{
		{MaterialID: "OAK", QuantityPerUnit: 1, Grade: entities.Ordinary},
		{MaterialID: "GLUE", QuantityPerUnit: 1, Grade: entities.Ordinary},
		{MaterialID: "OAK", QuantityPerUnit: 2, Grade: entities.Improved},
	}
	products := []*entities.Product{table, product("LEG"), product("TOP")}

	result := NewBOMValidator().ValidateCatalog(products)

	if len(result.DuplicateLines) != 2 {
		t.Fatalf("Expected 2 duplicate lines, got %+v", result.DuplicateLines)
	}
	oak := result.DuplicateLines[0]
	if oak.ProductID != "TABLE" || oak.MaterialID != "OAK" || oak.Count != 2 {
		t.Errorf("Expected TABLE to repeat OAK twice, got %+v", oak)
	}
	leg := result.DuplicateLines[1]
	if leg.ProductID != "TABLE" || leg.DetailID != "LEG" || leg.Count != 3 {
		t.Errorf("Expected TABLE to repeat LEG three times, got %+v", leg)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 validation errors, got %v", result.Errors)
	}
	if result.HasCycles {
		t.Errorf("Expected no cycles, got %v", result.CyclePaths)
	}
}

func TestBOMValidator_DistinctLinesAreNotDuplicates(t *testing.T) {
	products := []*entities.Product{product("TABLE", "LEG", "TOP"), product("LEG"), product("TOP")}

	result := NewBOMValidator().ValidateCatalog(products)

	if len(result.DuplicateLines) != 0 || len(result.Errors) != 0 {
		t.Errorf("Expected clean catalog, got %+v / %v", result.DuplicateLines, result.Errors)
	}
}
