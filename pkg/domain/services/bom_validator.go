package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// BOMValidator provides validation for BOM structure integrity
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]entities.ProductID
	MissingDetails []entities.ProductID
	DuplicateLines []DuplicateLine
	Errors         []string
}

// DuplicateLine names a material or detail used more than once by one product
type DuplicateLine struct {
	ProductID  entities.ProductID
	MaterialID entities.MaterialID
	DetailID   entities.ProductID
	Count      int
}

// ValidateCatalog checks a set of products for cycles, dangling detail
// references and repeated usage lines
func (v *BOMValidator) ValidateCatalog(products []*entities.Product) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]entities.ProductID, 0),
		MissingDetails: make([]entities.ProductID, 0),
		DuplicateLines: make([]DuplicateLine, 0),
		Errors:         make([]string, 0),
	}

	adjacencyMap := v.buildAdjacencyMap(products)

	known := make(map[entities.ProductID]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	missing := make(map[entities.ProductID]bool)
	for _, p := range products {
		for _, d := range p.Details {
			if !known[d.ProductID] && !missing[d.ProductID] {
				missing[d.ProductID] = true
				result.MissingDetails = append(result.MissingDetails, d.ProductID)
			}
		}
	}

	cycles := v.detectCycles(adjacencyMap)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	result.DuplicateLines = v.detectDuplicateLines(products)

	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}
	for _, id := range result.MissingDetails {
		result.Errors = append(result.Errors, fmt.Sprintf("detail %s referenced but not in catalog", id))
	}
	for _, d := range result.DuplicateLines {
		if d.MaterialID != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("product %s uses material %s on %d lines", d.ProductID, d.MaterialID, d.Count))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("product %s uses detail %s on %d lines", d.ProductID, d.DetailID, d.Count))
		}
	}

	return result
}

// WouldCreateCycle reports whether adding child as a detail of parent closes a
// loop, returning the offending path parent -> child -> ... -> parent.
func (v *BOMValidator) WouldCreateCycle(products []*entities.Product, parent, child entities.ProductID) ([]entities.ProductID, bool) {
	if parent == child {
		return []entities.ProductID{parent, child}, true
	}
	adjacencyMap := v.buildAdjacencyMap(products)

	// Parent is reachable from child iff the new edge closes a cycle
	visited := make(map[entities.ProductID]bool)
	var path []entities.ProductID
	var dfs func(current entities.ProductID) bool
	dfs = func(current entities.ProductID) bool {
		path = append(path, current)
		if current == parent {
			return true
		}
		visited[current] = true
		for _, next := range adjacencyMap[current] {
			if !visited[next] && dfs(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if dfs(child) {
		return append([]entities.ProductID{parent}, path...), true
	}
	return nil, false
}

// detectDuplicateLines finds materials or details listed more than once on
// the same product, reported once per repeated id in line order
func (v *BOMValidator) detectDuplicateLines(products []*entities.Product) []DuplicateLine {
	duplicates := make([]DuplicateLine, 0)

	for _, p := range products {
		materialCount := make(map[entities.MaterialID]int, len(p.Materials))
		for _, u := range p.Materials {
			materialCount[u.MaterialID]++
		}
		for _, u := range p.Materials {
			if n := materialCount[u.MaterialID]; n > 1 {
				duplicates = append(duplicates, DuplicateLine{ProductID: p.ID, MaterialID: u.MaterialID, Count: n})
				materialCount[u.MaterialID] = 0
			}
		}

		detailCount := make(map[entities.ProductID]int, len(p.Details))
		for _, d := range p.Details {
			detailCount[d.ProductID]++
		}
		for _, d := range p.Details {
			if n := detailCount[d.ProductID]; n > 1 {
				duplicates = append(duplicates, DuplicateLine{ProductID: p.ID, DetailID: d.ProductID, Count: n})
				detailCount[d.ProductID] = 0
			}
		}
	}

	return duplicates
}

// buildAdjacencyMap creates a map of product -> nested products
func (v *BOMValidator) buildAdjacencyMap(products []*entities.Product) map[entities.ProductID][]entities.ProductID {
	adjacencyMap := make(map[entities.ProductID][]entities.ProductID, len(products))

	for _, p := range products {
		children := make([]entities.ProductID, 0, len(p.Details))
		for _, d := range p.Details {
			children = append(children, d.ProductID)
		}
		adjacencyMap[p.ID] = children
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles in the BOM structure
func (v *BOMValidator) detectCycles(adjacencyMap map[entities.ProductID][]entities.ProductID) [][]entities.ProductID {
	visited := make(map[entities.ProductID]bool)
	recursionStack := make(map[entities.ProductID]bool)
	cycles := make([][]entities.ProductID, 0)

	// Deterministic start order keeps reported paths stable
	roots := make([]entities.ProductID, 0, len(adjacencyMap))
	for id := range adjacencyMap {
		roots = append(roots, id)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	for _, parent := range roots {
		if !visited[parent] {
			path := make([]entities.ProductID, 0)
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, path, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.ProductID,
	adjacencyMap map[entities.ProductID][]entities.ProductID,
	visited map[entities.ProductID]bool,
	recursionStack map[entities.ProductID]bool,
	path []entities.ProductID,
	cycles *[][]entities.ProductID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			// Found a cycle - extract the cycle path
			for i, id := range path {
				if id == child {
					cycle := make([]entities.ProductID, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					cycle = append(cycle, child)
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	recursionStack[current] = false
}
