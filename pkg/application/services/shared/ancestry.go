package shared

import (
	"fmt"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// Ancestry is the chain of products from the root of a traversal down to the
// current node. It is immutable: Enter returns a new value, so sibling
// branches traversed concurrently never observe each other's paths.
type Ancestry struct {
	path []entities.ProductID
}

// NewAncestry creates an empty ancestry for a fresh traversal
func NewAncestry() Ancestry {
	return Ancestry{}
}

// Enter descends into id, failing with entities.ErrCyclicBOM if id already
// appears on the path.
func (a Ancestry) Enter(id entities.ProductID) (Ancestry, error) {
	for _, ancestor := range a.path {
		if ancestor == id {
			cycle := append(a.Path(), id)
			return a, fmt.Errorf("%w: %v", entities.ErrCyclicBOM, cycle)
		}
	}
	next := make([]entities.ProductID, len(a.path), len(a.path)+1)
	copy(next, a.path)
	return Ancestry{path: append(next, id)}, nil
}

// Depth returns the number of products on the path
func (a Ancestry) Depth() int {
	return len(a.path)
}

// Path returns a copy of the path from root to current node
func (a Ancestry) Path() []entities.ProductID {
	return append([]entities.ProductID{}, a.path...)
}
