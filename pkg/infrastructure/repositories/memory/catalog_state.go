package memory

import (
	"sync"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// catalogState holds one version of the catalog. Its own lock lets the
// concurrent estimator fan-out read while a transaction writes.
type catalogState struct {
	mu        sync.RWMutex
	materials map[entities.MaterialID]entities.Material
	products  map[entities.ProductID]*entities.Product
	tags      map[entities.TagID]entities.Tag
	movements []entities.StockMovement
}

func newCatalogState() *catalogState {
	return &catalogState{
		materials: make(map[entities.MaterialID]entities.Material),
		products:  make(map[entities.ProductID]*entities.Product),
		tags:      make(map[entities.TagID]entities.Tag),
	}
}

// clone copies the state deeply enough that writes to the copy never reach the original
func (st *catalogState) clone() *catalogState {
	st.mu.RLock()
	defer st.mu.RUnlock()

	c := &catalogState{
		materials: make(map[entities.MaterialID]entities.Material, len(st.materials)),
		products:  make(map[entities.ProductID]*entities.Product, len(st.products)),
		tags:      make(map[entities.TagID]entities.Tag, len(st.tags)),
		movements: append([]entities.StockMovement{}, st.movements...),
	}
	for id, m := range st.materials {
		c.materials[id] = m
	}
	for id, p := range st.products {
		c.products[id] = p.Clone()
	}
	for id, t := range st.tags {
		c.tags[id] = t
	}
	return c
}
