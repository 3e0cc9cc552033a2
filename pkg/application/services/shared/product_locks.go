package shared

import (
	"sync"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// ProductLocks serialises work per product id. Entries are reference counted
// and dropped once no goroutine holds or waits on them.
type ProductLocks struct {
	mu    sync.Mutex
	locks map[entities.ProductID]*productLock
}

type productLock struct {
	mu   sync.Mutex
	refs int
}

// NewProductLocks creates an empty lock table
func NewProductLocks() *ProductLocks {
	return &ProductLocks{locks: make(map[entities.ProductID]*productLock)}
}

// Lock blocks until the caller owns id and returns the matching unlock func
func (l *ProductLocks) Lock(id entities.ProductID) (unlock func()) {
	l.mu.Lock()
	pl, ok := l.locks[id]
	if !ok {
		pl = &productLock{}
		l.locks[id] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			pl.mu.Unlock()
			l.mu.Lock()
			pl.refs--
			if pl.refs == 0 {
				delete(l.locks, id)
			}
			l.mu.Unlock()
		})
	}
}

// Size returns the number of ids currently held or awaited
func (l *ProductLocks) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
