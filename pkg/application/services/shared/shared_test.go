package shared

import (
	"errors"
	"sync"
	"testing"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func TestAncestry_Enter(t *testing.T) {
	root := NewAncestry()

	a, err := root.Enter("TABLE")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := a.Enter("LEG")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.Depth() != 2 {
		t.Errorf("Expected depth 2, got %d", b.Depth())
	}

	// Siblings branch from the same parent independently
	sibling, err := a.Enter("TOP")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := sibling.Path(); len(got) != 2 || got[1] != "TOP" {
		t.Errorf("Expected sibling path [TABLE TOP], got %v", got)
	}
	if got := b.Path(); got[1] != "LEG" {
		t.Errorf("Expected branch path unaffected by sibling, got %v", got)
	}

	if _, err := b.Enter("TABLE"); !errors.Is(err, entities.ErrCyclicBOM) {
		t.Errorf("Expected ErrCyclicBOM re-entering ancestor, got %v", err)
	}
	if _, err := b.Enter("LEG"); !errors.Is(err, entities.ErrCyclicBOM) {
		t.Errorf("Expected ErrCyclicBOM re-entering self, got %v", err)
	}
}

func TestProductLocks_SerialisesSameProduct(t *testing.T) {
	locks := NewProductLocks()

	var (
		wg      sync.WaitGroup
		counter int
		inside  int
		maxSeen int
		guard   sync.Mutex
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("CHAIR")
			defer unlock()

			guard.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			guard.Unlock()

			counter++

			guard.Lock()
			inside--
			guard.Unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("Expected counter 50, got %d", counter)
	}
	if maxSeen != 1 {
		t.Errorf("Expected at most one holder at a time, saw %d", maxSeen)
	}
	if locks.Size() != 0 {
		t.Errorf("Expected lock table to be empty after release, got %d", locks.Size())
	}
}

func TestProductLocks_IndependentProducts(t *testing.T) {
	locks := NewProductLocks()

	unlockA := locks.Lock("A")
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("B")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
	unlockA() // second call is a no-op

	if locks.Size() != 0 {
		t.Errorf("Expected empty lock table, got %d", locks.Size())
	}
}
