package config

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStore_LoadReturnsSeed(t *testing.T) {
	seed := DefaultParameters()
	store := NewStore(seed)

	assert.Same(t, seed, store.Load())
}

func TestStore_SwapReturnsPrevious(t *testing.T) {
	seed := DefaultParameters()
	store := NewStore(seed)

	next := DefaultParameters()
	next.FloorAmount = decimal.NewFromInt(25)

	prev := store.Swap(next)
	assert.Same(t, seed, prev)
	assert.Same(t, next, store.Load())
}

func TestStore_ConcurrentSwapAndLoad(t *testing.T) {
	store := NewStore(DefaultParameters())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Swap(DefaultParameters())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NotNil(t, store.Load())
			}
		}()
	}
	wg.Wait()

	// Whatever snapshot is active last, it is a complete one.
	assert.True(t, store.Load().FloorAmount.IsPositive())
}
