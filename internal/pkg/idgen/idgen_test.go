package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextIsUniqueWithFrozenClock(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	g := New(func() time.Time { return frozen })

	assert.Equal(t, int64(1_700_000_000_000), g.Next())
	assert.Equal(t, int64(1_700_000_000_001), g.Next())
	assert.Equal(t, int64(1_700_000_000_002), g.Next())
}

func TestNextConcurrent(t *testing.T) {
	g := New(nil)
	const n = 200

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- g.Next()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
