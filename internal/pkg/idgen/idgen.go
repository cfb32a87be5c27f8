// Package idgen mints time-based numeric ids that are unique within the process.
package idgen

import (
	"sync"
	"time"
)

// Generator hands out millisecond timestamps, bumping by one whenever two
// calls land in the same millisecond (or the clock steps back).
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// New creates a generator reading the given clock; nil means time.Now
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Next returns the next id
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
