package repository

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator mints entity identifiers. Implementations must never return
// the same identifier twice for a prefix within a process.
type IDGenerator interface {
	Next(prefix string) string
}

// ClockIDs mints prefix+milliseconds identifiers. When two calls land in the
// same millisecond the token is bumped past the last one issued, so tokens
// are strictly increasing.
type ClockIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewClockIDs(now func() time.Time) *ClockIDs {
	if now == nil {
		now = time.Now
	}
	return &ClockIDs{now: now}
}

func (g *ClockIDs) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	token := g.now().UnixMilli()
	if token <= g.last {
		token = g.last + 1
	}
	g.last = token
	return prefix + strconv.FormatInt(token, 10)
}
