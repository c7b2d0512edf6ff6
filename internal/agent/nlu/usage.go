package nlu

import (
	"context"
	"sync"
)

// Usage accumulates oracle token usage and cost for one turn.
type Usage struct {
	mu      sync.Mutex
	calls   int
	tokens  int
	costUSD float64
}

func (u *Usage) add(tokens int, cost float64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	u.tokens += tokens
	u.costUSD += cost
}

func (u *Usage) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

func (u *Usage) Tokens() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.tokens
}

func (u *Usage) CostUSD() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.costUSD
}

type usageKey struct{}

// WithUsage attaches an accumulator that oracle calls made with ctx report into.
func WithUsage(ctx context.Context, u *Usage) context.Context {
	return context.WithValue(ctx, usageKey{}, u)
}

// UsageFrom returns the accumulator attached to ctx, or nil.
func UsageFrom(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}
