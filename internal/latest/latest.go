// Package latest makes sure only the newest of several overlapping fetches is applied.
package latest

import (
	"context"
	"sync"
)

// Token identifies one fetch. Tokens increase monotonically per Guard.
type Token uint64

// Guard tracks the most recent fetch and cancels the ones it supersedes.
// The zero value is ready to use.
type Guard struct {
	mu      sync.Mutex
	current Token
	cancel  context.CancelFunc
	stopped bool
}

// Begin starts a new fetch derived from parent. The previous fetch, if still running,
// is cancelled and its token stops being current.
func (g *Guard) Begin(parent context.Context) (context.Context, Token) {
	ctx, cancel := context.WithCancel(parent)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.current++
	if g.stopped {
		cancel()
		return ctx, g.current
	}
	g.cancel = cancel
	return ctx, g.current
}

// Current reports whether results for token may still be applied.
func (g *Guard) Current(token Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.stopped && token == g.current
}

// Done releases the resources of token's fetch once its result has been handled.
func (g *Guard) Done(token Token) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == g.current && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// Stop cancels the outstanding fetch. Every later token is born stale.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
