// Package purchasetest provides a scriptable payment gateway for tests
package purchasetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ayoisaiah/zenbreath/internal/purchase"
)

// Gateway is an in-memory purchase.Gateway. Each opened transaction stays
// pending until Resolve is called, unless Auto is set.
type Gateway struct {
	// CreateErr is returned by CreateInvoice when set
	CreateErr error
	// Auto resolves every opened transaction immediately when non-zero
	Auto     purchase.Status
	opened   chan purchase.Reference
	pending  map[string]chan purchase.Status
	requests []purchase.Request
	tokens   []string
	mu       sync.Mutex
}

// New returns an empty gateway.
func New() *Gateway {
	return &Gateway{
		opened:  make(chan purchase.Reference, 16),
		pending: make(map[string]chan purchase.Status),
	}
}

func (g *Gateway) CreateInvoice(
	_ context.Context,
	req purchase.Request,
	token string,
) (purchase.Reference, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, req)
	g.tokens = append(g.tokens, token)

	if g.CreateErr != nil {
		return purchase.Reference{}, g.CreateErr
	}

	id := fmt.Sprintf("order_%d", len(g.requests))

	return purchase.Reference{
		URL: "https://t.me/$" + id,
		ID:  id,
	}, nil
}

func (g *Gateway) Open(
	_ context.Context,
	ref purchase.Reference,
) <-chan purchase.Status {
	ch := make(chan purchase.Status, 1)

	g.mu.Lock()

	if g.Auto != 0 {
		ch <- g.Auto
		close(ch)
	} else {
		g.pending[ref.ID] = ch
	}

	g.mu.Unlock()

	g.opened <- ref

	return ch
}

// Opened returns a channel that receives every reference passed to Open.
func (g *Gateway) Opened() <-chan purchase.Reference {
	return g.opened
}

// Resolve delivers status to the pending transaction id. It reports false
// if no such transaction is pending.
func (g *Gateway) Resolve(id string, status purchase.Status) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.pending[id]
	if !ok {
		return false
	}

	delete(g.pending, id)

	ch <- status
	close(ch)

	return true
}

// Abandon closes the pending transaction id without a status.
func (g *Gateway) Abandon(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.pending[id]
	if !ok {
		return false
	}

	delete(g.pending, id)
	close(ch)

	return true
}

// Requests returns the requests received by CreateInvoice.
func (g *Gateway) Requests() []purchase.Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]purchase.Request, len(g.requests))
	copy(out, g.requests)

	return out
}

// Tokens returns the session tokens received by CreateInvoice.
func (g *Gateway) Tokens() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, len(g.tokens))
	copy(out, g.tokens)

	return out
}
