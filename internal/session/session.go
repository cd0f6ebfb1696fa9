// Package session holds the state of one zenbreath session and mediates
// between pattern selection and the purchase flow. Entitlements live only
// in memory and are discarded with the session.
package session

import (
	"context"
	"sort"
	"sync"

	"github.com/maruel/natural"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
	"github.com/ayoisaiah/zenbreath/internal/purchase"
)

var (
	ErrUnknownPattern = &apperr.Error{
		Message: "unknown pattern: %s",
	}

	ErrLocked = &apperr.Error{
		Message: "%s is a premium pattern: unlock it first",
	}

	ErrPurchaseInProgress = &apperr.Error{
		Message: "another purchase is still in progress",
	}

	ErrAlreadyUnlocked = &apperr.Error{
		Message: "%s is already unlocked",
	}
)

// State is a read-only snapshot of a session.
type State struct {
	Prompt     *purchase.Request
	Current    pattern.Pattern
	Unlocked   []string
	Purchasing bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithSelectHook registers fn to be called, outside the controller's lock,
// every time the current pattern changes.
func WithSelectHook(fn func(pattern.Pattern)) Option {
	return func(c *Controller) {
		c.onSelect = fn
	}
}

// WithInitial selects the pattern with the given id at start if it exists
// and is playable. The first pattern of the catalog is used otherwise.
func WithInitial(id string) Option {
	return func(c *Controller) {
		c.initial = id
	}
}

// Controller is the only writer of session state.
type Controller struct {
	catalog    *pattern.Catalog
	flow       *purchase.Flow
	onSelect   func(pattern.Pattern)
	unlocked   map[string]struct{}
	prompt     *purchase.Request
	initial    string
	current    pattern.Pattern
	purchasing bool
	mu         sync.Mutex
}

// New starts a session over catalog. Every free pattern is unlocked.
func New(
	catalog *pattern.Catalog,
	flow *purchase.Flow,
	opts ...Option,
) *Controller {
	c := &Controller{
		catalog:  catalog,
		flow:     flow,
		unlocked: make(map[string]struct{}),
		current:  catalog.First(),
	}

	for _, id := range catalog.FreeIDs() {
		c.unlocked[id] = struct{}{}
	}

	for _, opt := range opts {
		opt(c)
	}

	if p, ok := catalog.Get(c.initial); ok && purchase.Accessible(&p, c.unlocked) {
		c.current = p
	}

	return c
}

func (c *Controller) lookup(id string) (pattern.Pattern, error) {
	p, ok := c.catalog.Get(id)
	if !ok {
		return pattern.Pattern{}, ErrUnknownPattern.Fmt(id)
	}

	return p, nil
}

func (c *Controller) notify(p pattern.Pattern) {
	if c.onSelect != nil {
		c.onSelect(p)
	}
}

// SelectPattern makes the pattern with id current if it is playable.
func (c *Controller) SelectPattern(id string) (pattern.Pattern, error) {
	p, err := c.lookup(id)
	if err != nil {
		return pattern.Pattern{}, err
	}

	c.mu.Lock()

	if !purchase.Accessible(&p, c.unlocked) {
		c.mu.Unlock()
		return pattern.Pattern{}, ErrLocked.Fmt(p.Name)
	}

	c.current = p

	c.mu.Unlock()

	c.notify(p)

	return p, nil
}

// RequestUnlock selects the pattern with id when it is already playable and
// returns a nil prompt. Otherwise it opens and returns the unlock prompt
// without changing entitlements.
func (c *Controller) RequestUnlock(id string) (*purchase.Request, error) {
	p, err := c.lookup(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()

	req := c.flow.RequestSelect(&p, c.unlocked)
	if req != nil {
		c.prompt = req
		c.mu.Unlock()

		return req, nil
	}

	c.current = p

	c.mu.Unlock()

	c.notify(p)

	return nil, nil
}

// Purchase buys the pattern with id and applies the outcome. It is
// rejected while another purchase is in flight or when the pattern is
// already playable, and the gateway is not contacted in either case.
func (c *Controller) Purchase(ctx context.Context, id string) purchase.Result {
	p, err := c.lookup(id)
	if err != nil {
		return purchase.Rejected(id, err)
	}

	c.mu.Lock()

	if c.purchasing {
		c.mu.Unlock()
		return purchase.Rejected(id, ErrPurchaseInProgress)
	}

	if purchase.Accessible(&p, c.unlocked) {
		c.mu.Unlock()
		return purchase.Rejected(id, ErrAlreadyUnlocked.Fmt(p.Name))
	}

	c.purchasing = true

	c.mu.Unlock()

	res := c.flow.ConfirmPurchase(ctx, &p)

	c.mu.Lock()

	c.purchasing = false

	if res.Paid() {
		c.unlocked[p.ID] = struct{}{}
		c.current = p
		c.prompt = nil
	}

	c.mu.Unlock()

	if res.Paid() {
		c.notify(p)
	}

	return res
}

// ClosePrompt dismisses the open unlock prompt, if any.
func (c *Controller) ClosePrompt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompt = nil
}

// Prompt returns a copy of the open unlock prompt, or nil.
func (c *Controller) Prompt() *purchase.Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prompt == nil {
		return nil
	}

	req := *c.prompt

	return &req
}

// Current returns the selected pattern.
func (c *Controller) Current() pattern.Pattern {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

// Playable reports whether the pattern with id can be played right now.
func (c *Controller) Playable(id string) bool {
	p, ok := c.catalog.Get(id)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return purchase.Accessible(&p, c.unlocked)
}

// Purchasing reports whether a purchase is in flight.
func (c *Controller) Purchasing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.purchasing
}

// Unlocked returns the unlocked pattern ids in natural order.
func (c *Controller) Unlocked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.unlockedIDs()
}

func (c *Controller) unlockedIDs() []string {
	ids := make([]string, 0, len(c.unlocked))

	for id := range c.unlocked {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return natural.Less(ids[i], ids[j])
	})

	return ids
}

// Catalog returns the catalog the session was started with.
func (c *Controller) Catalog() *pattern.Catalog {
	return c.catalog
}

// State returns a snapshot of the whole session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Current:    c.current,
		Unlocked:   c.unlockedIDs(),
		Purchasing: c.purchasing,
	}

	if c.prompt != nil {
		req := *c.prompt
		s.Prompt = &req
	}

	return s
}
