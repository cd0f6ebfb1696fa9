package pattern

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
	"github.com/ayoisaiah/zenbreath/internal/static"
)

var (
	errDuplicateID = &apperr.Error{
		Message: "duplicate pattern id: %s",
	}

	errEmptyCatalog = &apperr.Error{
		Message: "the pattern catalog is empty",
	}

	errDecodeCatalog = &apperr.Error{
		Message: "decoding pattern catalog failed",
	}
)

// Catalog is an immutable, ordered set of validated patterns. It is safe
// for concurrent use since nothing mutates it after construction.
type Catalog struct {
	index    map[string]int
	patterns []Pattern
}

// NewCatalog validates patterns and builds a catalog from them. The input
// slice is copied.
func NewCatalog(patterns []Pattern) (*Catalog, error) {
	if len(patterns) == 0 {
		return nil, errEmptyCatalog
	}

	c := &Catalog{
		index:    make(map[string]int, len(patterns)),
		patterns: make([]Pattern, len(patterns)),
	}

	for i := range patterns {
		p := patterns[i]

		if err := p.Validate(); err != nil {
			return nil, err
		}

		if _, exists := c.index[p.ID]; exists {
			return nil, ErrInvalid.Wrap(errDuplicateID.Fmt(p.ID))
		}

		c.index[p.ID] = i
		c.patterns[i] = p
	}

	return c, nil
}

// Decode reads a yaml pattern list and builds a catalog from it.
func Decode(b []byte) (*Catalog, error) {
	var patterns []Pattern

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&patterns); err != nil {
		return nil, errDecodeCatalog.Wrap(err)
	}

	return NewCatalog(patterns)
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	b, err := static.Patterns()
	if err != nil {
		return nil, fmt.Errorf("reading built-in catalog: %w", err)
	}

	return Decode(b)
}

// Get returns a copy of the pattern with the given id.
func (c *Catalog) Get(id string) (Pattern, bool) {
	i, ok := c.index[id]
	if !ok {
		return Pattern{}, false
	}

	return c.patterns[i], true
}

// First returns the first pattern in catalog order.
func (c *Catalog) First() Pattern {
	return c.patterns[0]
}

// All returns a copy of every pattern in catalog order.
func (c *Catalog) All() []Pattern {
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)

	return out
}

// FreeIDs returns the ids of all non-premium patterns.
func (c *Catalog) FreeIDs() []string {
	var ids []string

	for i := range c.patterns {
		if !c.patterns[i].Premium {
			ids = append(ids, c.patterns[i].ID)
		}
	}

	return ids
}

// Len returns the number of patterns in the catalog.
func (c *Catalog) Len() int {
	return len(c.patterns)
}
