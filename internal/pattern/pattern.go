// Package pattern defines breathing patterns and the read-only catalog they
// are served from
package pattern

import (
	"strconv"
	"strings"
	"time"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
)

// DefaultPrice is the amount charged for a premium pattern that does not
// declare a price of its own.
const DefaultPrice = 50

var (
	errEmptyID = &apperr.Error{
		Message: "pattern id cannot be empty",
	}

	errEmptyName = &apperr.Error{
		Message: "pattern %s: name cannot be empty",
	}

	errNegativePhase = &apperr.Error{
		Message: "pattern %s: %s duration cannot be negative",
	}

	errZeroBreath = &apperr.Error{
		Message: "pattern %s: inhale and exhale durations must be greater than zero",
	}

	errPremiumPrice = &apperr.Error{
		Message: "pattern %s: premium patterns must have a positive price",
	}

	errFreePrice = &apperr.Error{
		Message: "pattern %s: free patterns cannot have a price",
	}
)

// ErrInvalid matches every validation error returned by Validate.
var ErrInvalid = &apperr.Error{
	Message: "invalid pattern",
}

// Phases holds the duration of each breathing phase in whole seconds.
type Phases struct {
	Inhale  int `yaml:"inhale"   json:"inhale"`
	HoldIn  int `yaml:"hold_in"  json:"hold_in"`
	Exhale  int `yaml:"exhale"   json:"exhale"`
	HoldOut int `yaml:"hold_out" json:"hold_out"`
}

// Cycle returns the length of one full breath.
func (p Phases) Cycle() time.Duration {
	total := p.Inhale + p.HoldIn + p.Exhale + p.HoldOut

	return time.Duration(total) * time.Second
}

// String formats the phases the way breathing techniques are usually
// written, e.g. 4-7-8. Trailing zero holds are omitted.
func (p Phases) String() string {
	parts := []int{p.Inhale}

	if p.HoldIn > 0 {
		parts = append(parts, p.HoldIn)
	}

	parts = append(parts, p.Exhale)

	if p.HoldOut > 0 {
		parts = append(parts, p.HoldOut)
	}

	s := make([]string, len(parts))
	for i, v := range parts {
		s[i] = strconv.Itoa(v)
	}

	return strings.Join(s, "-")
}

// Pattern is a named breathing technique.
type Pattern struct {
	ID          string `yaml:"id"          json:"id"`
	Name        string `yaml:"name"        json:"name"`
	Description string `yaml:"description" json:"description"`
	Phases      Phases `yaml:"phases"      json:"phases"`
	Price       int    `yaml:"price"       json:"price,omitempty"`
	Premium     bool   `yaml:"premium"     json:"premium"`
}

// Amount is the price charged to unlock the pattern.
func (p *Pattern) Amount() int {
	if p.Price > 0 {
		return p.Price
	}

	return DefaultPrice
}

// Validate reports whether the pattern can drive the breathing timer.
func (p *Pattern) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalid.Wrap(errEmptyID)
	}

	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalid.Wrap(errEmptyName.Fmt(p.ID))
	}

	durations := []struct {
		name  string
		value int
	}{
		{"inhale", p.Phases.Inhale},
		{"hold in", p.Phases.HoldIn},
		{"exhale", p.Phases.Exhale},
		{"hold out", p.Phases.HoldOut},
	}

	for _, d := range durations {
		if d.value < 0 {
			return ErrInvalid.Wrap(errNegativePhase.Fmt(p.ID, d.name))
		}
	}

	if p.Phases.Inhale == 0 || p.Phases.Exhale == 0 {
		return ErrInvalid.Wrap(errZeroBreath.Fmt(p.ID))
	}

	if p.Premium && p.Price <= 0 {
		return ErrInvalid.Wrap(errPremiumPrice.Fmt(p.ID))
	}

	if !p.Premium && p.Price != 0 {
		return ErrInvalid.Wrap(errFreePrice.Fmt(p.ID))
	}

	return nil
}
