// Package purchase decides whether a breathing pattern is accessible and
// mediates the unlock of premium patterns through a payment gateway
package purchase

import (
	"context"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
)

var (
	// ErrEnvironmentUnavailable means no host session was active, so the
	// gateway was never contacted.
	ErrEnvironmentUnavailable = &apperr.Error{
		Message: "payments are only available inside an active host session",
	}

	// ErrGatewayRequestFailed means no transaction reference could be
	// obtained from the gateway.
	ErrGatewayRequestFailed = &apperr.Error{
		Message: "unable to create an invoice",
	}

	// ErrTransactionFailed means the gateway reported the payment failed.
	ErrTransactionFailed = &apperr.Error{
		Message: "the payment failed",
	}

	// ErrTransactionCancelled means the payment was abandoned or its outcome
	// could not be determined. It is informational rather than a failure.
	ErrTransactionCancelled = &apperr.Error{
		Message: "the payment was not completed",
	}
)

// Status is the terminal state of a transaction reported by a gateway.
type Status int

const (
	StatusPaid Status = iota + 1
	StatusFailed
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusPaid:      "paid",
	StatusFailed:    "failed",
	StatusCancelled: "cancelled",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "unknown"
}

// ParseStatus converts a status name to a Status. ok is false for names
// that are not terminal, such as "pending".
func ParseStatus(name string) (s Status, ok bool) {
	for k, v := range statusNames {
		if v == name {
			return k, true
		}
	}

	return 0, false
}

// Request describes what is being bought. It lives for one unlock attempt.
type Request struct {
	PatternID   string `json:"pattern_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
}

// NewRequest builds the request that unlocks p.
func NewRequest(p *pattern.Pattern) Request {
	return Request{
		PatternID:   p.ID,
		Title:       p.Name,
		Description: p.Description,
		Amount:      p.Amount(),
	}
}

// Reference locates a transaction at the gateway.
type Reference struct {
	// URL is the link the user opens to pay
	URL string
	// ID identifies the transaction when polling the gateway
	ID string
}

// Gateway is the external payment processor.
type Gateway interface {
	// CreateInvoice asks the gateway for a transaction that charges
	// req.Amount. token is the host session credential.
	CreateInvoice(ctx context.Context, req Request, token string) (Reference, error)
	// Open presents the transaction to the user. The returned channel
	// receives exactly one terminal status and is then closed.
	Open(ctx context.Context, ref Reference) <-chan Status
}
