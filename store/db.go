package store

import (
	"time"
)

// DB is the invoice ledger interface.
type DB interface {
	// SaveInvoice creates an invoice or overwrites the one with the same
	// payload
	SaveInvoice(inv *Invoice) error
	// GetInvoice returns the invoice for payload
	GetInvoice(payload string) (*Invoice, error)
	// UpdateInvoice applies fn to the stored invoice inside a single write
	// transaction and saves the result
	UpdateInvoice(payload string, fn func(inv *Invoice) error) (*Invoice, error)
	// ExpirePending marks every pending invoice created before cutoff as
	// cancelled and returns how many were changed
	ExpirePending(cutoff time.Time) (int, error)
	// Close ends the database connection
	Close() error
}
