// Package store connects to the data store and manages the invoice ledger
// of the payment backend
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"
)

const invoiceBucket = "invoices"

var (
	errServerRunning = errors.New(
		"is the invoice server already running? Only one instance can use the ledger at a time",
	)

	// ErrNotFound is returned when no invoice exists for a payload.
	ErrNotFound = errors.New("invoice not found")

	errEmptyPayload = errors.New("invoice payload cannot be empty")
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Invoice is a Telegram Stars invoice issued for one unlock attempt.
type Invoice struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Payload   string    `json:"payload"`
	PatternID string    `json:"pattern_id"`
	Title     string    `json:"title"`
	ChargeID  string    `json:"charge_id,omitempty"`
	Status    Status    `json:"status"`
	Amount    int       `json:"amount"`
	UserID    int64     `json:"user_id,omitempty"`
}

// Terminal reports whether the invoice can no longer change.
func (i *Invoice) Terminal() bool {
	return i.Status != StatusPending
}

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
	now func() time.Time
}

func (c *Client) SaveInvoice(inv *Invoice) error {
	if inv.Payload == "" {
		return errEmptyPayload
	}

	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = c.now()
	}

	inv.UpdatedAt = c.now()

	value, err := json.Marshal(inv)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(invoiceBucket)).Put([]byte(inv.Payload), value)
	})
}

func (c *Client) GetInvoice(payload string) (*Invoice, error) {
	var inv Invoice

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(invoiceBucket)).Get([]byte(payload))
		if len(b) == 0 {
			return ErrNotFound
		}

		return json.Unmarshal(b, &inv)
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

func (c *Client) UpdateInvoice(
	payload string,
	fn func(inv *Invoice) error,
) (*Invoice, error) {
	var inv Invoice

	err := c.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(invoiceBucket))

		b := bucket.Get([]byte(payload))
		if len(b) == 0 {
			return ErrNotFound
		}

		err := json.Unmarshal(b, &inv)
		if err != nil {
			return err
		}

		err = fn(&inv)
		if err != nil {
			return err
		}

		inv.UpdatedAt = c.now()

		value, err := json.Marshal(&inv)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(payload), value)
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// open creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errServerRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{
		DB:  db,
		now: time.Now,
	}

	err = db.Update(c.migrate)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}
