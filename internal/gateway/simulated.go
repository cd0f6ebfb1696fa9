package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/ayoisaiah/zenbreath/internal/purchase"
)

// DefaultDelay is how long Simulated pretends to talk to a payment
// provider.
const DefaultDelay = 500 * time.Millisecond

// ConfirmFunc asks the user to approve a simulated payment.
type ConfirmFunc func(ctx context.Context, req purchase.Request) (bool, error)

// Simulated is a development gateway that needs no bot or server. Each
// transaction is settled by a confirmation prompt: approval pays,
// refusal cancels and an error fails it.
type Simulated struct {
	confirm  ConfirmFunc
	requests map[string]purchase.Request
	delay    time.Duration
	seq      int
	mu       sync.Mutex
}

// NewSimulated returns a simulated gateway. A nil confirm approves every
// payment.
func NewSimulated(confirm ConfirmFunc, delay time.Duration) *Simulated {
	if confirm == nil {
		confirm = func(context.Context, purchase.Request) (bool, error) {
			return true, nil
		}
	}

	return &Simulated{
		confirm:  confirm,
		delay:    delay,
		requests: make(map[string]purchase.Request),
	}
}

func (s *Simulated) CreateInvoice(
	_ context.Context,
	req purchase.Request,
	_ string,
) (purchase.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++

	id := fmt.Sprintf("sim_%d", s.seq)

	s.requests[id] = req

	return purchase.Reference{
		URL: "simulated://" + id,
		ID:  id,
	}, nil
}

func (s *Simulated) Open(
	ctx context.Context,
	ref purchase.Reference,
) <-chan purchase.Status {
	ch := make(chan purchase.Status, 1)

	s.mu.Lock()
	req, ok := s.requests[ref.ID]
	delete(s.requests, ref.ID)
	s.mu.Unlock()

	if !ok {
		ch <- purchase.StatusFailed
		close(ch)

		return ch
	}

	go func() {
		defer close(ch)

		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			ch <- purchase.StatusCancelled
			return
		case <-timer.C:
		}

		approved, err := s.confirm(ctx, req)

		switch {
		case ctx.Err() != nil:
			ch <- purchase.StatusCancelled
		case err != nil:
			ch <- purchase.StatusFailed
		case approved:
			ch <- purchase.StatusPaid
		default:
			ch <- purchase.StatusCancelled
		}
	}()

	return ch
}

// PromptConfirm asks for approval with an interactive confirm prompt. It
// must not be used while another program owns the terminal.
func PromptConfirm(ctx context.Context, req purchase.Request) (bool, error) {
	var approved bool

	err := huh.NewConfirm().
		Title(fmt.Sprintf("Pay %d Stars for %s?", req.Amount, req.Title)).
		Description("Test mode: no real payment is made").
		Affirmative("Pay").
		Negative("Cancel").
		Value(&approved).
		Run()
	if err != nil {
		return false, err
	}

	if ctx.Err() != nil {
		return false, nil
	}

	return approved, nil
}
