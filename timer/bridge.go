package timer

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayoisaiah/zenbreath/internal/purchase"
)

// confirmMsg asks the user to approve a simulated payment. The answer is
// sent on reply exactly once.
type confirmMsg struct {
	reply chan<- bool
	req   purchase.Request
}

// paymentSheet is the open simulated payment dialog.
type paymentSheet struct {
	reply chan<- bool
	req   purchase.Request
}

func (s *paymentSheet) answer(approved bool) {
	s.reply <- approved
}

// Bridge lets the simulated gateway ask for confirmation inside the running
// program instead of taking over the terminal.
type Bridge struct {
	requests chan confirmMsg
}

// NewBridge returns a bridge with no pending requests.
func NewBridge() *Bridge {
	return &Bridge{
		requests: make(chan confirmMsg),
	}
}

// Confirm shows the payment sheet for req and blocks until the user answers
// or ctx is done. It satisfies gateway.ConfirmFunc.
func (b *Bridge) Confirm(ctx context.Context, req purchase.Request) (bool, error) {
	reply := make(chan bool, 1)

	select {
	case b.requests <- confirmMsg{req: req, reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case approved := <-reply:
		return approved, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// listen waits for the next confirmation request.
func (b *Bridge) listen() tea.Cmd {
	return func() tea.Msg {
		return <-b.requests
	}
}
