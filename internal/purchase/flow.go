package purchase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayoisaiah/zenbreath/internal/haptics"
	"github.com/ayoisaiah/zenbreath/internal/host"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
)

// Accessible reports whether p can be played given the unlocked ids.
func Accessible(p *pattern.Pattern, unlocked map[string]struct{}) bool {
	if !p.Premium {
		return true
	}

	_, ok := unlocked[p.ID]

	return ok
}

// Flow drives a single unlock attempt from request to outcome.
type Flow struct {
	gateway Gateway
	host    host.Session
	haptic  haptics.Haptics
}

// NewFlow returns a flow that pays through gateway within the host session.
// A nil session fails every purchase closed; nil feedback is discarded.
func NewFlow(gateway Gateway, session host.Session, h haptics.Haptics) *Flow {
	if session == nil {
		session = host.Inactive{}
	}

	if h == nil {
		h = haptics.Nop{}
	}

	return &Flow{
		gateway: gateway,
		host:    session,
		haptic:  h,
	}
}

// RequestSelect returns nil when p is accessible and may be selected right
// away. Otherwise it returns the unlock prompt for p. Entitlements are not
// changed either way.
func (f *Flow) RequestSelect(
	p *pattern.Pattern,
	unlocked map[string]struct{},
) *Request {
	if Accessible(p, unlocked) {
		return nil
	}

	req := NewRequest(p)

	return &req
}

// ConfirmPurchase pays for p and blocks until the gateway reports a
// terminal outcome. It never retries. A done ctx resolves the attempt as
// cancelled.
func (f *Flow) ConfirmPurchase(ctx context.Context, p *pattern.Pattern) Result {
	if !f.host.Active() {
		f.haptic.Notify(haptics.Error, "Open the app inside Telegram to make purchases")
		return Failed(p.ID, ErrEnvironmentUnavailable)
	}

	req := NewRequest(p)

	logger := slog.With(
		slog.String("pattern", p.ID),
		slog.Int("amount", req.Amount),
	)

	ref, err := f.gateway.CreateInvoice(ctx, req, f.host.Token())
	if err != nil {
		logger.Error("invoice request failed", slog.Any("error", err))

		f.haptic.Notify(haptics.Error, fmt.Sprintf("Could not start payment for %s", p.Name))

		return Failed(p.ID, ErrGatewayRequestFailed.Wrap(err))
	}

	logger.Info("invoice created", slog.String("invoice", ref.ID))

	var (
		status Status
		ok     bool
	)

	select {
	case status, ok = <-f.gateway.Open(ctx, ref):
	case <-ctx.Done():
		logger.Warn("purchase abandoned", slog.Any("error", ctx.Err()))

		f.haptic.Notify(haptics.Warning, fmt.Sprintf("Payment for %s was not completed", p.Name))

		return Cancelled(p.ID, ErrTransactionCancelled.Wrap(ctx.Err()))
	}

	if !ok {
		status = StatusCancelled
	}

	logger.Info("purchase settled", slog.String("status", status.String()))

	switch status {
	case StatusPaid:
		f.haptic.Notify(haptics.Success, fmt.Sprintf("%s is now unlocked", p.Name))
		return Paid(p.ID)
	case StatusFailed:
		f.haptic.Notify(haptics.Error, fmt.Sprintf("Payment for %s failed", p.Name))
		return Failed(p.ID, ErrTransactionFailed)
	case StatusCancelled:
	}

	f.haptic.Notify(haptics.Warning, fmt.Sprintf("Payment for %s was not completed", p.Name))

	return Cancelled(p.ID, ErrTransactionCancelled)
}
