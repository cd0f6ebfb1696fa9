package purchase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ayoisaiah/zenbreath/internal/haptics"
	"github.com/ayoisaiah/zenbreath/internal/host"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
	"github.com/ayoisaiah/zenbreath/internal/purchase"
	"github.com/ayoisaiah/zenbreath/internal/purchase/purchasetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	box = pattern.Pattern{
		ID:          "box",
		Name:        "Box Breathing",
		Description: "Classic technique for total control.",
		Premium:     true,
		Price:       50,
		Phases:      pattern.Phases{Inhale: 4, HoldIn: 4, Exhale: 4, HoldOut: 4},
	}

	basic = pattern.Pattern{
		ID:     "basic",
		Name:   "Basic",
		Phases: pattern.Phases{Inhale: 4, Exhale: 4},
	}
)

func TestAccessible(t *testing.T) {
	none := map[string]struct{}{}
	unlocked := map[string]struct{}{"box": {}}

	assert.True(t, purchase.Accessible(&basic, none))
	assert.False(t, purchase.Accessible(&box, none))
	assert.True(t, purchase.Accessible(&box, unlocked))
}

func TestRequestSelect(t *testing.T) {
	f := purchase.NewFlow(purchasetest.New(), host.Local{}, nil)

	assert.Nil(t, f.RequestSelect(&basic, nil))

	req := f.RequestSelect(&box, map[string]struct{}{})
	require.NotNil(t, req)
	assert.Equal(t, purchase.Request{
		PatternID:   "box",
		Title:       "Box Breathing",
		Description: "Classic technique for total control.",
		Amount:      50,
	}, *req)

	noPrice := box
	noPrice.Price = 0

	assert.Equal(t, pattern.DefaultPrice, f.RequestSelect(&noPrice, nil).Amount)
}

func TestConfirmPurchaseOutcomes(t *testing.T) {
	cases := []struct {
		Name    string
		Status  purchase.Status
		Kind    purchase.Kind
		Err     error
		Outcome haptics.Outcome
	}{
		{"paid", purchase.StatusPaid, purchase.KindPaid, nil, haptics.Success},
		{"failed", purchase.StatusFailed, purchase.KindFailed, purchase.ErrTransactionFailed, haptics.Error},
		{"cancelled", purchase.StatusCancelled, purchase.KindCancelled, purchase.ErrTransactionCancelled, haptics.Warning},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			gw := purchasetest.New()
			gw.Auto = tc.Status

			rec := &haptics.Recorder{}
			f := purchase.NewFlow(gw, host.NewTelegram("query_id=1"), rec)

			res := f.ConfirmPurchase(context.Background(), &box)

			assert.Equal(t, tc.Kind, res.Kind())
			assert.Equal(t, "box", res.PatternID())
			assert.Equal(t, tc.Kind == purchase.KindPaid, res.Paid())

			if tc.Err == nil {
				assert.NoError(t, res.Err())
			} else {
				assert.ErrorIs(t, res.Err(), tc.Err)
			}

			assert.Equal(t, []haptics.Outcome{tc.Outcome}, rec.Outcomes())
			assert.Equal(t, []string{"query_id=1"}, gw.Tokens())
			assert.Equal(t, 50, gw.Requests()[0].Amount)
		})
	}
}

func TestConfirmPurchaseFailsClosed(t *testing.T) {
	for _, session := range []host.Session{nil, host.Inactive{}, host.NewTelegram("")} {
		gw := purchasetest.New()
		rec := &haptics.Recorder{}

		res := purchase.NewFlow(gw, session, rec).ConfirmPurchase(context.Background(), &box)

		assert.Equal(t, purchase.KindFailed, res.Kind())
		assert.ErrorIs(t, res.Err(), purchase.ErrEnvironmentUnavailable)
		assert.Empty(t, gw.Requests(), "gateway must not be contacted")
		assert.Equal(t, []haptics.Outcome{haptics.Error}, rec.Outcomes())
	}
}

func TestConfirmPurchaseGatewayError(t *testing.T) {
	gw := purchasetest.New()
	gw.CreateErr = errors.New("502 bad gateway")

	res := purchase.NewFlow(gw, host.Local{}, nil).ConfirmPurchase(context.Background(), &box)

	assert.Equal(t, purchase.KindFailed, res.Kind())
	assert.ErrorIs(t, res.Err(), purchase.ErrGatewayRequestFailed)
	assert.ErrorIs(t, res.Err(), gw.CreateErr)
}

func TestConfirmPurchaseWaitsForResolution(t *testing.T) {
	gw := purchasetest.New()
	f := purchase.NewFlow(gw, host.Local{}, nil)

	done := make(chan purchase.Result, 1)

	go func() {
		done <- f.ConfirmPurchase(context.Background(), &box)
	}()

	ref := <-gw.Opened()

	select {
	case <-done:
		t.Fatal("purchase resolved before the gateway reported an outcome")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, gw.Resolve(ref.ID, purchase.StatusPaid))
	assert.True(t, (<-done).Paid())
}

func TestConfirmPurchaseIndeterminate(t *testing.T) {
	gw := purchasetest.New()
	f := purchase.NewFlow(gw, host.Local{}, nil)

	done := make(chan purchase.Result, 1)

	go func() {
		done <- f.ConfirmPurchase(context.Background(), &box)
	}()

	ref := <-gw.Opened()
	require.True(t, gw.Abandon(ref.ID))

	res := <-done
	assert.Equal(t, purchase.KindCancelled, res.Kind())
	assert.ErrorIs(t, res.Err(), purchase.ErrTransactionCancelled)
}

func TestConfirmPurchaseContextDone(t *testing.T) {
	gw := purchasetest.New()
	f := purchase.NewFlow(gw, host.Local{}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan purchase.Result, 1)

	go func() {
		done <- f.ConfirmPurchase(ctx, &box)
	}()

	<-gw.Opened()
	cancel()

	res := <-done
	assert.Equal(t, purchase.KindCancelled, res.Kind())
	assert.ErrorIs(t, res.Err(), context.Canceled)
}

func TestParseStatus(t *testing.T) {
	s, ok := purchase.ParseStatus("paid")
	assert.True(t, ok)
	assert.Equal(t, purchase.StatusPaid, s)

	_, ok = purchase.ParseStatus("pending")
	assert.False(t, ok)

	assert.Equal(t, "unknown", purchase.Status(0).String())
	assert.Equal(t, "rejected", purchase.KindRejected.String())
}
