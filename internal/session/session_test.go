package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ayoisaiah/zenbreath/internal/haptics"
	"github.com/ayoisaiah/zenbreath/internal/host"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
	"github.com/ayoisaiah/zenbreath/internal/purchase"
	"github.com/ayoisaiah/zenbreath/internal/purchase/purchasetest"
	"github.com/ayoisaiah/zenbreath/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newController(
	t *testing.T,
	gw purchase.Gateway,
	h host.Session,
	opts ...session.Option,
) (*session.Controller, *haptics.Recorder) {
	t.Helper()

	catalog, err := pattern.Default()
	require.NoError(t, err)

	rec := &haptics.Recorder{}

	return session.New(catalog, purchase.NewFlow(gw, h, rec), opts...), rec
}

func TestNewSession(t *testing.T) {
	c, _ := newController(t, purchasetest.New(), host.Local{})

	assert.Equal(t, "basic", c.Current().ID)
	assert.Equal(t, []string{"basic", "calm", "coherence", "triangle"}, c.Unlocked())
	assert.False(t, c.Purchasing())
	assert.Nil(t, c.Prompt())
	assert.True(t, c.Playable("calm"))
	assert.False(t, c.Playable("box"))
	assert.False(t, c.Playable("missing"))
}

func TestInitialPattern(t *testing.T) {
	c, _ := newController(t, purchasetest.New(), host.Local{}, session.WithInitial("calm"))
	assert.Equal(t, "calm", c.Current().ID)

	locked, _ := newController(t, purchasetest.New(), host.Local{}, session.WithInitial("box"))
	assert.Equal(t, "basic", locked.Current().ID, "a locked initial pattern is ignored")
}

func TestSelectPattern(t *testing.T) {
	var selected []string

	c, _ := newController(t, purchasetest.New(), host.Local{},
		session.WithSelectHook(func(p pattern.Pattern) {
			selected = append(selected, p.ID)
		}),
	)

	p, err := c.SelectPattern("triangle")
	require.NoError(t, err)
	assert.Equal(t, "triangle", p.ID)
	assert.Equal(t, "triangle", c.Current().ID)

	_, err = c.SelectPattern("box")
	assert.ErrorIs(t, err, session.ErrLocked)
	assert.Equal(t, "triangle", c.Current().ID)

	_, err = c.SelectPattern("nope")
	assert.ErrorIs(t, err, session.ErrUnknownPattern)

	assert.Equal(t, []string{"triangle"}, selected)
}

func TestRequestUnlock(t *testing.T) {
	c, _ := newController(t, purchasetest.New(), host.Local{})

	req, err := c.RequestUnlock("calm")
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, "calm", c.Current().ID)

	req, err = c.RequestUnlock("box")
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, 50, req.Amount)
	assert.Equal(t, "Box Breathing", req.Title)

	assert.Equal(t, req, c.Prompt())
	assert.Equal(t, "calm", c.Current().ID, "opening a prompt does not select")
	assert.NotContains(t, c.Unlocked(), "box")

	c.ClosePrompt()
	assert.Nil(t, c.Prompt())

	_, err = c.RequestUnlock("nope")
	assert.ErrorIs(t, err, session.ErrUnknownPattern)
}

func TestPurchasePaid(t *testing.T) {
	gw := purchasetest.New()
	gw.Auto = purchase.StatusPaid

	var selected []string

	c, rec := newController(t, gw, host.NewTelegram("query_id=1"),
		session.WithSelectHook(func(p pattern.Pattern) {
			selected = append(selected, p.ID)
		}),
	)

	_, err := c.RequestUnlock("box")
	require.NoError(t, err)

	res := c.Purchase(context.Background(), "box")
	require.True(t, res.Paid())

	s := c.State()
	assert.Contains(t, s.Unlocked, "box")
	assert.Equal(t, "box", s.Current.ID)
	assert.False(t, s.Purchasing)
	assert.Nil(t, s.Prompt)
	assert.Equal(t, []string{"box"}, selected)
	assert.Equal(t, []haptics.Outcome{haptics.Success}, rec.Outcomes())

	req, err := c.RequestUnlock("box")
	require.NoError(t, err)
	assert.Nil(t, req, "an unlocked pattern no longer needs a prompt")
}

func TestPurchaseFailed(t *testing.T) {
	gw := purchasetest.New()
	gw.Auto = purchase.StatusFailed

	c, rec := newController(t, gw, host.Local{})

	before := c.Unlocked()

	_, err := c.RequestUnlock("box")
	require.NoError(t, err)

	res := c.Purchase(context.Background(), "box")

	assert.Equal(t, purchase.KindFailed, res.Kind())
	assert.ErrorIs(t, res.Err(), purchase.ErrTransactionFailed)
	assert.Equal(t, before, c.Unlocked())
	assert.False(t, c.Purchasing())
	assert.NotNil(t, c.Prompt(), "the prompt stays open so the user can retry")
	assert.Equal(t, []haptics.Outcome{haptics.Error}, rec.Outcomes())

	gw.Auto = purchase.StatusPaid

	assert.True(t, c.Purchase(context.Background(), "box").Paid(), "manual retry succeeds")
}

func TestPurchaseCancelled(t *testing.T) {
	gw := purchasetest.New()
	gw.Auto = purchase.StatusCancelled

	c, _ := newController(t, gw, host.Local{})

	res := c.Purchase(context.Background(), "energy")

	assert.Equal(t, purchase.KindCancelled, res.Kind())
	assert.NotContains(t, c.Unlocked(), "energy")
	assert.False(t, c.Purchasing())
}

func TestPurchaseGuard(t *testing.T) {
	gw := purchasetest.New()
	c, _ := newController(t, gw, host.Local{})

	first := make(chan purchase.Result, 1)

	go func() {
		first <- c.Purchase(context.Background(), "box")
	}()

	ref := <-gw.Opened()
	assert.True(t, c.Purchasing())

	second := c.Purchase(context.Background(), "relax")
	assert.Equal(t, purchase.KindRejected, second.Kind())
	assert.ErrorIs(t, second.Err(), session.ErrPurchaseInProgress)
	assert.Len(t, gw.Requests(), 1, "no second transaction is opened")

	require.True(t, gw.Resolve(ref.ID, purchase.StatusPaid))

	res := <-first
	assert.True(t, res.Paid())
	assert.False(t, c.Purchasing())
	assert.NotContains(t, c.Unlocked(), "relax")
}

func TestPurchaseFailsClosed(t *testing.T) {
	gw := purchasetest.New()
	c, _ := newController(t, gw, host.NewTelegram(""))

	res := c.Purchase(context.Background(), "box")

	assert.Equal(t, purchase.KindFailed, res.Kind())
	assert.ErrorIs(t, res.Err(), purchase.ErrEnvironmentUnavailable)
	assert.Empty(t, gw.Requests())
	assert.False(t, c.Purchasing())
	assert.NotContains(t, c.Unlocked(), "box")
}

func TestPurchaseUnknown(t *testing.T) {
	gw := purchasetest.New()
	c, _ := newController(t, gw, host.Local{})

	res := c.Purchase(context.Background(), "nope")

	assert.Equal(t, purchase.KindRejected, res.Kind())
	assert.ErrorIs(t, res.Err(), session.ErrUnknownPattern)
	assert.Empty(t, gw.Requests())
}

func TestPurchasePlayablePattern(t *testing.T) {
	gw := purchasetest.New()
	gw.Auto = purchase.StatusPaid

	c, _ := newController(t, gw, host.Local{})

	res := c.Purchase(context.Background(), "basic")
	assert.Equal(t, purchase.KindRejected, res.Kind())
	assert.ErrorIs(t, res.Err(), session.ErrAlreadyUnlocked)
	assert.Empty(t, gw.Requests(), "free patterns are never charged")

	require.True(t, c.Purchase(context.Background(), "box").Paid())
	require.Len(t, gw.Requests(), 1)

	res = c.Purchase(context.Background(), "box")
	assert.Equal(t, purchase.KindRejected, res.Kind())
	assert.ErrorIs(t, res.Err(), session.ErrAlreadyUnlocked)
	assert.Len(t, gw.Requests(), 1, "an unlocked pattern is not charged again")
	assert.False(t, c.Purchasing())
}

func TestUnlockedIsMonotonic(t *testing.T) {
	gw := purchasetest.New()
	c, _ := newController(t, gw, host.Local{})

	outcomes := []purchase.Status{
		purchase.StatusPaid,
		purchase.StatusFailed,
		purchase.StatusCancelled,
		purchase.StatusPaid,
		purchase.StatusFailed,
	}
	ids := []string{"box", "box", "relax", "energy", "energy"}

	seen := map[string]bool{}

	for i, status := range outcomes {
		for _, id := range c.Unlocked() {
			seen[id] = true
		}

		gw.Auto = status

		_, _ = c.RequestUnlock(ids[i])
		c.Purchase(context.Background(), ids[i])
		_, _ = c.SelectPattern("calm")
		c.ClosePrompt()

		now := map[string]bool{}
		for _, id := range c.Unlocked() {
			now[id] = true
		}

		for id := range seen {
			assert.True(t, now[id], "step %d lost %s", i, id)
		}
	}

	assert.Equal(t,
		[]string{"basic", "box", "calm", "coherence", "energy", "triangle"},
		c.Unlocked(),
	)
}
