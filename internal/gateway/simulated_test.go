package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/zenbreath/internal/purchase"
)

func TestSimulated(t *testing.T) {
	testCases := []struct {
		confirm ConfirmFunc
		name    string
		want    purchase.Status
	}{
		{
			name: "approved",
			confirm: func(context.Context, purchase.Request) (bool, error) {
				return true, nil
			},
			want: purchase.StatusPaid,
		},
		{
			name: "refused",
			confirm: func(context.Context, purchase.Request) (bool, error) {
				return false, nil
			},
			want: purchase.StatusCancelled,
		},
		{
			name: "prompt error",
			confirm: func(context.Context, purchase.Request) (bool, error) {
				return false, errors.New("no tty")
			},
			want: purchase.StatusFailed,
		},
		{
			name: "nil confirm approves",
			want: purchase.StatusPaid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := NewSimulated(tc.confirm, time.Millisecond)

			ref, err := gw.CreateInvoice(context.Background(), boxRequest, "local")
			require.NoError(t, err)
			assert.Equal(t, "sim_1", ref.ID)

			assert.Equal(t, tc.want, <-gw.Open(context.Background(), ref))
		})
	}
}

func TestSimulatedConfirmSeesRequest(t *testing.T) {
	var seen purchase.Request

	gw := NewSimulated(func(_ context.Context, req purchase.Request) (bool, error) {
		seen = req
		return true, nil
	}, 0)

	ref, err := gw.CreateInvoice(context.Background(), boxRequest, "local")
	require.NoError(t, err)

	<-gw.Open(context.Background(), ref)

	assert.Equal(t, boxRequest, seen)
}

func TestSimulatedUnknownReference(t *testing.T) {
	gw := NewSimulated(nil, 0)

	assert.Equal(t, purchase.StatusFailed, <-gw.Open(
		context.Background(),
		purchase.Reference{ID: "sim_42"},
	))
}

func TestSimulatedContextDone(t *testing.T) {
	gw := NewSimulated(nil, time.Hour)

	ref, err := gw.CreateInvoice(context.Background(), boxRequest, "local")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch := gw.Open(ctx, ref)

	cancel()

	assert.Equal(t, purchase.StatusCancelled, <-ch)
}

func TestSimulatedConfirmInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := NewSimulated(func(ctx context.Context, _ purchase.Request) (bool, error) {
		cancel()
		<-ctx.Done()

		return false, ctx.Err()
	}, 0)

	ref, err := gw.CreateInvoice(context.Background(), boxRequest, "local")
	require.NoError(t, err)

	assert.Equal(t, purchase.StatusCancelled, <-gw.Open(ctx, ref))
}
