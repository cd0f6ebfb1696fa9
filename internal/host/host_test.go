package host

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botToken = "123456:TEST-TOKEN"

func signed(t *testing.T, authDate time.Time) string {
	t.Helper()

	v := url.Values{}
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	v.Set("query_id", "AAH")
	v.Set("user", `{"id":42,"first_name":"Ada"}`)
	v.Set("hash", SignInitData(v, botToken))

	return v.Encode()
}

func TestVerifyInitData(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	data := signed(t, now.Add(-time.Hour))

	values, err := VerifyInitData(data, botToken, 24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, "AAH", values.Get("query_id"))

	_, err = VerifyInitData(data, "other-token", 24*time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidInitData)

	_, err = VerifyInitData(data, botToken, 30*time.Minute, now)
	assert.ErrorIs(t, err, ErrExpiredInitData)

	_, err = VerifyInitData(data, botToken, 0, now.Add(1000*time.Hour))
	assert.NoError(t, err, "max age of zero disables the freshness check")
}

func TestVerifyInitDataTampered(t *testing.T) {
	now := time.Now()
	v, err := url.ParseQuery(signed(t, now))
	require.NoError(t, err)

	v.Set("user", `{"id":7}`)

	_, err = VerifyInitData(v.Encode(), botToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidInitData)

	_, err = VerifyInitData("auth_date=1", botToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidInitData)

	_, err = VerifyInitData("%zz", botToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidInitData)
}

func TestSessions(t *testing.T) {
	assert.False(t, NewTelegram("  ").Active())

	tg := NewTelegram("query_id=1&hash=abc")
	assert.True(t, tg.Active())
	assert.Equal(t, "query_id=1&hash=abc", tg.Token())

	assert.True(t, Local{}.Active())
	assert.False(t, Inactive{}.Active())
}
