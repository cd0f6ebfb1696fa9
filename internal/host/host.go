// Package host models the platform session the mini-app runs inside. A
// purchase can only be made while a host session is active.
package host

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
)

var (
	// ErrInvalidInitData is returned when init data is malformed or its
	// signature does not match.
	ErrInvalidInitData = &apperr.Error{
		Message: "invalid init data",
	}

	// ErrExpiredInitData is returned when init data is older than allowed.
	ErrExpiredInitData = &apperr.Error{
		Message: "init data has expired",
	}
)

// Session is the host platform context.
type Session interface {
	// Active reports whether an authenticated platform session exists
	Active() bool
	// Token is the opaque credential forwarded to the payment gateway
	Token() string
}

// Telegram is a session backed by Telegram WebApp init data.
type Telegram struct {
	initData string
}

// NewTelegram returns a Telegram session for raw init data. An empty string
// yields an inactive session.
func NewTelegram(initData string) *Telegram {
	return &Telegram{
		initData: strings.TrimSpace(initData),
	}
}

func (t *Telegram) Active() bool {
	return t.initData != ""
}

func (t *Telegram) Token() string {
	return t.initData
}

// Local is an always-active session for development against a simulated
// gateway.
type Local struct{}

func (Local) Active() bool {
	return true
}

func (Local) Token() string {
	return "local"
}

// Inactive is a session that is never active.
type Inactive struct{}

func (Inactive) Active() bool {
	return false
}

func (Inactive) Token() string {
	return ""
}

// VerifyInitData checks the signature of Telegram WebApp init data against
// botToken and returns the parsed fields. When maxAge is positive, data
// whose auth_date is older than maxAge relative to now is rejected.
func VerifyInitData(
	initData, botToken string,
	maxAge time.Duration,
	now time.Time,
) (url.Values, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInvalidInitData.Wrap(err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrInvalidInitData
	}

	expected := SignInitData(values, botToken)

	if !hmac.Equal([]byte(hash), []byte(expected)) {
		return nil, ErrInvalidInitData
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, ErrInvalidInitData.Wrap(err)
		}

		if now.Sub(time.Unix(authDate, 0)) > maxAge {
			return nil, ErrExpiredInitData
		}
	}

	return values, nil
}

// SignInitData computes the hex signature Telegram attaches to init data as
// the hash field. The hash field itself is ignored if present.
func SignInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))

	for k := range values {
		if k == "hash" {
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + values.Get(k)
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	return hex.EncodeToString(mac.Sum(nil))
}
