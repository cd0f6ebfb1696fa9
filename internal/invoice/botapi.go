package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
)

// Currency is the Telegram Stars currency code.
const Currency = "XTR"

var errBotAPI = &apperr.Error{
	Message: "telegram bot api %s failed: %s",
}

// LabeledPrice is a portion of the invoice total.
type LabeledPrice struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// InvoiceLink holds the parameters of createInvoiceLink.
type InvoiceLink struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Payload       string         `json:"payload"`
	ProviderToken string         `json:"provider_token"`
	Currency      string         `json:"currency"`
	Prices        []LabeledPrice `json:"prices"`
}

type (
	// User is the sender of an update.
	User struct {
		Username string `json:"username,omitempty"`
		ID       int64  `json:"id"`
	}

	// PreCheckoutQuery asks the bot to confirm an order before it is
	// charged.
	PreCheckoutQuery struct {
		From           User   `json:"from"`
		ID             string `json:"id"`
		Currency       string `json:"currency"`
		InvoicePayload string `json:"invoice_payload"`
		TotalAmount    int    `json:"total_amount"`
	}

	// SuccessfulPayment is attached to the service message Telegram sends
	// once an invoice is paid.
	SuccessfulPayment struct {
		Currency                string `json:"currency"`
		InvoicePayload          string `json:"invoice_payload"`
		TelegramPaymentChargeID string `json:"telegram_payment_charge_id"`
		ProviderPaymentChargeID string `json:"provider_payment_charge_id"`
		TotalAmount             int    `json:"total_amount"`
	}

	// Message is the subset of a Telegram message the server reads.
	Message struct {
		From              *User              `json:"from,omitempty"`
		SuccessfulPayment *SuccessfulPayment `json:"successful_payment,omitempty"`
		MessageID         int64              `json:"message_id"`
	}

	// Update is a webhook delivery from the Bot API.
	Update struct {
		PreCheckoutQuery *PreCheckoutQuery `json:"pre_checkout_query,omitempty"`
		Message          *Message          `json:"message,omitempty"`
		UpdateID         int64             `json:"update_id"`
	}
)

// Bot is the part of the Telegram Bot API the invoice server uses.
type Bot interface {
	CreateInvoiceLink(ctx context.Context, link InvoiceLink) (string, error)
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errMsg string) error
}

type botResponse struct {
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
	OK          bool            `json:"ok"`
}

// BotAPI calls the Telegram Bot API over HTTPS.
type BotAPI struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewBotAPI returns a Bot API client for token. baseURL defaults to the
// public Telegram endpoint.
func NewBotAPI(token, baseURL string) *BotAPI {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &BotAPI{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (b *BotAPI) CreateInvoiceLink(
	ctx context.Context,
	params InvoiceLink,
) (string, error) {
	var link string

	err := b.call(ctx, "createInvoiceLink", params, &link)

	return link, err
}

func (b *BotAPI) AnswerPreCheckoutQuery(
	ctx context.Context,
	queryID string,
	ok bool,
	errMsg string,
) error {
	params := map[string]any{
		"pre_checkout_query_id": queryID,
		"ok":                    ok,
	}

	if !ok {
		params["error_message"] = errMsg
	}

	var answered bool

	return b.call(ctx, "answerPreCheckoutQuery", params, &answered)
}

func (b *BotAPI) call(
	ctx context.Context,
	method string,
	params, result any,
) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.baseURL+"/bot"+b.token+"/"+method,
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		// the request URL carries the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return errBotAPI.Fmt(method, "request error").Wrap(err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var r botResponse

	if err := json.Unmarshal(raw, &r); err != nil {
		return errBotAPI.Fmt(method, resp.Status).Wrap(err)
	}

	if !r.OK {
		return errBotAPI.Fmt(method, r.Description)
	}

	return json.Unmarshal(r.Result, result)
}
