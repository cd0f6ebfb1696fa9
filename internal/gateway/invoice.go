package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ayoisaiah/zenbreath/internal/purchase"
)

const defaultPollInterval = 2 * time.Second

type (
	createInvoiceRequest struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		InitData    string `json:"initData"`
		PatternID   string `json:"patternId"`
		Price       int    `json:"price"`
	}

	createInvoiceResponse struct {
		InvoiceLink string `json:"invoiceLink"`
		Payload     string `json:"payload"`
	}

	invoiceStatusResponse struct {
		Payload string `json:"payload"`
		Status  string `json:"status"`
	}

	errorResponse struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
)

// InvoiceOption configures an Invoice gateway.
type InvoiceOption func(*Invoice)

// WithHTTPClient sets the client used to reach the invoice server.
func WithHTTPClient(c *http.Client) InvoiceOption {
	return func(i *Invoice) {
		i.client = c
	}
}

// WithPollInterval sets how often the invoice status is checked.
func WithPollInterval(d time.Duration) InvoiceOption {
	return func(i *Invoice) {
		if d > 0 {
			i.pollInterval = d
		}
	}
}

// WithOpener sets how invoice links are shown to the user.
func WithOpener(o Opener) InvoiceOption {
	return func(i *Invoice) {
		i.opener = o
	}
}

// Invoice is a purchase.Gateway backed by the zenbreath invoice server,
// which issues Telegram Stars invoices and records their outcome.
type Invoice struct {
	client       *http.Client
	opener       Opener
	endpoint     string
	pollInterval time.Duration
}

// NewInvoice returns a gateway that talks to the invoice server at
// endpoint.
func NewInvoice(endpoint string, opts ...InvoiceOption) *Invoice {
	i := &Invoice{
		client:       &http.Client{Timeout: 30 * time.Second},
		opener:       Browser(os.Stdout),
		endpoint:     strings.TrimRight(endpoint, "/"),
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

func (i *Invoice) CreateInvoice(
	ctx context.Context,
	req purchase.Request,
	token string,
) (purchase.Reference, error) {
	body, err := json.Marshal(createInvoiceRequest{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Amount,
		InitData:    token,
		PatternID:   req.PatternID,
	})
	if err != nil {
		return purchase.Reference{}, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		i.endpoint+"/api/create-invoice",
		bytes.NewReader(body),
	)
	if err != nil {
		return purchase.Reference{}, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	var resp createInvoiceResponse

	err = i.do(httpReq, &resp)
	if err != nil {
		return purchase.Reference{}, err
	}

	if resp.InvoiceLink == "" || resp.Payload == "" {
		return purchase.Reference{}, errMalformedResponse
	}

	return purchase.Reference{
		URL: resp.InvoiceLink,
		ID:  resp.Payload,
	}, nil
}

// Open shows the invoice link and polls the server until the invoice
// settles. A done ctx resolves the transaction as cancelled.
func (i *Invoice) Open(
	ctx context.Context,
	ref purchase.Reference,
) <-chan purchase.Status {
	ch := make(chan purchase.Status, 1)

	go func() {
		defer close(ch)

		if err := i.opener(ref.URL); err != nil {
			slog.Warn(
				"unable to open invoice link",
				slog.String("invoice", ref.ID),
				slog.Any("error", err),
			)
		}

		ticker := time.NewTicker(i.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				ch <- purchase.StatusCancelled
				return
			case <-ticker.C:
			}

			status, err := i.status(ctx, ref.ID)
			if err != nil {
				slog.Debug(
					"invoice status check failed",
					slog.String("invoice", ref.ID),
					slog.Any("error", err),
				)

				continue
			}

			if s, ok := purchase.ParseStatus(status); ok {
				ch <- s
				return
			}
		}
	}()

	return ch
}

func (i *Invoice) status(ctx context.Context, payload string) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		i.endpoint+"/api/invoices/"+url.PathEscape(payload),
		http.NoBody,
	)
	if err != nil {
		return "", err
	}

	var resp invoiceStatusResponse

	err = i.do(req, &resp)
	if err != nil {
		return "", err
	}

	return resp.Status, nil
}

func (i *Invoice) do(req *http.Request, v any) error {
	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse

		msg := http.StatusText(resp.StatusCode)

		if json.Unmarshal(b, &e) == nil && e.Error.Message != "" {
			msg = e.Error.Message
		}

		return errUnexpectedStatus.Fmt(resp.StatusCode, msg)
	}

	err = json.Unmarshal(b, v)
	if err != nil {
		return errMalformedResponse.Wrap(err)
	}

	return nil
}
