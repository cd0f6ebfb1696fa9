// Package invoice implements the payment backend of zenbreath. It issues
// Telegram Stars invoice links, receives the Bot API webhook and reports
// the outcome of each invoice to polling clients.
package invoice

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ayoisaiah/zenbreath/internal/host"
	"github.com/ayoisaiah/zenbreath/store"
)

const (
	secretHeader       = "X-Telegram-Bot-Api-Secret-Token"
	defaultDescription = "Payment for services"
	shutdownTimeout    = 5 * time.Second
)

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

	statusResponse struct {
		Payload string       `json:"payload"`
		Status  store.Status `json:"status"`
	}
)

// Server serves the invoice API.
type Server struct {
	db  store.DB
	bot Bot
	now func() time.Time
	cfg Config
}

// NewServer returns a server that records invoices in db and talks to
// Telegram through bot.
func NewServer(cfg Config, db store.DB, bot Bot) *Server {
	return &Server{
		cfg: cfg,
		db:  db,
		bot: bot,
		now: time.Now,
	}
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(requestLogger(), gin.Recovery(), cors())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.POST("/create-invoice", s.createInvoice)
	api.GET("/invoices/:payload", s.invoiceStatus)
	api.POST("/telegram/webhook", s.webhook)

	return engine
}

// Run listens on the configured address until ctx is done, then shuts the
// server down gracefully. Stale pending invoices are expired in the
// background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("invoice server listening", slog.String("addr", s.cfg.Addr))

		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.sweep(ctx)
		return nil
	})

	return g.Wait()
}

func (s *Server) sweep(ctx context.Context) {
	if s.cfg.InvoiceTTL <= 0 {
		return
	}

	ticker := time.NewTicker(s.cfg.InvoiceTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n, err := s.db.ExpirePending(s.now().Add(-s.cfg.InvoiceTTL))
		if err != nil {
			slog.Error("expiring invoices failed", slog.Any("error", err))
			continue
		}

		if n > 0 {
			slog.Info("expired stale invoices", slog.Int("count", n))
		}
	}
}

func (s *Server) expired(inv *store.Invoice) bool {
	return s.cfg.InvoiceTTL > 0 &&
		s.now().Sub(inv.CreatedAt) > s.cfg.InvoiceTTL
}

func (s *Server) newPayload() string {
	return fmt.Sprintf(
		"order_%d_%s",
		s.now().UnixMilli(),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
	)
}

func (s *Server) createInvoice(c *gin.Context) {
	var req createInvoiceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("Invalid request body"))
		return
	}

	req.Title = strings.TrimSpace(req.Title)

	if req.Title == "" || req.Price <= 0 {
		writeError(c, badRequest("Missing title or price"))
		return
	}

	var userID int64

	if s.cfg.VerifyInitData {
		values, err := host.VerifyInitData(
			req.InitData,
			s.cfg.BotToken,
			s.cfg.InitDataMaxAge,
			s.now(),
		)
		if err != nil {
			slog.Warn("init data rejected", slog.Any("error", err))
			writeError(c, unauthorized(err.Error()))

			return
		}

		var user User
		if json.Unmarshal([]byte(values.Get("user")), &user) == nil {
			userID = user.ID
		}
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription
	}

	payload := s.newPayload()

	link, err := s.bot.CreateInvoiceLink(c.Request.Context(), InvoiceLink{
		Title:         req.Title,
		Description:   description,
		Payload:       payload,
		ProviderToken: "",
		Currency:      Currency,
		Prices: []LabeledPrice{
			{Label: req.Title, Amount: req.Price},
		},
	})
	if err != nil {
		slog.Error("createInvoiceLink failed", slog.Any("error", err))

		apiErr := newAPIError(http.StatusBadGateway, "BOT_API_ERROR", "Failed to create invoice")
		apiErr.Details = err.Error()

		writeError(c, apiErr)

		return
	}

	err = s.db.SaveInvoice(&store.Invoice{
		CreatedAt: s.now(),
		Payload:   payload,
		PatternID: req.PatternID,
		Title:     req.Title,
		Amount:    req.Price,
		Status:    store.StatusPending,
		UserID:    userID,
	})
	if err != nil {
		slog.Error("saving invoice failed", slog.Any("error", err))
		writeError(c, internal(""))

		return
	}

	slog.Info(
		"invoice created",
		slog.String("payload", payload),
		slog.String("pattern", req.PatternID),
		slog.Int("amount", req.Price),
	)

	c.JSON(http.StatusOK, createInvoiceResponse{
		InvoiceLink: link,
		Payload:     payload,
	})
}

func (s *Server) invoiceStatus(c *gin.Context) {
	payload := c.Param("payload")

	inv, err := s.db.GetInvoice(payload)
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, notFound("Invoice not found"))
		return
	}

	if err != nil {
		writeError(c, internal(""))
		return
	}

	if !inv.Terminal() && s.expired(inv) {
		inv, err = s.settle(payload, store.StatusCancelled)
		if err != nil {
			writeError(c, internal(""))
			return
		}
	}

	c.JSON(http.StatusOK, statusResponse{
		Payload: inv.Payload,
		Status:  inv.Status,
	})
}

// settle moves a pending invoice to status. Invoices that already settled
// are returned unchanged.
func (s *Server) settle(
	payload string,
	status store.Status,
) (*store.Invoice, error) {
	return s.db.UpdateInvoice(payload, func(inv *store.Invoice) error {
		if !inv.Terminal() {
			inv.Status = status
		}

		return nil
	})
}

func (s *Server) webhook(c *gin.Context) {
	if s.cfg.WebhookSecret != "" {
		got := c.GetHeader(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.WebhookSecret)) != 1 {
			writeError(c, unauthorized("Invalid webhook secret"))
			return
		}
	}

	var update Update

	if err := c.ShouldBindJSON(&update); err != nil {
		writeError(c, badRequest("Invalid update"))
		return
	}

	switch {
	case update.PreCheckoutQuery != nil:
		s.preCheckout(c.Request.Context(), update.PreCheckoutQuery)
	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		s.successfulPayment(update.Message)
	default:
		slog.Debug("ignoring update", slog.Int64("update_id", update.UpdateID))
	}

	// Telegram redelivers updates that are not acknowledged with 200
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) preCheckout(ctx context.Context, q *PreCheckoutQuery) {
	ok, reason := s.checkOrder(q)

	logger := slog.With(
		slog.String("payload", q.InvoicePayload),
		slog.Bool("ok", ok),
	)

	if err := s.bot.AnswerPreCheckoutQuery(ctx, q.ID, ok, reason); err != nil {
		logger.Error("answerPreCheckoutQuery failed", slog.Any("error", err))
		return
	}

	logger.Info("pre-checkout answered", slog.String("reason", reason))
}

// checkOrder decides whether a pre-checkout query may proceed. Orders that
// cannot be honoured are settled so polling clients stop waiting.
func (s *Server) checkOrder(q *PreCheckoutQuery) (bool, string) {
	inv, err := s.db.GetInvoice(q.InvoicePayload)
	if err != nil {
		return false, "Invoice not found"
	}

	if inv.Terminal() {
		return false, "This invoice is no longer valid"
	}

	if s.expired(inv) {
		_, _ = s.settle(inv.Payload, store.StatusCancelled)
		return false, "This invoice has expired"
	}

	if q.Currency != Currency || q.TotalAmount != inv.Amount {
		_, _ = s.settle(inv.Payload, store.StatusFailed)
		return false, "The order total does not match the invoice"
	}

	return true, ""
}

// successfulPayment records a charge. A charge always wins over an
// earlier cancellation because the user has already paid.
func (s *Server) successfulPayment(msg *Message) {
	p := msg.SuccessfulPayment

	inv, err := s.db.UpdateInvoice(p.InvoicePayload, func(inv *store.Invoice) error {
		if inv.Status != store.StatusPending {
			slog.Warn(
				"payment received for settled invoice",
				slog.String("payload", inv.Payload),
				slog.String("status", string(inv.Status)),
			)
		}

		inv.Status = store.StatusPaid
		inv.ChargeID = p.TelegramPaymentChargeID

		if msg.From != nil {
			inv.UserID = msg.From.ID
		}

		return nil
	})
	if err != nil {
		slog.Error(
			"recording payment failed",
			slog.String("payload", p.InvoicePayload),
			slog.Any("error", err),
		)

		return
	}

	slog.Info(
		"invoice paid",
		slog.String("payload", inv.Payload),
		slog.String("charge_id", inv.ChargeID),
	)
}
