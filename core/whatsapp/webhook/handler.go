// Package webhook exposes the WhatsApp Cloud API webhook: the subscription
// handshake and the message notifications.
package webhook

import (
	"context"
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

const maxBodyBytes = 1 << 20

// Handler serves GET (verify) and POST (notifications) on one path.
type Handler struct {
	verifyToken string
	appSecret   string
	dispatch    message.HandlerFunc
}

// NewHandler builds a Handler that passes every parsed message to dispatch.
func NewHandler(cfg coreconfig.WhatsAppConfig, dispatch message.HandlerFunc) *Handler {
	return &Handler{
		verifyToken: cfg.VerifyToken,
		appSecret:   cfg.AppSecret,
		dispatch:    dispatch,
	}
}

// RegisterRoutes mounts the webhook on path. Methods other than GET and
// POST answer 405.
func (h *Handler) RegisterRoutes(r gin.IRouter, path string) {
	r.GET(path, h.Verify)
	r.POST(path, h.Receive)
	notAllowed := func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
	}
	for _, m := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		r.Handle(m, path, notAllowed)
	}
}

// Verify answers the subscription handshake.
func (h *Handler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) == 1 {
		logger.Info(ctx, logger.CompWebhook, "verify", slog.String("status", "ok"))
		c.String(http.StatusOK, challenge)
		return
	}
	logger.Warn(ctx, logger.CompWebhook, "verify",
		slog.String("status", "fail"),
		slog.String("mode", logger.SanitizeLimit(mode, 32)),
	)
	c.String(http.StatusForbidden, "Verification failed")
}

// Receive parses a notification and dispatches its messages one by one.
func (h *Handler) Receive(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		logger.Error(ctx, logger.CompWebhook, "receive",
			append([]slog.Attr{slog.String("status", "fail")}, logger.ErrAttrs(err)...)...)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if h.appSecret != "" {
		if err := VerifySignature(h.appSecret, body, c.GetHeader(SignatureHeader)); err != nil {
			logger.Warn(ctx, logger.CompWebhook, "signature", slog.String("status", "fail"))
			c.String(http.StatusForbidden, "Invalid signature")
			return
		}
	}

	msgs, err := Parse(body)
	if err != nil {
		logger.Error(ctx, logger.CompWebhook, "receive",
			append([]slog.Attr{slog.String("status", "fail")}, logger.ErrAttrs(err)...)...)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	failed := h.dispatchAll(ctx, msgs)
	logger.Debug(ctx, logger.CompWebhook, "receive",
		slog.String("status", "ok"),
		slog.Int("count", len(msgs)),
		slog.Int("failed", failed),
		slog.Duration("duration", logger.Took(start)),
	)
	c.String(http.StatusOK, "EVENT_RECEIVED")
}

// dispatchAll runs messages sequentially. A failing message does not stop
// the rest of the delivery.
func (h *Handler) dispatchAll(ctx context.Context, msgs []message.Inbound) int {
	failed := 0
	for _, msg := range msgs {
		if h.dispatch == nil {
			break
		}
		if err := h.dispatch(ctx, msg); err != nil {
			failed++
		}
	}
	return failed
}
