// Package sender posts outbound messages to the WhatsApp Cloud API.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/buildinfo"
	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/netutil"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/interactive"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/middleware"
)

// Client sends messages on behalf of one business phone number.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// New builds a Client. A nil httpClient gets a tuned default with cfg's timeout.
func New(cfg coreconfig.WhatsAppConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = netutil.BuildHTTPClient(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.APIVersion + "/" + cfg.PhoneNumberID + "/messages",
		token:    cfg.AccessToken,
		http:     httpClient,
	}
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidMessage)
	}
	return c.send(ctx, "text", false, textPayload(to, text))
}

// SendButtons sends a body with one to three reply buttons.
func (c *Client) SendButtons(ctx context.Context, to string, msg interactive.Buttons) error {
	if n := len(msg.Buttons); n == 0 || n > interactive.MaxButtons {
		return fmt.Errorf("%w: %d buttons", ErrInvalidMessage, n)
	}
	return c.send(ctx, "buttons", true, buttonsPayload(to, msg))
}

// SendList sends a single-section list.
func (c *Client) SendList(ctx context.Context, to string, msg interactive.List) error {
	if n := len(msg.Rows); n == 0 || n > interactive.MaxRows {
		return fmt.Errorf("%w: %d rows", ErrInvalidMessage, n)
	}
	return c.send(ctx, "list", true, listPayload(to, msg))
}

// SendLink sends a call-to-action button opening msg.URL.
func (c *Client) SendLink(ctx context.Context, to string, msg interactive.Link) error {
	if strings.TrimSpace(msg.URL) == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidMessage)
	}
	return c.send(ctx, "cta_url", true, linkPayload(to, msg))
}

func (c *Client) send(ctx context.Context, kind string, isInteractive bool, payload outbound) (err error) {
	start := time.Now()
	httpCode := 0
	messageID := ""
	defer func() {
		attrs := []slog.Attr{
			slog.String("status", logger.Status(err)),
			slog.String("operation", kind),
			slog.String("to", payload.To),
			slog.Duration("duration", logger.Took(start)),
			slog.Int("http_code", httpCode),
		}
		if err != nil {
			attrs = append(attrs,
				slog.String("err", c.redact(logger.SanitizeLimit(err.Error(), 512))),
				slog.String("err_code", logger.ErrCode(err)),
				slog.String("err_kind", netutil.ErrorKind(err)),
				slog.Bool("retryable", netutil.IsTransient(err)),
			)
			logger.Warn(ctx, logger.CompSender, "send", attrs...)
			return
		}
		middleware.IncMessages(ctx, isInteractive)
		if messageID != "" {
			attrs = append(attrs, slog.String("wamid", messageID))
		}
		logger.Debug(ctx, logger.CompSender, "send", attrs...)
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp %s: encode: %w", kind, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp %s: %w", kind, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp %s: %w", kind, err)
	}
	defer resp.Body.Close()
	httpCode = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("whatsapp %s: read body: %w", kind, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error != nil {
			er.Error.HTTP = resp.StatusCode
			return er.Error
		}
		return &APIError{HTTP: resp.StatusCode, Message: logger.SanitizeLimit(string(raw), 256)}
	}
	var ok sendResponse
	if json.Unmarshal(raw, &ok) == nil && len(ok.Messages) > 0 {
		messageID = ok.Messages[0].ID
	}
	return nil
}

func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.token, "[REDACTED]")
}
