package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

// Dedup remembers processed message ids for a short window. WhatsApp may
// redeliver a message while the previous delivery is still in flight.
type Dedup struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	keepFor time.Duration
	now     func() time.Time
}

// NewDedup returns a Dedup keeping ids for keepFor.
func NewDedup(keepFor time.Duration) *Dedup {
	if keepFor <= 0 {
		keepFor = 10 * time.Minute
	}
	return &Dedup{seen: make(map[string]time.Time), keepFor: keepFor, now: time.Now}
}

// Seen records id and reports whether it was already recorded.
func (d *Dedup) Seen(id string) bool {
	if id == "" {
		return false
	}
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	// GC old entries
	for k, ts := range d.seen {
		if now.Sub(ts) > d.keepFor {
			delete(d.seen, k)
		}
	}
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = now
	return false
}

// Logging sets rid and message meta on the context and logs a sampled
// receipt line. Messages already seen by dedup are dropped.
func Logging(dedup *Dedup) message.MiddlewareFunc {
	return func(next message.HandlerFunc) message.HandlerFunc {
		return func(ctx context.Context, msg message.Inbound) error {
			ctx = logger.WithRID(ctx, logger.NewRID())
			ctx = logger.WithMessageMeta(ctx, msg.From, msg.MessageID)

			if dedup != nil && dedup.Seen(msg.MessageID) {
				logger.Info(ctx, logger.CompWA, "message.duplicate",
					slog.String("status", "skip"),
				)
				return nil
			}

			if logger.ShouldSampleDebug() {
				attrs := []slog.Attr{
					slog.String("status", "ok"),
					slog.String("type", msg.Type),
					slog.String("input", msg.Kind()),
				}
				if msg.OptionID != "" {
					attrs = append(attrs, slog.String("option_id", logger.SanitizeLimit(msg.OptionID, 128)))
				}
				if msg.Text != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(msg.Text, 256)))
				}
				logger.Debug(ctx, logger.CompWA, "message.received", attrs...)
			}
			return next(ctx, msg)
		}
	}
}
