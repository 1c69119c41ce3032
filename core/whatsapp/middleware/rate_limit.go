package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	// Interval is the minimum spacing between messages of one sender.
	Interval time.Duration
	Burst    int
	// Idle evicts limiters of senders quiet for longer than this.
	Idle      time.Duration
	OnLimited message.HandlerFunc
}

type senderLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimit drops messages that exceed the per-sender budget.
// A zero Interval disables limiting.
func RateLimit(opts RateLimitOptions) message.MiddlewareFunc {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Idle <= 0 {
		opts.Idle = time.Hour
	}
	var (
		mu       sync.Mutex
		limiters = make(map[string]*senderLimiter)
		lastGC   time.Time
	)
	allow := func(sender string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()
		if now.Sub(lastGC) > opts.Idle {
			for k, l := range limiters {
				if now.Sub(l.seen) > opts.Idle {
					delete(limiters, k)
				}
			}
			lastGC = now
		}
		l, ok := limiters[sender]
		if !ok {
			l = &senderLimiter{lim: rate.NewLimiter(rate.Every(opts.Interval), opts.Burst)}
			limiters[sender] = l
		}
		l.seen = now
		return l.lim.AllowN(now, 1)
	}

	return func(next message.HandlerFunc) message.HandlerFunc {
		return func(ctx context.Context, msg message.Inbound) error {
			if opts.Interval <= 0 || msg.From == "" {
				return next(ctx, msg)
			}
			if allow(msg.From, time.Now()) {
				return next(ctx, msg)
			}
			logger.Warn(ctx, logger.CompWA, "rate_limited",
				slog.String("status", "rate_limited"),
				slog.String("input", msg.Kind()),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(ctx, msg)
			}
			return nil
		}
	}
}
