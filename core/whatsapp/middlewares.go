package whatsapp

import (
	"time"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/middleware"
)

// Middleware is a named per-message middleware.
type Middleware struct {
	Name string
	Use  message.MiddlewareFunc
}

// DefaultMiddlewares builds the shared per-message chain, outermost first.
// The summary middleware runs innermost so it sees the outbound counters.
func DefaultMiddlewares(cfg *coreconfig.Config, handlerName string, onLimited message.HandlerFunc) []Middleware {
	mws := []Middleware{
		{Name: "logger", Use: middleware.Logging(middleware.NewDedup(10 * time.Minute))},
		{Name: "recover", Use: middleware.Recover},
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use: middleware.RateLimit(middleware.RateLimitOptions{
					Interval:  interval,
					Burst:     cfg.RateLimit.Burst,
					OnLimited: onLimited,
				}),
			})
		}
	}

	mws = append(mws,
		Middleware{Name: "metrics", Use: middleware.MessageMetrics},
		Middleware{Name: "summary", Use: middleware.Summary(handlerName)},
	)
	return mws
}

// BuildChain wraps h with mws.
func BuildChain(h message.HandlerFunc, mws []Middleware) message.HandlerFunc {
	funcs := make([]message.MiddlewareFunc, 0, len(mws))
	for _, mw := range mws {
		funcs = append(funcs, mw.Use)
	}
	return message.Chain(h, funcs...)
}
