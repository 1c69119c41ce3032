package middleware

import (
	"context"
	"sync"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

type countersKey struct{}

// counters tracks outbound messages produced while handling one inbound message.
type counters struct {
	mu          sync.Mutex
	messages    int
	interactive bool
	step        int
}

// WithCounters attaches fresh outbound counters to ctx.
func WithCounters(ctx context.Context) context.Context {
	return context.WithValue(ctx, countersKey{}, &counters{})
}

// IncMessages records one successful outbound message. It is a no-op when
// ctx carries no counters.
func IncMessages(ctx context.Context, interactive bool) {
	c, _ := ctx.Value(countersKey{}).(*counters)
	if c == nil {
		return
	}
	c.mu.Lock()
	c.messages++
	if interactive {
		c.interactive = true
	}
	c.mu.Unlock()
}

// RecordStep notes the conversation step the handler worked on so the
// summary line can report it. It is a no-op when ctx carries no counters.
func RecordStep(ctx context.Context, step int) {
	c, _ := ctx.Value(countersKey{}).(*counters)
	if c == nil {
		return
	}
	c.mu.Lock()
	c.step = step
	c.mu.Unlock()
}

// StepOf returns the step recorded with RecordStep, or 0.
func StepOf(ctx context.Context) int {
	c, _ := ctx.Value(countersKey{}).(*counters)
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// GetCounters reads message count and interactive flag from ctx.
func GetCounters(ctx context.Context) (int, bool) {
	c, _ := ctx.Value(countersKey{}).(*counters)
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages, c.interactive
}

// MessageMetrics instruments ctx to count outbound messages.
func MessageMetrics(next message.HandlerFunc) message.HandlerFunc {
	return func(ctx context.Context, msg message.Inbound) error {
		return next(WithCounters(ctx), msg)
	}
}
