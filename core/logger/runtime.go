package logger

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxRID       contextKey = "rid"
	ctxSender    contextKey = "sender"
	ctxMessageID contextKey = "message_id"
	ctxStep      contextKey = "step"
	ctxLogger    contextKey = "logger"
	ctxHandler   contextKey = "handler"
)

// WithLogger stores the provided slog.Logger in context for propagation across layers.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxLogger, log)
}

// FromContext extracts slog.Logger from context or returns global default.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxLogger).(*slog.Logger); ok {
			return l
		}
	}
	return L
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}

// WithRID attaches request correlation id into context.
func WithRID(ctx context.Context, rid string) context.Context {
	return withString(ctx, ctxRID, rid)
}

// RIDFrom extracts rid from context if present.
func RIDFrom(ctx context.Context) string {
	return stringFrom(ctx, ctxRID)
}

// WithMessageMeta attaches the sender phone and WhatsApp message id to context.
func WithMessageMeta(ctx context.Context, sender, messageID string) context.Context {
	ctx = withString(ctx, ctxSender, sender)
	return withString(ctx, ctxMessageID, messageID)
}

// SenderFrom returns the sender phone number stored in context.
func SenderFrom(ctx context.Context) string {
	return stringFrom(ctx, ctxSender)
}

// MessageIDFrom returns the inbound message id stored in context.
func MessageIDFrom(ctx context.Context) string {
	return stringFrom(ctx, ctxMessageID)
}

// WithStep records the conversation step being handled.
func WithStep(ctx context.Context, step int) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStep, step)
}

// StepFrom returns the conversation step stored in context, or 0.
func StepFrom(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	step, _ := ctx.Value(ctxStep).(int)
	return step
}

// WithHandler stores handler identifier in context for downstream logs.
func WithHandler(ctx context.Context, handler string) context.Context {
	return withString(ctx, ctxHandler, handler)
}

// HandlerFrom returns handler identifier from context if present.
func HandlerFrom(ctx context.Context) string {
	return stringFrom(ctx, ctxHandler)
}

// Sanitize drops control and format runes except tab and newline.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeLimit applies Sanitize and limits the output length in runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(Sanitize(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max])
}

// MaskPhone keeps the last four digits of a phone number.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// NewRID returns a fresh correlation identifier.
func NewRID() string {
	return uuid.NewString()
}

// CompactRID shortens a UUID rid to its first group for readability.
// Values that are not UUIDs are returned unchanged.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	if rid == "" {
		return ""
	}
	id, err := uuid.Parse(rid)
	if err != nil {
		return rid
	}
	return strings.SplitN(id.String(), "-", 2)[0]
}
