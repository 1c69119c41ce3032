package middleware

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

// Summary logs one "message.handled" line per inbound message with the
// outbound counters, duration and error code.
func Summary(handlerName string) message.MiddlewareFunc {
	name := normalizeHandlerName(handlerName)
	return func(next message.HandlerFunc) message.HandlerFunc {
		return func(ctx context.Context, msg message.Inbound) error {
			start := time.Now()
			ctx = logger.WithHandler(ctx, name)
			err := next(ctx, msg)
			logSummary(ctx, name, start, msg, err)
			return err
		}
	}
}

func logSummary(ctx context.Context, handlerName string, start time.Time, msg message.Inbound, err error) {
	msgs, interactive := GetCounters(ctx)
	outcome := "ok"
	if err != nil {
		outcome = "fail"
	}
	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("handler", handlerName),
		slog.String("input", msg.Kind()),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("interactive", interactive),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	}
	step := StepOf(ctx)
	if step == 0 {
		step = logger.StepFrom(ctx)
	}
	if step > 0 {
		attrs = append(attrs, slog.Int("step", step))
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
			slog.String("cause", handlerName),
		)
	}
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	logger.Event(ctx, logger.CompWA, level, "message.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if code := strings.TrimSpace(logger.ErrCode(err)); code != "" {
		return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
	}
	for u := errors.Unwrap(err); u != nil; u = errors.Unwrap(u) {
		err = u
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(strings.ReplaceAll(t.Name(), " ", "_"))
	}
	return "UNKNOWN_ERROR"
}
