package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

// PanicError is returned when a handler panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("handler panic: %v", e.Value) }

// Code implements the err_code contract used by summary logs.
func (e *PanicError) Code() string { return "PANIC" }

// Recover converts a handler panic into a *PanicError so the remaining
// messages of the delivery are still processed.
func Recover(next message.HandlerFunc) message.HandlerFunc {
	return func(ctx context.Context, msg message.Inbound) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(ctx, logger.CompWA, "panic",
					slog.String("status", "fail"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = &PanicError{Value: r}
			}
		}()
		return next(ctx, msg)
	}
}
