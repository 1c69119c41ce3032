// Package message defines the inbound message shape shared by the webhook
// parser, the per-message middleware chain and the conversation engine.
package message

import (
	"context"
	"time"
)

// Type values of inbound messages.
const (
	TypeText        = "text"
	TypeButton      = "button"
	TypeInteractive = "interactive"
)

// Inbound is one user message extracted from a webhook delivery.
type Inbound struct {
	From      string
	Name      string
	MessageID string
	Type      string
	// Text is the typed body, or the title of the tapped option.
	Text string
	// OptionID is set when the user tapped a button or list row.
	OptionID    string
	OptionTitle string
	Timestamp   time.Time
}

// HasOption reports whether the message carries an interactive selection.
func (m Inbound) HasOption() bool { return m.OptionID != "" }

// Kind returns a short label used by logs and the rate limiter.
func (m Inbound) Kind() string {
	if m.HasOption() {
		return "option"
	}
	return "text"
}

// HandlerFunc processes a single inbound message.
type HandlerFunc func(ctx context.Context, msg Inbound) error

// MiddlewareFunc wraps a HandlerFunc.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// Chain applies middlewares so that the first one runs outermost.
func Chain(h HandlerFunc, mws ...MiddlewareFunc) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
