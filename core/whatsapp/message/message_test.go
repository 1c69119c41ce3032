package message

import (
	"context"
	"strings"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var trace []string
	mw := func(name string) MiddlewareFunc {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, msg Inbound) error {
				trace = append(trace, name)
				return next(ctx, msg)
			}
		}
	}
	h := Chain(func(context.Context, Inbound) error {
		trace = append(trace, "handler")
		return nil
	}, mw("a"), nil, mw("b"))

	if err := h(context.Background(), Inbound{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := strings.Join(trace, ","); got != "a,b,handler" {
		t.Fatalf("order = %s", got)
	}
}

func TestInboundKind(t *testing.T) {
	if (Inbound{Text: "oi"}).Kind() != "text" {
		t.Fatal("text message should be text kind")
	}
	if !(Inbound{OptionID: "schedule"}).HasOption() {
		t.Fatal("option id should mark option")
	}
}
