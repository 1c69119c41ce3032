package middleware

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

func TestRecoverTurnsPanicIntoError(t *testing.T) {
	h := Recover(func(context.Context, message.Inbound) error {
		panic("boom")
	})
	err := h(context.Background(), message.Inbound{From: "5511"})
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if pe.Code() != "PANIC" {
		t.Fatalf("code = %s", pe.Code())
	}
}

func TestDedupSeen(t *testing.T) {
	d := NewDedup(time.Minute)
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	if d.Seen("wamid.1") {
		t.Fatal("first sighting reported as seen")
	}
	if !d.Seen("wamid.1") {
		t.Fatal("second sighting not reported")
	}
	if d.Seen("") {
		t.Fatal("empty id must never be deduplicated")
	}
	now = now.Add(2 * time.Minute)
	if d.Seen("wamid.1") {
		t.Fatal("expired id should be forgotten")
	}
}

func TestLoggingDropsDuplicates(t *testing.T) {
	calls := 0
	h := Logging(NewDedup(time.Minute))(func(context.Context, message.Inbound) error {
		calls++
		return nil
	})
	msg := message.Inbound{From: "5511", MessageID: "wamid.2"}
	_ = h(context.Background(), msg)
	_ = h(context.Background(), msg)
	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
}

func TestRateLimitPerSender(t *testing.T) {
	calls := map[string]int{}
	limited := 0
	h := RateLimit(RateLimitOptions{
		Interval:  time.Hour,
		Burst:     1,
		OnLimited: func(context.Context, message.Inbound) error { limited++; return nil },
	})(func(_ context.Context, msg message.Inbound) error {
		calls[msg.From]++
		return nil
	})

	ctx := context.Background()
	_ = h(ctx, message.Inbound{From: "a"})
	_ = h(ctx, message.Inbound{From: "a"})
	_ = h(ctx, message.Inbound{From: "b"})

	if calls["a"] != 1 || calls["b"] != 1 {
		t.Fatalf("calls = %v", calls)
	}
	if limited != 1 {
		t.Fatalf("limited = %d", limited)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	calls := 0
	h := RateLimit(RateLimitOptions{})(func(context.Context, message.Inbound) error {
		calls++
		return nil
	})
	for i := 0; i < 5; i++ {
		_ = h(context.Background(), message.Inbound{From: "a"})
	}
	if calls != 5 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestMessageMetricsCounters(t *testing.T) {
	var msgs int
	var interactive bool
	h := MessageMetrics(func(ctx context.Context, _ message.Inbound) error {
		IncMessages(ctx, false)
		IncMessages(ctx, true)
		msgs, interactive = GetCounters(ctx)
		return nil
	})
	_ = h(context.Background(), message.Inbound{})
	if msgs != 2 || !interactive {
		t.Fatalf("counters = %d/%v", msgs, interactive)
	}
	if n, _ := GetCounters(context.Background()); n != 0 {
		t.Fatalf("bare ctx counters = %d", n)
	}
	IncMessages(context.Background(), true)
}

func TestRecordStepVisibleToOuterContext(t *testing.T) {
	ctx := WithCounters(context.Background())
	handler := func(ctx context.Context, _ message.Inbound) error {
		RecordStep(logger.WithStep(ctx, 5), 5)
		return nil
	}
	_ = handler(ctx, message.Inbound{})
	if got := StepOf(ctx); got != 5 {
		t.Fatalf("step seen by summary ctx = %d", got)
	}
	if logger.StepFrom(ctx) != 0 {
		t.Fatal("outer ctx should not carry the derived step value")
	}
	RecordStep(context.Background(), 3)
	if StepOf(context.Background()) != 0 {
		t.Fatal("bare ctx must not record a step")
	}
}

type codeErr struct{}

func (codeErr) Error() string { return "x" }
func (codeErr) Code() string  { return "booking status" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	if got := deriveErrorCode(fmt.Errorf("wrap: %w", codeErr{})); got != "BOOKING_STATUS" {
		t.Fatalf("coded = %s", got)
	}
	if got := deriveErrorCode(fmt.Errorf("wrap: %w", &plainErr{})); got != "PLAINERR" {
		t.Fatalf("typed = %s", got)
	}
	if got := deriveErrorCode(nil); got != "" {
		t.Fatalf("nil = %s", got)
	}
}

func TestSummaryPassesError(t *testing.T) {
	want := errors.New("boom")
	h := Summary("Conversation")(func(context.Context, message.Inbound) error { return want })
	if err := h(context.Background(), message.Inbound{}); !errors.Is(err, want) {
		t.Fatalf("err = %v", err)
	}
	if normalizeHandlerName(" Flow Step ") != "flow_step" {
		t.Fatal("handler name not normalized")
	}
}
