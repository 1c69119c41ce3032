package conversation

import (
	"context"
	"testing"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/webhook"
)

func deliver(t *testing.T, h *harness, body string) {
	t.Helper()
	msgs, err := webhook.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages = %d", len(msgs))
	}
	if err := h.engine.HandleMessage(context.Background(), msgs[0]); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

const confirmReply = `{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{
  "messages":[{"from":"5511999998888","id":"wamid.c","type":"interactive",
    "interactive":{"type":"button_reply","button_reply":{"id":"confirm","title":"Confirmar e Agendar"}}}]}}]}]}`

func TestConfirmButtonFromWebhookReserves(t *testing.T) {
	h := newHarness(t)
	h.seed(t, confirmationState())
	deliver(t, h, confirmReply)

	if len(h.catalog.reservations) != 1 {
		t.Fatalf("reservations = %d, last sent %+v", len(h.catalog.reservations), h.sender.last())
	}
	if got := h.sender.last(); got.text != successText {
		t.Fatalf("last = %+v", got)
	}
	if s := h.stored(t); s.Step != StepWelcome {
		t.Fatalf("step = %d", s.Step)
	}
}

func TestTypedKeywordStillRestarts(t *testing.T) {
	h := newHarness(t)
	h.seed(t, confirmationState())
	deliver(t, h, `{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{
  "messages":[{"from":"5511999998888","id":"wamid.t","type":"text","text":{"body":"Quero agendar outro"}}]}}]}]}`)

	if len(h.catalog.reservations) != 0 {
		t.Fatal("typed text must not reserve")
	}
	if s := h.stored(t); s.Step != StepCategory {
		t.Fatalf("step = %d", s.Step)
	}
}
