package whatsapp

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

func testConfig() *coreconfig.Config {
	return &coreconfig.Config{
		WhatsApp: coreconfig.WhatsAppConfig{VerifyToken: "tok"},
		Webhook:  coreconfig.WebhookConfig{Path: "/webhook"},
	}
}

func TestRunServesAndShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan message.Inbound, 1)
	started := make(chan string, 1)
	stopped := false
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, RunOptions{
			Config:   testConfig(),
			Listener: ln,
			Handler: func(_ context.Context, msg message.Inbound) error {
				received <- msg
				return nil
			},
			OnStart: func(_ context.Context, rt Runtime) error { started <- rt.Addr; return nil },
			OnStop:  func(context.Context, Runtime) error { stopped = true; return nil },
		})
	}()

	addr := <-started
	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"status":"ok"`) {
		t.Fatalf("health = %d %s", resp.StatusCode, body)
	}

	payload := `{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{"messages":[{"from":"5511","id":"wamid.run","type":"text","text":{"body":"oi"}}]}}]}]}`
	resp, err = http.Post("http://"+addr+"/webhook", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	select {
	case msg := <-received:
		if msg.From != "5511" || msg.Text != "oi" {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not dispatched")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	if !stopped {
		t.Fatal("OnStop not called")
	}
}

func TestRunRequiresHandler(t *testing.T) {
	if err := Run(context.Background(), RunOptions{Config: testConfig()}); err == nil {
		t.Fatal("expected error without handler")
	}
}

func TestDefaultMiddlewaresRateLimit(t *testing.T) {
	cfg := testConfig()
	if n := len(DefaultMiddlewares(cfg, "x", nil)); n != 4 {
		t.Fatalf("middlewares without rate limit = %d", n)
	}
	cfg.RateLimit = coreconfig.RateLimitConfig{IntervalMS: 500, Burst: 2}
	mws := DefaultMiddlewares(cfg, "x", nil)
	if len(mws) != 5 || mws[2].Name != "rate_limit" {
		t.Fatalf("unexpected chain %+v", mws)
	}
}
