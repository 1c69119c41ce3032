package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"timeout":  fmt.Errorf("call: %w", context.DeadlineExceeded),
		"dns":      &net.DNSError{Err: "no such host", Name: "api.example.com"},
		"dial":     &net.OpError{Op: "dial", Err: errors.New("refused")},
		"http_5xx": fmt.Errorf("wrap: %w", statusErr(502)),
		"http_4xx": statusErr(400),
		"unknown":  errors.New("boom"),
	}
	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("ErrorKind(%v) = %s, want %s", err, got, want)
		}
	}
	if ErrorKind(nil) != "" {
		t.Fatal("nil error should have no kind")
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(statusErr(503)) || !IsTransient(statusErr(429)) {
		t.Fatal("5xx and 429 should be transient")
	}
	if IsTransient(statusErr(400)) {
		t.Fatal("400 should not be transient")
	}
	if !IsTransient(&net.OpError{Op: "dial", Err: errors.New("refused")}) {
		t.Fatal("dial errors should be transient")
	}
	if IsTransient(context.Canceled) || IsTransient(nil) {
		t.Fatal("cancel and nil should not be transient")
	}
}

func TestBuildHTTPClientDefaults(t *testing.T) {
	c := BuildHTTPClient(0)
	if c.Timeout != defaultClientTimeout {
		t.Fatalf("timeout = %s", c.Timeout)
	}
}
