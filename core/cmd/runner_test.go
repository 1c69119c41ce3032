package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp"
)

type stubApp struct {
	stopped bool
}

func (s *stubApp) RunOptions() whatsapp.RunOptions {
	return whatsapp.RunOptions{
		OnStop: func(context.Context, whatsapp.Runtime) error { s.stopped = true; return nil },
	}
}

func TestRunWiresHooks(t *testing.T) {
	t.Setenv("BOT_CONFIG", "/tmp/does-not-matter.yaml")
	var gotPath string
	app := &stubApp{}
	err := Run(Options{
		ConfigEnvVar: "BOT_CONFIG",
		LoadConfig: func(path string) (*coreconfig.Config, error) {
			gotPath = path
			return &coreconfig.Config{}, nil
		},
		Bootstrap: func(context.Context, *coreconfig.Config) (WhatsAppApp, error) {
			return app, nil
		},
		ShutdownLogger: func() error { return nil },
		RunWhatsApp: func(ctx context.Context, opts whatsapp.RunOptions) error {
			if opts.OnStart == nil || opts.OnStop == nil {
				t.Fatal("hooks not wrapped")
			}
			if err := opts.OnStart(ctx, whatsapp.Runtime{Addr: "127.0.0.1:0"}); err != nil {
				return err
			}
			return opts.OnStop(ctx, whatsapp.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotPath != "/tmp/does-not-matter.yaml" {
		t.Fatalf("config path = %s", gotPath)
	}
	if !app.stopped {
		t.Fatal("app OnStop not chained")
	}
}

func TestRunStopsOnLoadError(t *testing.T) {
	boom := errors.New("bad yaml")
	err := Run(Options{
		DefaultConfigPath: "x.yaml",
		LoadConfig:        func(string) (*coreconfig.Config, error) { return nil, boom },
		Bootstrap: func(context.Context, *coreconfig.Config) (WhatsAppApp, error) {
			t.Fatal("bootstrap must not run")
			return nil, nil
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if err := Run(Options{}); err == nil {
		t.Fatal("missing bootstrap accepted")
	}
}
