// Package cmd is the process entry point shared by binaries: it loads
// configuration, bootstraps the app and runs the webhook server until a
// termination signal arrives.
package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp"
)

// ConfigCarrier exposes access to the embedded core configuration.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// WhatsAppApp is the minimal interface required to run a WhatsApp bot.
type WhatsAppApp interface {
	RunOptions() whatsapp.RunOptions
}

// Options describe how to load configuration, bootstrap the app, and run the bot.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (*coreconfig.Config, error)
	Bootstrap  func(ctx context.Context, cfg *coreconfig.Config) (WhatsAppApp, error)

	ShutdownLogger func() error
	RunWhatsApp    func(ctx context.Context, opts whatsapp.RunOptions) error
}

// Run loads configuration, bootstraps the app, and serves the webhook.
func Run(opts Options) error {
	if opts.Bootstrap == nil {
		return fmt.Errorf("cmd: Bootstrap is required")
	}
	load := opts.LoadConfig
	if load == nil {
		load = coreconfig.Load
	}

	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := load(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startedAt := time.Now()
	application, err := opts.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}

	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	runOpts := application.RunOptions()

	prevStart := runOpts.OnStart
	runOpts.OnStart = func(ctx context.Context, rt whatsapp.Runtime) error {
		if prevStart != nil {
			if err := prevStart(ctx, rt); err != nil {
				return err
			}
		}
		attrs := []slog.Attr{
			slog.String("listen", rt.Addr),
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
		}
		if cc, ok := application.(ConfigCarrier); ok && cc.CoreConfig() != nil {
			attrs = append(attrs, slog.String("driver", cc.CoreConfig().Storage.Driver))
		}
		logger.Info(ctx, logger.CompApp, "ready", attrs...)
		return nil
	}

	prevStop := runOpts.OnStop
	runOpts.OnStop = func(ctx context.Context, rt whatsapp.Runtime) error {
		logger.Info(ctx, logger.CompApp, "shutdown")
		if prevStop != nil {
			return prevStop(ctx, rt)
		}
		return nil
	}

	run := opts.RunWhatsApp
	if run == nil {
		run = whatsapp.Run
	}
	return run(ctx, runOpts)
}
