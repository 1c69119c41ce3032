// Package whatsapp runs the webhook HTTP server and wires the per-message
// pipeline in front of the conversation handler.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

const shutdownTimeout = 10 * time.Second

// RunOptions controls the behaviour of Run.
type RunOptions struct {
	Config  *coreconfig.Config
	Handler message.HandlerFunc
	// Middlewares defaults to DefaultMiddlewares when nil.
	Middlewares []Middleware
	HandlerName string
	// Listener overrides the configured address, mainly for tests.
	Listener net.Listener

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Addr string
}

// Run serves the webhook until ctx is done, then shuts the server down
// gracefully.
func Run(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("whatsapp: nil config provided")
	}
	if opts.Handler == nil {
		return fmt.Errorf("whatsapp: nil handler provided")
	}
	cfg := opts.Config

	name := opts.HandlerName
	if name == "" {
		name = "conversation"
	}
	mws := opts.Middlewares
	if mws == nil {
		mws = DefaultMiddlewares(cfg, name, nil)
	}
	dispatch := BuildChain(opts.Handler, mws)

	ln := opts.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", cfg.ListenAddr())
		if err != nil {
			return fmt.Errorf("whatsapp: listen %s: %w", cfg.ListenAddr(), err)
		}
	}
	rt := Runtime{Addr: ln.Addr().String()}

	srv := &http.Server{
		Handler:           NewRouter(cfg, dispatch),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	logger.Info(ctx, logger.CompWA, "mode",
		slog.String("mode", "webhook"),
		slog.String("listen", rt.Addr),
		slog.String("path", cfg.Webhook.Path),
	)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			_ = ln.Close()
			return err
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		runErr = srv.Shutdown(shutdownCtx)
		cancel()
		<-serveErr
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.WithoutCancel(ctx), rt)
	}
	if runErr != nil {
		return fmt.Errorf("whatsapp: server: %w", runErr)
	}
	return stopErr
}
