// Package app wires configuration, storage, the booking client and the
// WhatsApp sender into the conversation engine.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/bootstrap"
	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/sender"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/conversation"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/session"
)

// App is the assembled bot.
type App struct {
	Config   *coreconfig.Config
	Engine   *conversation.Engine
	Sessions *session.Manager

	infra      *bootstrap.Result
	closeStore func() error
}

// CoreConfig exposes the loaded configuration to the command runner.
func (a *App) CoreConfig() *coreconfig.Config { return a.Config }

// New bootstraps infrastructure and builds the engine.
func New(ctx context.Context, cfg *coreconfig.Config) (*App, error) {
	infra, err := bootstrap.Run(ctx, bootstrap.Options{Config: cfg})
	if err != nil {
		return nil, err
	}
	store, closeStore, err := OpenStore(ctx, cfg, infra.DB)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	return Assemble(cfg, store, infra, closeStore), nil
}

// Assemble builds the App from an already opened store.
func Assemble(cfg *coreconfig.Config, store session.Store, infra *bootstrap.Result, closeStore func() error) *App {
	sessions := session.NewManager(store, cfg.SessionTTL())
	engine := conversation.New(
		booking.New(cfg.Booking, nil),
		sender.New(cfg.WhatsApp, nil),
		sessions,
		cfg.Business,
	)
	return &App{
		Config:     cfg,
		Engine:     engine,
		Sessions:   sessions,
		infra:      infra,
		closeStore: closeStore,
	}
}

// RunOptions returns the webhook server options for this app.
func (a *App) RunOptions() whatsapp.RunOptions {
	return whatsapp.RunOptions{
		Config:      a.Config,
		Handler:     a.Engine.HandleMessage,
		HandlerName: "conversation",
		OnStop: func(context.Context, whatsapp.Runtime) error {
			return a.Close()
		},
	}
}

// Close releases storage clients and the database.
func (a *App) Close() error {
	var errs []error
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		a.closeStore = nil
	}
	if err := a.infra.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	a.infra = nil
	return errors.Join(errs...)
}
