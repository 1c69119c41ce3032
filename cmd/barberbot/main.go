package main

import (
	"context"
	"log"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	corecmd "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/cmd"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		Bootstrap: func(ctx context.Context, cfg *coreconfig.Config) (corecmd.WhatsAppApp, error) {
			a, err := app.New(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
