// telepay-webhook runs a standalone TelePay webhook listener that logs every
// verified event.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/telepay-cash/telepay-go/config"
	"github.com/telepay-cash/telepay-go/pkg/logger"
	"github.com/telepay-cash/telepay-go/webhook"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, env vars suffice)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	listener, err := webhook.NewListener(webhook.ListenerConfig{
		Host:   cfg.Webhook.Host,
		Port:   cfg.Webhook.Port,
		Path:   cfg.Webhook.Path,
		Secret: cfg.SecretAPIKey,
		Logger: log,
		Callback: func(headers http.Header, payload []byte) {
			log.Info().
				Str("payload", string(payload)).
				Msg("webhook event received")
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build webhook listener")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("url", listener.URL()).Msg("listening for TelePay webhooks")
	if err := listener.RunContext(ctx); err != nil {
		log.Error().Err(err).Msg("webhook listener failed")
		os.Exit(1)
	}
	log.Info().Msg("webhook listener stopped")
}
