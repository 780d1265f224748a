package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"postreach/internal/api"
	"postreach/internal/bot"
	"postreach/internal/metrics"
	"postreach/internal/storage"
)

const gcInterval = 5 * time.Minute

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, plus the Telegram bot when a token is configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	svc, err := a.newExtractor(m)
	if err != nil {
		return err
	}

	if a.cfg.Level() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(svc, a.log), m, a.log)
	server := api.NewServer(a.cfg.Port, router, a.log)

	if a.cfg.BotEnabled() {
		store, err := storage.NewBadgerStore(a.cfg.BadgerDBPath, a.cfg.SessionTTL, a.log)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				a.log.WithError(err).Error("Error closing session store")
			}
		}()
		go store.RunGC(ctx, gcInterval)

		handler, err := bot.NewHandler(a.cfg, svc, store, a.log)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot: %w", err)
		}
		botDone := make(chan struct{})
		go func() {
			defer close(botDone)
			handler.Start(ctx)
		}()
		// Wait for polling to stop before the deferred store Close runs.
		defer func() {
			stop()
			<-botDone
		}()
	} else {
		a.log.Info("TELEGRAM_BOT_TOKEN not set; bot disabled")
	}

	a.log.Info("PostReach is running. Press Ctrl+C to exit.")
	if err := server.Run(ctx); err != nil {
		return err
	}
	a.log.Info("PostReach shut down gracefully.")
	return nil
}
