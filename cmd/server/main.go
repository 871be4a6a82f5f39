// Command server runs the xors matchmaking and game service, grounded
// on the teacher's backend/main.go wiring: slog JSON logging, env
// config, migrations before serving, signal-driven graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheAwiteb/xors/internal/auth"
	"github.com/TheAwiteb/xors/internal/clock"
	"github.com/TheAwiteb/xors/internal/config"
	"github.com/TheAwiteb/xors/internal/engine"
	"github.com/TheAwiteb/xors/internal/gamehttp"
	"github.com/TheAwiteb/xors/internal/history"
	"github.com/gin-gonic/gin"

	"github.com/TheAwiteb/xors/migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)

	if err := migrations.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal(err)
	}

	sink, err := history.NewPostgresSink(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sink.Close()

	tokens := auth.NewJWTManager(cfg.SecretKey, 7*24*time.Hour)

	eng := engine.New(clock.Real{}, cfg.MovePeriod, cfg.RematchWindow, cfg.MaxOnlineGames, sink)

	router := gamehttp.NewRouter(cfg.AllowedOrigins, tokens, eng, cfg.OutboundQueueSize)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh
	slog.Info("shutdown signal received, draining")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	eng.Shutdown(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	slog.Info("shut down cleanly")
}
