package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/mxm-1x/formiqa/internal/adapters/http"
	"github.com/mxm-1x/formiqa/internal/adapters/ws"
	"github.com/mxm-1x/formiqa/internal/app"
	"github.com/mxm-1x/formiqa/internal/config"
	"github.com/mxm-1x/formiqa/internal/realtime"
	"github.com/mxm-1x/formiqa/internal/sentiment"
	"github.com/mxm-1x/formiqa/internal/storage/sqlite"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer store.Close()
	log.Info().Str("path", cfg.DatabasePath).Msg("database schema ready")

	hub := app.NewHub()
	realtime.Init(hub)

	gateway := app.NewGateway(hub, store.Sessions())
	ingest := app.NewIngest(hub, store.Feedback(), sentiment.Score)
	wsCtl := ws.NewController(hub, gateway, ingest, cfg.ReadLimit)

	stores := router.Stores{
		Sessions:  store.Sessions(),
		Questions: store.Questions(),
		Responses: store.Responses(),
		Feedback:  store.Feedback(),
		Users:     store.Users(),
		Activity:  store.Activity(),
	}
	r := router.SetupRouter(ctx, cfg, stores, wsCtl, sentiment.Score)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("formiqa server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
