package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/router"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Sistema de Préstamos API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL empty: receipt e-mails and config cache disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background jobs are wired here (composition root): the receipt worker
	// pool and the daily penalty sweep.
	mailer := infra.NewMailer(cfg)
	bg := router.NewBackground(cfg, db, mailer)
	if rdb != nil {
		worker.NewPool(rdb, bg.Handlers).Start(ctx, cfg.WorkerPoolSize)
	}
	_, err = worker.StartMoraCron(ctx, cfg.MoraCron, service.Zona(cfg.Timezone), func(ctx context.Context) error {
		res, err := bg.Mora.Procesar(ctx, dto.ProcesarMoraRequest{})
		if err != nil {
			return err
		}
		log.Info().Str("fecha", res.Fecha).Int("evaluadas", res.Evaluadas).Int("actualizadas", res.Actualizadas).
			Int("prestamos_en_mora", res.PrestamosEnMora).Str("total_penalidad", res.TotalPenalidad.String()).
			Int("errores", len(res.Errores)).Msg("mora: barrido completado")
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Str("MORA_CRON", cfg.MoraCron).Msg("invalid cron spec")
	}

	r := router.New(cfg, db, rdb, mailer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("prestamos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
