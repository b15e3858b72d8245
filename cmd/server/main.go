package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poultrycore/internal/config"
	"poultrycore/internal/infra"
	"poultrycore/internal/repository"
	"poultrycore/internal/router"
	"poultrycore/internal/service"
	"poultrycore/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background machinery is wired here (composition root) so the pool and
	// the daily cron have full access to infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	saleRepo := repository.NewSaleRepository(db)
	storeRepo := repository.NewStoreRepository(db)

	workerHandlers := worker.Handlers{
		Receipt: worker.NewReceiptWorker(saleRepo, storeRepo, cfg.PDFStoragePath),
		Alert:   worker.NewAlertWorker(mailer, cfg.AlertEmail),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Daily checks: missed settlements and repeat shortage offenders for the
	// previous business day.
	sched := service.NewScheduledService(
		repository.NewSettlementRepository(db),
		repository.NewVarianceRepository(db),
		repository.NewPointsRepository(db),
		repository.NewReasonCodeRepository(db),
		storeRepo,
		repository.NewUserRepository(db),
	)
	worker.StartDailyChecks(ctx, func(ctx context.Context, date time.Time) error {
		_, err := sched.RunDailyChecks(ctx, date)
		return err
	})

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("poultrycore backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
