package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caludio70/boletosventa-sub000/internal/config"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/referencia"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
	"github.com/caludio70/boletosventa-sub000/internal/router"
	"github.com/caludio70/boletosventa-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reference tables: seed empty tables once, then load the in-memory catalog.
	referenciaRepo := repository.NewReferenciaRepository(db)
	tasas, err := referencia.TasasSemilla()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read embedded rates")
	}
	inflacion, err := referencia.InflacionSemilla()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read embedded inflation")
	}
	if err := referenciaRepo.SembrarSiVacio(ctx, tasas, inflacion); err != nil {
		log.Warn().Err(err).Msg("could not seed reference tables")
	}
	catalogo, err := referencia.Cargar(ctx, referenciaRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load reference catalog")
	}

	cotizacionClient := infra.NewCotizacionClient(cfg.CotizacionURL, infra.NewCircuitBreaker(infra.DefaultCBConfig()))

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	documentoRepo := repository.NewDocumentoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	dispatcher := worker.NewDispatcher(rdb)
	mailer := infra.NewMailer(cfg)
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set, document emails will be skipped")
	}

	docWorker := worker.NewDocumentoWorker(documentoRepo, movimientoRepo, dispatcher, rdb, cfg.DocumentosStoragePath, cfg.EmpresaNombre)
	emailWorker := worker.NewEmailWorker(mailer)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		worker.JobDocumento: docWorker.Process,
		worker.JobEmail:     emailWorker.Process,
	})
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		Documentos: documentoRepo,
		Dispatcher: dispatcher,
	})

	r := router.New(cfg, db, rdb, catalogo, cotizacionClient)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("boletos backend listening on :%d", cfg.Port)
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
	log.Info().Msg("server exited")
}
