package worker

// retry_cron.go
// Background goroutine that periodically re-queues documents stuck in
// estado='error' whose next_retry_at has passed.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// MaxReintentos is the number of failed jobs after which a document is
// moved to the dead letter queue.
const MaxReintentos = 3

const (
	retryBackoffBase = time.Minute
	retryBackoffMax  = 30 * time.Minute
)

// computeRetryBackoff returns the wait before the next job for a document
// that has already failed retryCount times: 1m, 2m, 4m ... capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	if retryCount > 6 {
		return retryBackoffMax
	}
	d := retryBackoffBase << uint(retryCount-1)
	if d > retryBackoffMax {
		return retryBackoffMax
	}
	return d
}

// EncoladorDocumentos queues a render job. *Dispatcher satisfies it.
type EncoladorDocumentos interface {
	EnqueueDocumento(ctx context.Context, payload DocumentoJobPayload) error
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Documentos Documentos
	Dispatcher EncoladorDocumentos
	Interval   time.Duration // zero = 30s
}

// StartRetryCron launches a background goroutine that ticks every Interval
// and re-queues due documents. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = retryTickInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg, time.Now())
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig, now time.Time) int {
	docs, err := cfg.Documentos.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return 0
	}
	if len(docs) == 0 {
		return 0
	}

	log.Info().Int("count", len(docs)).Msg("retry_cron: re-queueing failed documentos")

	encolados := 0
	for i := range docs {
		doc := &docs[i]
		doc.Estado = EstadoPendiente
		doc.NextRetryAt = nil
		if err := cfg.Documentos.Update(ctx, doc); err != nil {
			log.Error().Err(err).Str("documento_id", doc.ID.String()).Msg("retry_cron: failed to update documento")
			continue
		}
		if err := cfg.Dispatcher.EnqueueDocumento(ctx, DocumentoJobPayload{DocumentoID: doc.ID.String()}); err != nil {
			// put it back so the next tick tries again
			doc.Estado = EstadoError
			doc.NextRetryAt = &now
			log.Error().Err(err).Str("documento_id", doc.ID.String()).Msg("retry_cron: failed to enqueue documento")
			if err := cfg.Documentos.Update(ctx, doc); err != nil {
				log.Error().Err(err).Str("documento_id", doc.ID.String()).Msg("retry_cron: failed to restore documento, left pendiente")
			}
			continue
		}
		encolados++
		log.Info().
			Str("documento_id", doc.ID.String()).
			Int("retry_count", doc.RetryCount).
			Msg("retry_cron: documento re-queued")
	}
	return encolados
}
