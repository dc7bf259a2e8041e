package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueDocumentos = "jobs:documentos"
	QueueEmail      = "jobs:email"
)

const (
	JobDocumento = "documento"
	JobEmail     = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Cola is the part of the Redis client the queue needs. *redis.Client
// satisfies it.
type Cola interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb Cola
}

func NewDispatcher(rdb Cola) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueDocumento pushes a render job to Redis.
func (d *Dispatcher) EnqueueDocumento(ctx context.Context, payload DocumentoJobPayload) error {
	return d.enqueue(ctx, QueueDocumentos, JobDocumento, payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers maps a job type to the function that processes its payload.
type Handlers map[string]func(ctx context.Context, payload json.RawMessage)

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb Cola, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb Cola, handlers Handlers, id int) {
	queues := []string{QueueDocumentos, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	handle, ok := handlers[job.Type]
	if !ok {
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	handle(ctx, job.Payload)
}
