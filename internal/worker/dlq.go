package worker

// Documents that keep failing after MaxReintentos are parked in a Redis list
// per source queue (dlq:{queue}) until someone looks at them. GET /health
// reports the list lengths.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry is one parked job. DocumentoID is lifted out of the payload so
// the entry can be matched to its documentos row without decoding it twice.
type DLQEntry struct {
	Queue       string          `json:"queue"`
	Tipo        string          `json:"tipo"`
	DocumentoID string          `json:"documento_id,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Motivo      string          `json:"motivo"`
	Intentos    int             `json:"intentos"`
	FallidoEn   time.Time       `json:"fallido_en"`
}

// SendToDLQ parks a job. Push failures are only logged: the documentos row
// already records the error.
func SendToDLQ(ctx context.Context, rdb Cola, queue string, jobType string, payload json.RawMessage, motivo string, intentos int) {
	entry := DLQEntry{
		Queue:     queue,
		Tipo:      jobType,
		Payload:   payload,
		Motivo:    motivo,
		Intentos:  intentos,
		FallidoEn: time.Now().UTC(),
	}
	var doc DocumentoJobPayload
	if json.Unmarshal(payload, &doc) == nil {
		entry.DocumentoID = doc.DocumentoID
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("documento_id", entry.DocumentoID).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("documento_id", entry.DocumentoID).
		Int("intentos", intentos).
		Str("motivo", motivo).
		Msg("dlq: job parked")
}

// DLQLength returns the number of entries parked for queue.
func DLQLength(ctx context.Context, rdb Cola, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
