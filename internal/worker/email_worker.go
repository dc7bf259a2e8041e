package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	DocumentoID string `json:"documento_id"`
	ToEmail     string `json:"to_email"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Adjunto     string `json:"adjunto"`
}

// Enviador sends one message with an optional attachment. *infra.Mailer
// satisfies it.
type Enviador interface {
	EnviarDocumento(to, subject, body, adjunto string) error
}

// EmailWorker mails generated documents.
type EmailWorker struct {
	mailer Enviador
}

func NewEmailWorker(mailer Enviador) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends the email. Delivery failures are logged, never retried:
// the document stays downloadable from the API.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Str("documento_id", payload.DocumentoID).Msg("email_worker: empty to_email, skipping")
		return
	}

	if err := w.mailer.EnviarDocumento(payload.ToEmail, payload.Subject, payload.Body, payload.Adjunto); err != nil {
		log.Error().Err(err).
			Str("to", payload.ToEmail).
			Str("documento_id", payload.DocumentoID).
			Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("documento_id", payload.DocumentoID).Msg("email_worker: documento enviado")
}
