package worker

// documento_worker.go
// Renders PDF and XLSX documents queued on QueueDocumentos. Every input
// (exchange rate, defaults) is resolved before the job is queued, so the
// same parameters always render the same file.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/model"
)

const (
	TipoProforma         = "proforma"
	TipoEstadoDeuda      = "estado_deuda"
	TipoRefinanciacion   = "refinanciacion"
	TipoAmortizacionXLSX = "amortizacion_xlsx"
	TipoAntiguedadXLSX   = "antiguedad_xlsx"
)

const (
	EstadoPendiente = "pendiente"
	EstadoGenerado  = "generado"
	EstadoError     = "error"
)

// renderAttempts is the number of in-process attempts per job.
const renderAttempts = 3

// errNoReintentable marks failures that another attempt cannot fix.
var errNoReintentable = errors.New("no reintentable")

func noReintentable(err error) error {
	return fmt.Errorf("%w: %w", errNoReintentable, err)
}

// DocumentoJobPayload is the job envelope sent to QueueDocumentos.
type DocumentoJobPayload struct {
	DocumentoID string `json:"documento_id"`
}

// LectorMovimientos reads stored ledger rows in import order.
type LectorMovimientos interface {
	ListAll(ctx context.Context) ([]model.MovimientoTicket, error)
	ListByTicket(ctx context.Context, ticketID string) ([]model.MovimientoTicket, error)
	ListByCliente(ctx context.Context, codigoCliente string) ([]model.MovimientoTicket, error)
}

// Documentos is the persistence the worker and the retry cron need.
type Documentos interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Documento, error)
	Update(ctx context.Context, d *model.Documento) error
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Documento, error)
}

// EncoladorEmail queues an email job. *Dispatcher satisfies it.
type EncoladorEmail interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// DocumentoWorker renders documents and records the outcome on the
// documentos row.
type DocumentoWorker struct {
	docs        Documentos
	movs        LectorMovimientos
	emails      EncoladorEmail
	rdb         Cola
	storagePath string
	empresa     string
	attempts    int
	ahora       func() time.Time
}

func NewDocumentoWorker(
	docs Documentos,
	movs LectorMovimientos,
	emails EncoladorEmail,
	rdb Cola,
	storagePath string,
	empresa string,
) *DocumentoWorker {
	return &DocumentoWorker{
		docs:        docs,
		movs:        movs,
		emails:      emails,
		rdb:         rdb,
		storagePath: storagePath,
		empresa:     empresa,
		attempts:    renderAttempts,
		ahora:       time.Now,
	}
}

// Process handles a single documento job:
//  1. Load the documentos row
//  2. Render the file with in-process backoff (1s, 2s)
//  3. Mark it generado, or error with a scheduled retry
//  4. Optionally enqueue the email job
func (w *DocumentoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload DocumentoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("documento_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.DocumentoID)
	if err != nil {
		log.Error().Str("documento_id", payload.DocumentoID).Msg("documento_worker: invalid documento_id")
		return
	}

	doc, err := w.docs.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("documento_id", payload.DocumentoID).Msg("documento_worker: documento not found")
		return
	}
	if doc.Estado == EstadoGenerado {
		log.Debug().Str("documento_id", payload.DocumentoID).Msg("documento_worker: already generated, skipping")
		return
	}

	var ruta string
	err = withRetry(ctx, w.attempts, func(attempt int) error {
		r, err := w.renderizar(ctx, doc)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("documento_id", payload.DocumentoID).
				Msg("documento_worker: render attempt failed")
			return err
		}
		ruta = r
		return nil
	})
	if err != nil {
		w.registrarFallo(ctx, doc, raw, err)
		return
	}

	doc.Estado = EstadoGenerado
	doc.Ruta = &ruta
	doc.LastError = nil
	doc.NextRetryAt = nil
	if err := w.docs.Update(ctx, doc); err != nil {
		log.Error().Err(err).Str("documento_id", payload.DocumentoID).Msg("documento_worker: failed to update documento")
		return
	}
	log.Info().Str("documento_id", payload.DocumentoID).Str("tipo", doc.Tipo).Str("ruta", ruta).Msg("documento_worker: documento generado")

	if doc.EmailDestino != nil && *doc.EmailDestino != "" {
		emailJob := EmailJobPayload{
			DocumentoID: doc.ID.String(),
			ToEmail:     *doc.EmailDestino,
			Subject:     fmt.Sprintf("%s: %s", w.empresa, TituloDocumento(doc.Tipo)),
			Body:        "Adjuntamos el documento solicitado.",
			Adjunto:     ruta,
		}
		if err := w.emails.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("documento_id", payload.DocumentoID).Msg("documento_worker: failed to enqueue email")
		}
	}
}

// registrarFallo marks the row as failed and either schedules the next
// attempt or, once MaxReintentos is reached, parks the job in the DLQ.
func (w *DocumentoWorker) registrarFallo(ctx context.Context, doc *model.Documento, raw json.RawMessage, cause error) {
	msg := cause.Error()
	doc.Estado = EstadoError
	doc.LastError = &msg
	doc.RetryCount++

	switch {
	case errors.Is(cause, errNoReintentable):
		doc.NextRetryAt = nil
		log.Error().Err(cause).Str("documento_id", doc.ID.String()).Msg("documento_worker: render failed permanently")
	case doc.RetryCount >= MaxReintentos:
		doc.NextRetryAt = nil
		SendToDLQ(ctx, w.rdb, QueueDocumentos, JobDocumento, raw,
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxReintentos, msg), doc.RetryCount)
	default:
		next := w.ahora().Add(computeRetryBackoff(doc.RetryCount))
		doc.NextRetryAt = &next
		log.Warn().
			Str("documento_id", doc.ID.String()).
			Int("retry_count", doc.RetryCount).
			Time("next_retry_at", next).
			Msg("documento_worker: render failed, scheduled next attempt")
	}

	if err := w.docs.Update(ctx, doc); err != nil {
		log.Error().Err(err).Str("documento_id", doc.ID.String()).Msg("documento_worker: failed to update documento")
	}
}

func (w *DocumentoWorker) renderizar(ctx context.Context, doc *model.Documento) (string, error) {
	var p dto.CrearDocumentoRequest
	if err := json.Unmarshal([]byte(doc.Parametros), &p); err != nil {
		return "", noReintentable(fmt.Errorf("parametros invalidos: %w", err))
	}
	nombre := doc.Tipo + "_" + doc.ID.String()

	switch doc.Tipo {
	case TipoProforma:
		tickets, err := w.tickets(ctx, p.TicketID, "")
		if err != nil {
			return "", err
		}
		return infra.GenerarProformaPDF(w.storagePath, nombre, w.empresa, tickets[0])

	case TipoEstadoDeuda:
		tickets, err := w.tickets(ctx, p.TicketID, p.CodigoCliente)
		if err != nil {
			return "", err
		}
		return infra.GenerarEstadoDeudaPDF(w.storagePath, nombre, w.empresa, tickets)

	case TipoRefinanciacion:
		if p.Refinanciacion == nil {
			return "", noReintentable(errors.New("faltan los parametros de refinanciacion"))
		}
		return w.refinanciacion(nombre, *p.Refinanciacion)

	case TipoAmortizacionXLSX:
		if p.Amortizacion == nil {
			return "", noReintentable(errors.New("faltan los parametros de amortizacion"))
		}
		params := p.Amortizacion.Parametros()
		tasas, err := finanzas.CalcularTasas(params.TNA, params.Periodicidad)
		if err != nil {
			return "", noReintentable(err)
		}
		filas, err := finanzas.CalcularAmortizacion(params)
		if err != nil {
			return "", noReintentable(err)
		}
		return infra.GenerarAmortizacionXLSX(w.storagePath, nombre, params, tasas, filas)

	case TipoAntiguedadXLSX:
		return w.antiguedad(ctx, nombre, p.Antiguedad)
	}
	return "", noReintentable(fmt.Errorf("tipo de documento desconocido: %s", doc.Tipo))
}

// tickets rebuilds the tickets of one client, or of one ticket when
// cliente is empty.
func (w *DocumentoWorker) tickets(ctx context.Context, ticketID, cliente string) ([]finanzas.Ticket, error) {
	var rows []model.MovimientoTicket
	var err error
	if cliente != "" {
		rows, err = w.movs.ListByCliente(ctx, cliente)
	} else {
		rows, err = w.movs.ListByTicket(ctx, ticketID)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, noReintentable(fmt.Errorf("sin movimientos para ticket=%q cliente=%q", ticketID, cliente))
	}
	return finanzas.ReconstruirOrdenado(model.MovimientosFinanzas(rows)), nil
}

func (w *DocumentoWorker) refinanciacion(nombre string, req dto.PropuestasRequest) (string, error) {
	deuda, err := finanzas.DeudaEnPesos(req.DeudaPesos, req.DeudaUSD, req.TipoCambio)
	if err != nil {
		return "", noReintentable(err)
	}
	primero, err := time.Parse(time.DateOnly, req.PrimerVencimiento)
	if err != nil {
		return "", noReintentable(fmt.Errorf("primer_vencimiento: %w", err))
	}
	propuestas, err := finanzas.ProponerAlternativas(deuda, req.OpcionesFinanzas(), primero, finanzas.AnclaVencimiento(req.Ancla))
	if err != nil {
		return "", noReintentable(err)
	}
	datos := infra.DatosRefinanciacion{
		TicketID:   req.TicketID,
		DeudaUSD:   req.DeudaUSD,
		TipoCambio: req.TipoCambio,
		DeudaPesos: deuda,
	}
	return infra.GenerarRefinanciacionPDF(w.storagePath, nombre, w.empresa, datos, propuestas)
}

func (w *DocumentoWorker) antiguedad(ctx context.Context, nombre string, f *dto.AntiguedadFilter) (string, error) {
	umbral := decimal.Zero
	hoy := finanzas.Fecha(w.ahora())
	sinPagos := false
	if f != nil {
		sinPagos = f.SinPagos
		if f.Umbral != "" {
			u, err := decimal.NewFromString(f.Umbral)
			if err != nil {
				return "", noReintentable(fmt.Errorf("umbral: %w", err))
			}
			umbral = u
		}
		if f.Fecha != "" {
			t, err := time.Parse(time.DateOnly, f.Fecha)
			if err != nil {
				return "", noReintentable(fmt.Errorf("fecha: %w", err))
			}
			hoy = t
		}
	}

	rows, err := w.movs.ListAll(ctx)
	if err != nil {
		return "", err
	}
	tickets := finanzas.ReconstruirOrdenado(model.MovimientosFinanzas(rows))
	var items []finanzas.ItemAntiguedad
	if sinPagos {
		items = finanzas.ClasificarSinPagos(tickets, hoy, umbral)
	} else {
		items = finanzas.ClasificarDeuda(tickets, hoy, umbral)
	}
	return infra.GenerarAntiguedadXLSX(w.storagePath, nombre, hoy, items)
}

// TituloDocumento is the human-readable name of a document type.
func TituloDocumento(tipo string) string {
	switch tipo {
	case TipoProforma:
		return "Proforma"
	case TipoEstadoDeuda:
		return "Estado de deuda"
	case TipoRefinanciacion:
		return "Propuesta de refinanciacion"
	case TipoAmortizacionXLSX:
		return "Cuadro de amortizacion"
	case TipoAntiguedadXLSX:
		return "Antiguedad de deuda"
	}
	return tipo
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// A non-retryable error stops the loop at once.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			if errors.Is(err, errNoReintentable) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}
