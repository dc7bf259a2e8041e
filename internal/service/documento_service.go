package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/model"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
	"github.com/caludio70/boletosventa-sub000/internal/worker"
)

// ErrDocumentoNoDisponible is returned when the file of a document that is
// not generado is requested.
var ErrDocumentoNoDisponible = errors.New("el documento todavia no esta disponible")

type DocumentoService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearDocumentoRequest) (*dto.DocumentoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error)
	// RutaArchivo returns the path of the generated file.
	RutaArchivo(ctx context.Context, id uuid.UUID) (string, error)
}

type documentoService struct {
	repo           repository.DocumentoRepository
	movs           repository.MovimientoRepository
	refinanciacion RefinanciacionService
	dispatcher     worker.EncoladorDocumentos
	umbral         decimal.Decimal
	ahora          func() time.Time
}

func NewDocumentoService(
	repo repository.DocumentoRepository,
	movs repository.MovimientoRepository,
	refinanciacion RefinanciacionService,
	dispatcher worker.EncoladorDocumentos,
	umbralDeuda decimal.Decimal,
) DocumentoService {
	return &documentoService{
		repo:           repo,
		movs:           movs,
		refinanciacion: refinanciacion,
		dispatcher:     dispatcher,
		umbral:         umbralDeuda,
		ahora:          time.Now,
	}
}

// Crear validates and resolves the parameters, stores a pendiente row and
// queues the render job.
func (s *documentoService) Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearDocumentoRequest) (*dto.DocumentoResponse, error) {
	req, referencia, err := s.resolver(ctx, req)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	doc := &model.Documento{
		Tipo:       req.Tipo,
		Parametros: string(params),
		Estado:     worker.EstadoPendiente,
		UsuarioID:  usuarioID,
	}
	if referencia != "" {
		doc.Referencia = &referencia
	}
	if req.Email != nil && *req.Email != "" {
		doc.EmailDestino = req.Email
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("crear documento: %w", err)
	}

	if err := s.dispatcher.EnqueueDocumento(ctx, worker.DocumentoJobPayload{DocumentoID: doc.ID.String()}); err != nil {
		// left for the retry cron
		log.Warn().Err(err).Str("documento_id", doc.ID.String()).Msg("documento: no se pudo encolar, queda para reintento")
		msg := "no se pudo encolar: " + err.Error()
		now := s.ahora()
		doc.Estado = worker.EstadoError
		doc.LastError = &msg
		doc.NextRetryAt = &now
		if uerr := s.repo.Update(ctx, doc); uerr != nil {
			log.Error().Err(uerr).Str("documento_id", doc.ID.String()).Msg("documento: failed to update")
		}
	}
	return documentoToResponse(doc), nil
}

func (s *documentoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("documento %s: %w", id, ErrNoEncontrado)
	}
	return documentoToResponse(doc), nil
}

func (s *documentoService) RutaArchivo(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("documento %s: %w", id, ErrNoEncontrado)
	}
	if doc.Estado != worker.EstadoGenerado || doc.Ruta == nil || *doc.Ruta == "" {
		return "", fmt.Errorf("%w: estado '%s'", ErrDocumentoNoDisponible, doc.Estado)
	}
	return *doc.Ruta, nil
}

// resolver checks the parameter block required by the document type and
// fills every default, returning the reference (ticket or client) the
// document is about.
func (s *documentoService) resolver(ctx context.Context, req dto.CrearDocumentoRequest) (dto.CrearDocumentoRequest, string, error) {
	req.TicketID = strings.TrimSpace(req.TicketID)
	req.CodigoCliente = strings.TrimSpace(req.CodigoCliente)

	switch req.Tipo {
	case worker.TipoProforma:
		if req.TicketID == "" {
			return req, "", fmt.Errorf("%w: la proforma requiere ticket_id", finanzas.ErrEntradaInvalida)
		}
		if err := s.existeTicket(ctx, req.TicketID); err != nil {
			return req, "", err
		}
		return req, req.TicketID, nil

	case worker.TipoEstadoDeuda:
		if req.CodigoCliente != "" {
			rows, err := s.movs.ListByCliente(ctx, req.CodigoCliente)
			if err != nil {
				return req, "", fmt.Errorf("leer movimientos: %w", err)
			}
			if len(rows) == 0 {
				return req, "", fmt.Errorf("cliente %s: %w", req.CodigoCliente, ErrNoEncontrado)
			}
			return req, req.CodigoCliente, nil
		}
		if req.TicketID == "" {
			return req, "", fmt.Errorf("%w: el estado de deuda requiere ticket_id o codigo_cliente", finanzas.ErrEntradaInvalida)
		}
		if err := s.existeTicket(ctx, req.TicketID); err != nil {
			return req, "", err
		}
		return req, req.TicketID, nil

	case worker.TipoRefinanciacion:
		if req.Refinanciacion == nil {
			return req, "", fmt.Errorf("%w: faltan los parametros de refinanciacion", finanzas.ErrEntradaInvalida)
		}
		r, err := s.refinanciacion.Resolver(ctx, *req.Refinanciacion)
		if err != nil {
			return req, "", err
		}
		if err := validarRefinanciacion(r); err != nil {
			return req, "", err
		}
		req.Refinanciacion = &r
		return req, r.TicketID, nil

	case worker.TipoAmortizacionXLSX:
		if req.Amortizacion == nil {
			return req, "", fmt.Errorf("%w: faltan los parametros de amortizacion", finanzas.ErrEntradaInvalida)
		}
		if _, err := finanzas.CalcularAmortizacion(req.Amortizacion.Parametros()); err != nil {
			return req, "", err
		}
		return req, "", nil

	case worker.TipoAntiguedadXLSX:
		f := dto.AntiguedadFilter{}
		if req.Antiguedad != nil {
			f = *req.Antiguedad
		}
		if f.Umbral == "" {
			f.Umbral = s.umbral.String()
		} else if u, err := decimal.NewFromString(f.Umbral); err != nil || u.IsNegative() {
			return req, "", fmt.Errorf("%w: umbral invalido %q", finanzas.ErrEntradaInvalida, f.Umbral)
		}
		if f.Fecha == "" {
			f.Fecha = finanzas.Fecha(s.ahora()).Format(time.DateOnly)
		} else if _, err := parseFecha("fecha", f.Fecha); err != nil {
			return req, "", err
		}
		req.Antiguedad = &f
		return req, "", nil
	}
	return req, "", fmt.Errorf("%w: tipo de documento desconocido %q", finanzas.ErrEntradaInvalida, req.Tipo)
}

func (s *documentoService) existeTicket(ctx context.Context, id string) error {
	rows, err := s.movs.ListByTicket(ctx, id)
	if err != nil {
		return fmt.Errorf("leer movimientos: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("ticket %s: %w", id, ErrNoEncontrado)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func documentoToResponse(d *model.Documento) *dto.DocumentoResponse {
	resp := &dto.DocumentoResponse{
		ID:         d.ID.String(),
		Tipo:       d.Tipo,
		Referencia: d.Referencia,
		Estado:     d.Estado,
		Error:      d.LastError,
		Intentos:   d.RetryCount,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
	if d.Estado == worker.EstadoGenerado && d.Ruta != nil && *d.Ruta != "" {
		u := "/v1/documentos/" + d.ID.String() + "/descarga"
		resp.Descarga = &u
	}
	return resp
}
