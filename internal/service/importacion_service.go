package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/model"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
)

const (
	ModoReemplazar = "reemplazar"
	ModoAgregar    = "agregar"
)

type ImportacionService interface {
	// Importar loads an .xlsx export of the transaction sheet. In modo
	// reemplazar (the default) the stored rows are swapped for the new ones
	// in a single transaction; agregar appends them as a new batch.
	Importar(ctx context.Context, usuarioID *uuid.UUID, archivo, modo string, r io.Reader) (*dto.ImportacionResponse, error)
}

type importacionService struct {
	repo repository.MovimientoRepository
}

func NewImportacionService(repo repository.MovimientoRepository) ImportacionService {
	return &importacionService{repo: repo}
}

func (s *importacionService) Importar(ctx context.Context, usuarioID *uuid.UUID, archivo, modo string, r io.Reader) (*dto.ImportacionResponse, error) {
	if modo == "" {
		modo = ModoReemplazar
	}
	if modo != ModoReemplazar && modo != ModoAgregar {
		return nil, fmt.Errorf("%w: modo %q desconocido", finanzas.ErrEntradaInvalida, modo)
	}

	res, err := infra.LeerPlanilla(r)
	if err != nil {
		// unreadable files and sheets without a header are the caller's fault
		return nil, fmt.Errorf("%w: %v", finanzas.ErrEntradaInvalida, err)
	}
	if len(res.Movimientos) == 0 {
		return nil, fmt.Errorf("%w: la planilla no contiene movimientos", finanzas.ErrEntradaInvalida)
	}

	lote := &model.LoteImportacion{
		ID:            uuid.New(),
		NombreArchivo: archivo,
		Modo:          modo,
		Filas:         len(res.Movimientos),
		Omitidas:      res.Omitidas,
		UsuarioID:     usuarioID,
	}
	movs := make([]model.MovimientoTicket, len(res.Movimientos))
	tickets := make(map[string]struct{})
	for i, m := range res.Movimientos {
		movs[i] = model.NuevoMovimientoTicket(lote.ID, i, m)
		tickets[m.TicketID] = struct{}{}
	}

	if modo == ModoAgregar {
		err = s.repo.Agregar(ctx, lote, movs)
	} else {
		err = s.repo.Reemplazar(ctx, lote, movs)
	}
	if err != nil {
		return nil, fmt.Errorf("guardar movimientos: %w", err)
	}

	log.Info().
		Str("lote_id", lote.ID.String()).
		Str("archivo", archivo).
		Str("hoja", res.Hoja).
		Str("modo", modo).
		Int("filas", lote.Filas).
		Int("omitidas", lote.Omitidas).
		Msg("importacion: planilla cargada")

	advertencias := res.Advertencias
	if advertencias == nil {
		advertencias = []string{}
	}
	return &dto.ImportacionResponse{
		LoteID:       lote.ID.String(),
		Archivo:      archivo,
		Modo:         modo,
		Filas:        lote.Filas,
		Omitidas:     lote.Omitidas,
		Tickets:      len(tickets),
		Advertencias: advertencias,
	}, nil
}
