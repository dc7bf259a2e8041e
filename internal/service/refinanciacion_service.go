package service

import (
	"context"
	"fmt"
	"time"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
)

type RefinanciacionService interface {
	Proponer(ctx context.Context, req dto.PropuestasRequest) (*dto.PropuestasResponse, error)
	// Resolver fills the exchange rate and due-date anchor so the request
	// can be quoted again later with the same result.
	Resolver(ctx context.Context, req dto.PropuestasRequest) (dto.PropuestasRequest, error)
}

type refinanciacionService struct {
	cotizacion   CotizacionService
	anclaDefecto finanzas.AnclaVencimiento
}

func NewRefinanciacionService(cotizacion CotizacionService, anclaDefecto string) RefinanciacionService {
	ancla := finanzas.AnclaVencimiento(anclaDefecto)
	if ancla != finanzas.AnclaDiaOriginal {
		ancla = finanzas.AnclaPrimerVencimiento
	}
	return &refinanciacionService{cotizacion: cotizacion, anclaDefecto: ancla}
}

func (s *refinanciacionService) Resolver(ctx context.Context, req dto.PropuestasRequest) (dto.PropuestasRequest, error) {
	if req.Ancla == "" {
		req.Ancla = string(s.anclaDefecto)
	}
	sinPesos := req.DeudaPesos == nil || !req.DeudaPesos.IsPositive()
	sinTipoCambio := req.TipoCambio == nil || !req.TipoCambio.IsPositive()
	if sinPesos && req.DeudaUSD != nil && req.DeudaUSD.IsPositive() && sinTipoCambio {
		tc, err := s.cotizacion.TipoCambioVenta(ctx)
		if err != nil {
			return req, err
		}
		req.TipoCambio = &tc
	}
	return req, nil
}

func (s *refinanciacionService) Proponer(ctx context.Context, req dto.PropuestasRequest) (*dto.PropuestasResponse, error) {
	req, err := s.Resolver(ctx, req)
	if err != nil {
		return nil, err
	}
	deuda, err := finanzas.DeudaEnPesos(req.DeudaPesos, req.DeudaUSD, req.TipoCambio)
	if err != nil {
		return nil, err
	}
	primero, err := parseFecha("primer_vencimiento", req.PrimerVencimiento)
	if err != nil {
		return nil, err
	}
	propuestas, err := finanzas.ProponerAlternativas(deuda, req.OpcionesFinanzas(), primero, finanzas.AnclaVencimiento(req.Ancla))
	if err != nil {
		return nil, err
	}

	resp := &dto.PropuestasResponse{
		DeudaPesos: deuda,
		Ancla:      req.Ancla,
		Propuestas: make([]dto.PropuestaResponse, len(propuestas)),
	}
	if req.DeudaPesos == nil || !req.DeudaPesos.IsPositive() {
		resp.DeudaUSD = req.DeudaUSD
		resp.TipoCambio = req.TipoCambio
	}
	for i, p := range propuestas {
		resp.Propuestas[i] = propuestaToResponse(p)
	}
	return resp, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func propuestaToResponse(p finanzas.PropuestaRefinanciacion) dto.PropuestaResponse {
	resp := dto.PropuestaResponse{
		Cuotas:         p.Cuotas,
		TasaMensual:    p.TasaMensual,
		Coeficiente:    p.Coeficiente,
		CapitalPesos:   p.CapitalPesos,
		TotalIntereses: finanzas.Centavos(p.TotalIntereses),
		TotalAPagar:    finanzas.Centavos(p.TotalAPagar),
		ImporteCuota:   finanzas.Centavos(p.ImporteCuota),
		Plan:           make([]dto.CuotaRefinanciacionResponse, len(p.Plan)),
	}
	for i, c := range p.Plan {
		resp.Plan[i] = dto.CuotaRefinanciacionResponse{
			Numero:        c.Numero,
			Vencimiento:   c.Vencimiento.Format(time.DateOnly),
			Capital:       finanzas.Centavos(c.Capital),
			Interes:       finanzas.Centavos(c.Interes),
			Importe:       finanzas.Centavos(c.Importe),
			SaldoRestante: c.SaldoRestante,
		}
	}
	return resp
}

// validarRefinanciacion checks a resolved request without keeping the result.
func validarRefinanciacion(req dto.PropuestasRequest) error {
	deuda, err := finanzas.DeudaEnPesos(req.DeudaPesos, req.DeudaUSD, req.TipoCambio)
	if err != nil {
		return err
	}
	primero, err := parseFecha("primer_vencimiento", req.PrimerVencimiento)
	if err != nil {
		return err
	}
	if _, err := finanzas.ProponerAlternativas(deuda, req.OpcionesFinanzas(), primero, finanzas.AnclaVencimiento(req.Ancla)); err != nil {
		return fmt.Errorf("refinanciacion: %w", err)
	}
	return nil
}
