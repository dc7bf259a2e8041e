package service

import (
	"context"
	"fmt"
	"time"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/referencia"
)

// CalculadoraService exposes the stateless calculators. Reference tables
// come from the catalog loaded at startup.
type CalculadoraService interface {
	Tasas(ctx context.Context, req dto.TasasRequest) (*dto.TasasResponse, error)
	Amortizacion(ctx context.Context, req dto.AmortizacionRequest) (*dto.AmortizacionResponse, error)
	Intereses(ctx context.Context, req dto.InteresesRequest) (*dto.InteresesResponse, error)
	Inflacion(ctx context.Context, req dto.InflacionRequest) (*dto.InflacionResponse, error)
	TasasVigentes(ctx context.Context) []dto.TasaVigenteResponse
}

type calculadoraService struct {
	catalogo *referencia.Catalogo
}

func NewCalculadoraService(catalogo *referencia.Catalogo) CalculadoraService {
	return &calculadoraService{catalogo: catalogo}
}

func (s *calculadoraService) Tasas(_ context.Context, req dto.TasasRequest) (*dto.TasasResponse, error) {
	t, err := finanzas.CalcularTasas(req.TNA, finanzas.Periodicidad(req.Periodicidad))
	if err != nil {
		return nil, err
	}
	resp := tasasToResponse(t)
	return &resp, nil
}

func (s *calculadoraService) Amortizacion(_ context.Context, req dto.AmortizacionRequest) (*dto.AmortizacionResponse, error) {
	p := req.Parametros()
	tasas, err := finanzas.CalcularTasas(p.TNA, p.Periodicidad)
	if err != nil {
		return nil, err
	}
	filas, err := finanzas.CalcularAmortizacion(p)
	if err != nil {
		return nil, err
	}
	tot := finanzas.Totalizar(filas)

	resp := &dto.AmortizacionResponse{
		Tasas: tasasToResponse(tasas),
		Filas: make([]dto.FilaAmortizacionResponse, len(filas)),
		Totales: dto.TotalesAmortizacionResponse{
			Capital:    tot.Capital,
			Interes:    tot.Interes,
			Impuesto:   tot.Impuesto,
			TotalPagar: tot.TotalPagar,
		},
	}
	for i, f := range filas {
		resp.Filas[i] = dto.FilaAmortizacionResponse{
			Periodo:      f.Periodo,
			SaldoInicial: f.SaldoInicial,
			Cuota:        f.Cuota,
			Capital:      f.Capital,
			Interes:      f.Interes,
			Impuesto:     f.Impuesto,
			CuotaTotal:   f.CuotaTotal,
			SaldoFinal:   f.SaldoFinal,
		}
	}
	return resp, nil
}

func (s *calculadoraService) Intereses(_ context.Context, req dto.InteresesRequest) (*dto.InteresesResponse, error) {
	desde, err := parseFecha("desde", req.Desde)
	if err != nil {
		return nil, err
	}
	hasta, err := parseFecha("hasta", req.Hasta)
	if err != nil {
		return nil, err
	}
	r, err := finanzas.CalcularIntereses(s.catalogo.Tasas, req.Capital, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.InteresesResponse{
		Capital:           r.Capital,
		Desde:             r.Desde.Format(time.DateOnly),
		Hasta:             r.Hasta.Format(time.DateOnly),
		Dias:              r.Dias,
		DiasSinTasa:       r.DiasSinTasa,
		TotalResarcitorio: r.TotalResarcitorio,
		TotalPunitorio:    r.TotalPunitorio,
		Total:             r.Total,
		Subperiodos:       make([]dto.SubperiodoResponse, len(r.Subperiodos)),
	}
	for i, sp := range r.Subperiodos {
		resp.Subperiodos[i] = dto.SubperiodoResponse{
			Desde:                  sp.Desde.Format(time.DateOnly),
			Hasta:                  sp.Hasta.Format(time.DateOnly),
			Dias:                   sp.Dias,
			TasaDiariaResarcitorio: sp.TasaDiariaResarcitorio,
			TasaDiariaPunitorio:    sp.TasaDiariaPunitorio,
			InteresResarcitorio:    sp.InteresResarcitorio,
			InteresPunitorio:       sp.InteresPunitorio,
		}
	}
	return resp, nil
}

func (s *calculadoraService) Inflacion(_ context.Context, req dto.InflacionRequest) (*dto.InflacionResponse, error) {
	desde, err := parsePeriodo("desde", req.Desde)
	if err != nil {
		return nil, err
	}
	hasta, err := parsePeriodo("hasta", req.Hasta)
	if err != nil {
		return nil, err
	}
	r, err := s.catalogo.Inflacion.Acumular(desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.InflacionResponse{
		Desde:              r.Desde.String(),
		Hasta:              r.Hasta.String(),
		MesesComputados:    r.MesesComputados,
		MesesFaltantes:     make([]string, len(r.MesesFaltantes)),
		Factor:             r.Factor.Round(6),
		TotalPct:           finanzas.Centavos(r.TotalPct),
		PromedioMensualPct: finanzas.Centavos(r.PromedioMensualPct),
		AnualizadaPct:      finanzas.Centavos(r.AnualizadaPct),
		Meses:              make([]dto.InflacionMesResponse, len(r.Meses)),
	}
	for i, p := range r.MesesFaltantes {
		resp.MesesFaltantes[i] = p.String()
	}
	for i, m := range r.Meses {
		resp.Meses[i] = dto.InflacionMesResponse{
			Periodo:      m.Periodo.String(),
			Tasa:         m.Tasa,
			AcumuladoPct: finanzas.Centavos(m.AcumuladoPct),
		}
	}
	if req.Monto != nil {
		if !req.Monto.IsPositive() {
			return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", finanzas.ErrEntradaInvalida)
		}
		monto := *req.Monto
		actualizado := finanzas.Centavos(r.Ajustar(monto))
		resp.Monto = &monto
		resp.MontoActualizado = &actualizado
	}
	return resp, nil
}

// TasasVigentes lists the statutory rate table, oldest entry first.
func (s *calculadoraService) TasasVigentes(_ context.Context) []dto.TasaVigenteResponse {
	entradas := s.catalogo.Tasas.Entradas()
	resp := make([]dto.TasaVigenteResponse, len(entradas))
	for i, e := range entradas {
		resp[i] = dto.TasaVigenteResponse{
			Desde:               e.Desde.Format(time.DateOnly),
			ResarcitorioMensual: e.ResarcitorioMensual,
			ResarcitorioDiario:  e.ResarcitorioDiario,
			PunitorioMensual:    e.PunitorioMensual,
			PunitorioDiario:     e.PunitorioDiario,
		}
		if !e.Hasta.Equal(finanzas.FechaAbierta) {
			h := e.Hasta.Format(time.DateOnly)
			resp[i].Hasta = &h
		}
	}
	return resp
}

// ── helpers ──────────────────────────────────────────────────────────────────

func tasasToResponse(t finanzas.Tasas) dto.TasasResponse {
	return dto.TasasResponse{
		TNA:             t.TNA,
		TEM:             t.TEM.Round(4),
		TEA:             t.TEA.Round(4),
		TasaPeriodica:   t.TasaPeriodica.Round(4),
		PeriodosPorAnio: t.PeriodosPorAnio,
	}
}

func parseFecha(campo, valor string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, valor)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato AAAA-MM-DD", finanzas.ErrEntradaInvalida, campo)
	}
	return t, nil
}

func parsePeriodo(campo, valor string) (finanzas.Periodo, error) {
	t, err := time.Parse("2006-01", valor)
	if err != nil {
		return finanzas.Periodo{}, fmt.Errorf("%w: %s debe tener formato AAAA-MM", finanzas.ErrEntradaInvalida, campo)
	}
	return finanzas.Periodo{Anio: t.Year(), Mes: t.Month()}, nil
}
