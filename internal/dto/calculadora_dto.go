package dto

import (
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TasasRequest struct {
	TNA          decimal.Decimal `json:"tna"          validate:"gte=0,lte=100000"`
	Periodicidad string          `json:"periodicidad" validate:"required,oneof=mensual bimestral trimestral semestral anual"`
}

type AmortizacionRequest struct {
	Capital          decimal.Decimal `json:"capital"           validate:"gt=0"`
	Periodos         int             `json:"periodos"          validate:"required,min=1,max=600"`
	TNA              decimal.Decimal `json:"tna"               validate:"gte=0,lte=100000"`
	Periodicidad     string          `json:"periodicidad"      validate:"required,oneof=mensual bimestral trimestral semestral anual"`
	IncluirImpuesto  bool            `json:"incluir_impuesto"`
	AlicuotaImpuesto decimal.Decimal `json:"alicuota_impuesto" validate:"gte=0,lte=100"`
}

type InteresesRequest struct {
	Capital decimal.Decimal `json:"capital" validate:"gt=0"`
	Desde   string          `json:"desde"   validate:"required"` // YYYY-MM-DD
	Hasta   string          `json:"hasta"   validate:"required"` // YYYY-MM-DD
}

type InflacionRequest struct {
	Desde string           `json:"desde" validate:"required"` // YYYY-MM
	Hasta string           `json:"hasta" validate:"required"` // YYYY-MM
	Monto *decimal.Decimal `json:"monto"`
}

// Parametros converts the request into the engine input.
func (r AmortizacionRequest) Parametros() finanzas.ParametrosAmortizacion {
	return finanzas.ParametrosAmortizacion{
		Capital:          r.Capital,
		Periodos:         r.Periodos,
		TNA:              r.TNA,
		Periodicidad:     finanzas.Periodicidad(r.Periodicidad),
		IncluirImpuesto:  r.IncluirImpuesto,
		AlicuotaImpuesto: r.AlicuotaImpuesto,
	}
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TasasResponse struct {
	TNA             decimal.Decimal `json:"tna"`
	TEM             decimal.Decimal `json:"tem"`
	TEA             decimal.Decimal `json:"tea"`
	TasaPeriodica   decimal.Decimal `json:"tasa_periodica"`
	PeriodosPorAnio int             `json:"periodos_por_anio"`
}

type FilaAmortizacionResponse struct {
	Periodo      int             `json:"periodo"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial"`
	Cuota        decimal.Decimal `json:"cuota"`
	Capital      decimal.Decimal `json:"capital"`
	Interes      decimal.Decimal `json:"interes"`
	Impuesto     decimal.Decimal `json:"impuesto"`
	CuotaTotal   decimal.Decimal `json:"cuota_total"`
	SaldoFinal   decimal.Decimal `json:"saldo_final"`
}

type TotalesAmortizacionResponse struct {
	Capital    decimal.Decimal `json:"capital"`
	Interes    decimal.Decimal `json:"interes"`
	Impuesto   decimal.Decimal `json:"impuesto"`
	TotalPagar decimal.Decimal `json:"total_pagar"`
}

type AmortizacionResponse struct {
	Tasas   TasasResponse               `json:"tasas"`
	Filas   []FilaAmortizacionResponse  `json:"filas"`
	Totales TotalesAmortizacionResponse `json:"totales"`
}

type SubperiodoResponse struct {
	Desde                  string          `json:"desde"`
	Hasta                  string          `json:"hasta"`
	Dias                   int             `json:"dias"`
	TasaDiariaResarcitorio decimal.Decimal `json:"tasa_diaria_resarcitorio"`
	TasaDiariaPunitorio    decimal.Decimal `json:"tasa_diaria_punitorio"`
	InteresResarcitorio    decimal.Decimal `json:"interes_resarcitorio"`
	InteresPunitorio       decimal.Decimal `json:"interes_punitorio"`
}

type InteresesResponse struct {
	Capital           decimal.Decimal      `json:"capital"`
	Desde             string               `json:"desde"`
	Hasta             string               `json:"hasta"`
	Dias              int                  `json:"dias"`
	DiasSinTasa       int                  `json:"dias_sin_tasa"`
	TotalResarcitorio decimal.Decimal      `json:"total_resarcitorio"`
	TotalPunitorio    decimal.Decimal      `json:"total_punitorio"`
	Total             decimal.Decimal      `json:"total"`
	Subperiodos       []SubperiodoResponse `json:"subperiodos"`
}

type InflacionMesResponse struct {
	Periodo      string          `json:"periodo"`
	Tasa         decimal.Decimal `json:"tasa"`
	AcumuladoPct decimal.Decimal `json:"acumulado_pct"`
}

type InflacionResponse struct {
	Desde              string                 `json:"desde"`
	Hasta              string                 `json:"hasta"`
	MesesComputados    int                    `json:"meses_computados"`
	MesesFaltantes     []string               `json:"meses_faltantes"`
	Factor             decimal.Decimal        `json:"factor"`
	TotalPct           decimal.Decimal        `json:"total_pct"`
	PromedioMensualPct decimal.Decimal        `json:"promedio_mensual_pct"`
	AnualizadaPct      decimal.Decimal        `json:"anualizada_pct"`
	Meses              []InflacionMesResponse `json:"meses"`
	Monto              *decimal.Decimal       `json:"monto,omitempty"`
	MontoActualizado   *decimal.Decimal       `json:"monto_actualizado,omitempty"`
}

type TasaVigenteResponse struct {
	Desde               string          `json:"desde"`
	Hasta               *string         `json:"hasta"` // nil = vigente
	ResarcitorioMensual decimal.Decimal `json:"resarcitorio_mensual"`
	ResarcitorioDiario  decimal.Decimal `json:"resarcitorio_diario"`
	PunitorioMensual    decimal.Decimal `json:"punitorio_mensual"`
	PunitorioDiario     decimal.Decimal `json:"punitorio_diario"`
}
