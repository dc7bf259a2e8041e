package dto

import (
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpcionRefinanciacionRequest struct {
	Cuotas      int             `json:"cuotas"       validate:"required,min=1,max=120"`
	TasaMensual decimal.Decimal `json:"tasa_mensual" validate:"gte=0"`
}

// PropuestasRequest quotes a debt given in pesos, in USD with an explicit
// exchange rate, or in USD alone (the live rate is fetched).
type PropuestasRequest struct {
	DeudaPesos *decimal.Decimal `json:"deuda_pesos"`
	DeudaUSD   *decimal.Decimal `json:"deuda_usd"`
	TipoCambio *decimal.Decimal `json:"tipo_cambio"`
	// TicketID is informational, printed on the proposal PDF
	TicketID string `json:"ticket_id"`
	// PrimerVencimiento is YYYY-MM-DD
	PrimerVencimiento string                        `json:"primer_vencimiento" validate:"required"`
	Ancla             string                        `json:"ancla"              validate:"omitempty,oneof=primer_vencimiento dia_original"`
	Opciones          []OpcionRefinanciacionRequest `json:"opciones"           validate:"dive"`
}

// OpcionesFinanzas converts the requested options into planner input.
func (r PropuestasRequest) OpcionesFinanzas() []finanzas.OpcionRefinanciacion {
	out := make([]finanzas.OpcionRefinanciacion, len(r.Opciones))
	for i, o := range r.Opciones {
		out[i] = finanzas.OpcionRefinanciacion{Cuotas: o.Cuotas, TasaMensual: o.TasaMensual}
	}
	return out
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CuotaRefinanciacionResponse struct {
	Numero        int             `json:"numero"`
	Vencimiento   string          `json:"vencimiento"`
	Capital       decimal.Decimal `json:"capital"`
	Interes       decimal.Decimal `json:"interes"`
	Importe       decimal.Decimal `json:"importe"`
	SaldoRestante decimal.Decimal `json:"saldo_restante"`
}

type PropuestaResponse struct {
	Cuotas         int                           `json:"cuotas"`
	TasaMensual    decimal.Decimal               `json:"tasa_mensual"`
	Coeficiente    decimal.Decimal               `json:"coeficiente"`
	CapitalPesos   decimal.Decimal               `json:"capital_pesos"`
	TotalIntereses decimal.Decimal               `json:"total_intereses"`
	TotalAPagar    decimal.Decimal               `json:"total_a_pagar"`
	ImporteCuota   decimal.Decimal               `json:"importe_cuota"`
	Plan           []CuotaRefinanciacionResponse `json:"plan"`
}

type PropuestasResponse struct {
	DeudaPesos decimal.Decimal     `json:"deuda_pesos"`
	DeudaUSD   *decimal.Decimal    `json:"deuda_usd,omitempty"`
	TipoCambio *decimal.Decimal    `json:"tipo_cambio,omitempty"`
	Ancla      string              `json:"ancla"`
	Propuestas []PropuestaResponse `json:"propuestas"`
}
