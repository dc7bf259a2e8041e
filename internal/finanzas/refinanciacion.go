package finanzas

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AnclaVencimiento selects where the preferred day-of-month for due dates
// comes from.
type AnclaVencimiento string

const (
	// AnclaPrimerVencimiento takes the day from the first due date after it
	// was moved to a business day. A first date on a Sunday the 1st anchors
	// every later installment to the 29th/30th of the month.
	AnclaPrimerVencimiento AnclaVencimiento = "primer_vencimiento"
	// AnclaDiaOriginal keeps the day-of-month the user asked for.
	AnclaDiaOriginal AnclaVencimiento = "dia_original"
)

// CuotaRefinanciacion is one installment of a refinancing plan.
type CuotaRefinanciacion struct {
	Numero        int
	Vencimiento   time.Time
	Capital       decimal.Decimal
	Interes       decimal.Decimal
	Importe       decimal.Decimal
	SaldoRestante decimal.Decimal
}

// PropuestaRefinanciacion is a candidate repayment plan for an outstanding
// balance in pesos, using simple (flat) interest.
type PropuestaRefinanciacion struct {
	Cuotas         int
	TasaMensual    decimal.Decimal
	Coeficiente    decimal.Decimal
	CapitalPesos   decimal.Decimal
	TotalIntereses decimal.Decimal
	TotalAPagar    decimal.Decimal
	ImporteCuota   decimal.Decimal
	Plan           []CuotaRefinanciacion
}

// OpcionRefinanciacion is one (installments, monthly rate) pair to quote.
type OpcionRefinanciacion struct {
	Cuotas      int
	TasaMensual decimal.Decimal
}

// ProponerRefinanciacion quotes deuda in cuotas installments at tasaMensual
// percent per month of simple interest:
//
//	coeficiente = 1 + tasa/100 × cuotas
//	total       = deuda × coeficiente
//
// Principal and interest are split evenly across installments. Due dates
// start at primerVencimiento moved back to a business day and advance one
// month each, clamped to month end and moved back to a business day again.
func ProponerRefinanciacion(deuda decimal.Decimal, cuotas int, tasaMensual decimal.Decimal, primerVencimiento time.Time, ancla AnclaVencimiento) (*PropuestaRefinanciacion, error) {
	if !deuda.IsPositive() {
		return nil, fmt.Errorf("%w: la deuda debe ser mayor a cero", ErrEntradaInvalida)
	}
	if cuotas <= 0 {
		return nil, fmt.Errorf("%w: la cantidad de cuotas debe ser mayor a cero", ErrEntradaInvalida)
	}
	if tasaMensual.IsNegative() {
		return nil, fmt.Errorf("%w: la tasa mensual no puede ser negativa", ErrEntradaInvalida)
	}
	if primerVencimiento.IsZero() {
		return nil, fmt.Errorf("%w: falta la fecha del primer vencimiento", ErrEntradaInvalida)
	}

	n := decimal.NewFromInt(int64(cuotas))
	coef := uno.Add(tasaMensual.Div(cien).Mul(n))
	total := deuda.Mul(coef)
	intereses := total.Sub(deuda)
	p := &PropuestaRefinanciacion{
		Cuotas:         cuotas,
		TasaMensual:    tasaMensual,
		Coeficiente:    coef,
		CapitalPesos:   deuda,
		TotalIntereses: intereses,
		TotalAPagar:    total,
		ImporteCuota:   total.Div(n),
		Plan:           make([]CuotaRefinanciacion, 0, cuotas),
	}

	capitalCuota := deuda.Div(n)
	interesCuota := intereses.Div(n)
	for i, venc := range Vencimientos(primerVencimiento, cuotas, ancla) {
		num := i + 1
		p.Plan = append(p.Plan, CuotaRefinanciacion{
			Numero:        num,
			Vencimiento:   venc,
			Capital:       capitalCuota,
			Interes:       interesCuota,
			Importe:       p.ImporteCuota,
			SaldoRestante: maxCero(Centavos(deuda.Sub(capitalCuota.Mul(decimal.NewFromInt(int64(num)))))),
		})
	}
	return p, nil
}

// ProponerAlternativas quotes every option against the same debt and first
// due date. An empty option list is invalid input.
func ProponerAlternativas(deuda decimal.Decimal, opciones []OpcionRefinanciacion, primerVencimiento time.Time, ancla AnclaVencimiento) ([]PropuestaRefinanciacion, error) {
	if len(opciones) == 0 {
		return nil, fmt.Errorf("%w: no se indicaron opciones de refinanciacion", ErrEntradaInvalida)
	}
	out := make([]PropuestaRefinanciacion, 0, len(opciones))
	for _, o := range opciones {
		p, err := ProponerRefinanciacion(deuda, o.Cuotas, o.TasaMensual, primerVencimiento, ancla)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// Vencimientos generates n business-day due dates starting at primero.
func Vencimientos(primero time.Time, n int, ancla AnclaVencimiento) []time.Time {
	base := Fecha(primero)
	if ancla != AnclaDiaOriginal {
		base = DiaHabilAnterior(base)
	}
	dia := base.Day()

	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, DiaHabilAnterior(SumarMeses(base, i, dia)))
	}
	return out
}

// DeudaEnPesos resolves the amount to refinance. A positive pesos amount
// wins; otherwise usd × tipoCambio is used. The result is rounded to cents.
func DeudaEnPesos(pesos, usd, tipoCambio *decimal.Decimal) (decimal.Decimal, error) {
	if pesos != nil && pesos.IsPositive() {
		return Centavos(*pesos), nil
	}
	if usd == nil || !usd.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: indique la deuda en pesos o en dolares", ErrEntradaInvalida)
	}
	if tipoCambio == nil || !tipoCambio.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: falta el tipo de cambio", ErrEntradaInvalida)
	}
	return Centavos(usd.Mul(*tipoCambio)), nil
}
