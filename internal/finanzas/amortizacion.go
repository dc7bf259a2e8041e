package finanzas

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Periodicidad is the installment frequency of a loan.
type Periodicidad string

const (
	Mensual    Periodicidad = "mensual"
	Bimestral  Periodicidad = "bimestral"
	Trimestral Periodicidad = "trimestral"
	Semestral  Periodicidad = "semestral"
	Anual      Periodicidad = "anual"
)

var periodosPorAnio = map[Periodicidad]int{
	Mensual:    12,
	Bimestral:  6,
	Trimestral: 4,
	Semestral:  2,
	Anual:      1,
}

// PeriodosPorAnio returns the installments per year of p, or false when p is
// unknown.
func PeriodosPorAnio(p Periodicidad) (int, bool) {
	n, ok := periodosPorAnio[p]
	return n, ok
}

// Tasas holds the rate conversions for a nominal annual rate. All values
// are percentages.
type Tasas struct {
	TNA             decimal.Decimal
	TEM             decimal.Decimal
	TEA             decimal.Decimal
	TasaPeriodica   decimal.Decimal
	PeriodosPorAnio int
}

// CalcularTasas converts a nominal annual rate. TEM is always TNA/12 and
// TEA always compounds TEM monthly, whatever the installment periodicity;
// only TasaPeriodica depends on p.
func CalcularTasas(tna decimal.Decimal, p Periodicidad) (Tasas, error) {
	n, ok := PeriodosPorAnio(p)
	if !ok {
		return Tasas{}, fmt.Errorf("%w: periodicidad %q desconocida", ErrEntradaInvalida, p)
	}
	if tna.IsNegative() {
		return Tasas{}, fmt.Errorf("%w: la TNA no puede ser negativa", ErrEntradaInvalida)
	}
	tem := tna.Div(decimal.NewFromInt(12))
	tea, err := desdeFloat((math.Pow(1+tem.InexactFloat64()/100, 12)-1)*100, "la TEA")
	if err != nil {
		return Tasas{}, err
	}
	return Tasas{
		TNA:             tna,
		TEM:             tem,
		TEA:             tea,
		TasaPeriodica:   tna.Div(decimal.NewFromInt(int64(n))),
		PeriodosPorAnio: n,
	}, nil
}

// ParametrosAmortizacion describes a French-system loan.
type ParametrosAmortizacion struct {
	Capital          decimal.Decimal
	Periodos         int
	TNA              decimal.Decimal
	Periodicidad     Periodicidad
	IncluirImpuesto  bool
	AlicuotaImpuesto decimal.Decimal // percent applied over interest, e.g. 21 for IVA
}

// FilaAmortizacion is one period of a French-system schedule.
type FilaAmortizacion struct {
	Periodo      int
	SaldoInicial decimal.Decimal
	Cuota        decimal.Decimal
	Capital      decimal.Decimal
	Interes      decimal.Decimal
	Impuesto     decimal.Decimal
	CuotaTotal   decimal.Decimal
	SaldoFinal   decimal.Decimal
}

// CuotaFija returns the constant French-system payment for capital over n
// periods at periodic rate r (a fraction, not a percent). A zero rate
// degenerates to capital / n. The coefficient is r / (1 - (1+r)^-n), which
// tends to r for very long loans instead of overflowing.
func CuotaFija(capital decimal.Decimal, r float64, n int) (decimal.Decimal, error) {
	if r == 0 {
		return capital.DivRound(decimal.NewFromInt(int64(n)), precisionInterna), nil
	}
	coef, err := desdeFloat(r/(1-math.Pow(1+r, -float64(n))), "el coeficiente de la cuota")
	if err != nil {
		return decimal.Zero, err
	}
	return capital.Mul(coef).Round(precisionInterna), nil
}

// CalcularAmortizacion builds the fixed-payment schedule. The ending balance
// of each row is floored at zero to absorb rounding drift.
func CalcularAmortizacion(p ParametrosAmortizacion) ([]FilaAmortizacion, error) {
	if !p.Capital.IsPositive() {
		return nil, fmt.Errorf("%w: el capital debe ser mayor a cero", ErrEntradaInvalida)
	}
	if p.Periodos <= 0 {
		return nil, fmt.Errorf("%w: la cantidad de periodos debe ser mayor a cero", ErrEntradaInvalida)
	}
	if p.IncluirImpuesto && p.AlicuotaImpuesto.IsNegative() {
		return nil, fmt.Errorf("%w: la alicuota no puede ser negativa", ErrEntradaInvalida)
	}
	tasas, err := CalcularTasas(p.TNA, p.Periodicidad)
	if err != nil {
		return nil, err
	}

	r := tasas.TasaPeriodica.Div(cien)
	cuota, err := CuotaFija(p.Capital, r.InexactFloat64(), p.Periodos)
	if err != nil {
		return nil, err
	}

	filas := make([]FilaAmortizacion, 0, p.Periodos)
	saldo := p.Capital
	for i := 1; i <= p.Periodos; i++ {
		interes := saldo.Mul(r).Round(precisionInterna)
		capital := cuota.Sub(interes)
		impuesto := decimal.Zero
		if p.IncluirImpuesto {
			impuesto = interes.Mul(p.AlicuotaImpuesto).Div(cien).Round(precisionInterna)
		}
		final := maxCero(saldo.Sub(capital))
		filas = append(filas, FilaAmortizacion{
			Periodo:      i,
			SaldoInicial: saldo,
			Cuota:        cuota,
			Capital:      capital,
			Interes:      interes,
			Impuesto:     impuesto,
			CuotaTotal:   cuota.Add(impuesto),
			SaldoFinal:   final,
		})
		saldo = final
	}
	return filas, nil
}

// TotalesAmortizacion sums a schedule.
type TotalesAmortizacion struct {
	Capital    decimal.Decimal
	Interes    decimal.Decimal
	Impuesto   decimal.Decimal
	TotalPagar decimal.Decimal
}

// Totalizar sums principal, interest, tax and total paid over filas.
func Totalizar(filas []FilaAmortizacion) TotalesAmortizacion {
	t := TotalesAmortizacion{Capital: decimal.Zero, Interes: decimal.Zero, Impuesto: decimal.Zero, TotalPagar: decimal.Zero}
	for _, f := range filas {
		t.Capital = t.Capital.Add(f.Capital)
		t.Interes = t.Interes.Add(f.Interes)
		t.Impuesto = t.Impuesto.Add(f.Impuesto)
		t.TotalPagar = t.TotalPagar.Add(f.CuotaTotal)
	}
	return t
}
