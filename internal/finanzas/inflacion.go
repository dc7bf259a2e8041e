package finanzas

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Periodo is a calendar month.
type Periodo struct {
	Anio int
	Mes  time.Month
}

// Antes reports whether p is strictly earlier than o.
func (p Periodo) Antes(o Periodo) bool {
	if p.Anio != o.Anio {
		return p.Anio < o.Anio
	}
	return p.Mes < o.Mes
}

// Siguiente returns the month after p.
func (p Periodo) Siguiente() Periodo {
	if p.Mes == time.December {
		return Periodo{Anio: p.Anio + 1, Mes: time.January}
	}
	return Periodo{Anio: p.Anio, Mes: p.Mes + 1}
}

func (p Periodo) String() string {
	return fmt.Sprintf("%04d-%02d", p.Anio, int(p.Mes))
}

// IndiceInflacion maps months to their inflation percentage. It is
// read-only after construction.
type IndiceInflacion struct {
	meses map[Periodo]decimal.Decimal
}

// NuevoIndiceInflacion copies tasas into a new index.
func NuevoIndiceInflacion(tasas map[Periodo]decimal.Decimal) *IndiceInflacion {
	m := make(map[Periodo]decimal.Decimal, len(tasas))
	for k, v := range tasas {
		m[k] = v
	}
	return &IndiceInflacion{meses: m}
}

// Tasa returns the inflation percentage for p.
func (i *IndiceInflacion) Tasa(p Periodo) (decimal.Decimal, bool) {
	v, ok := i.meses[p]
	return v, ok
}

// Len returns the number of months in the index.
func (i *IndiceInflacion) Len() int { return len(i.meses) }

// InflacionMensual is one month of a compounding walk.
type InflacionMensual struct {
	Periodo      Periodo
	Tasa         decimal.Decimal
	AcumuladoPct decimal.Decimal
}

// ResultadoInflacion is the compounded inflation over a range of months.
type ResultadoInflacion struct {
	Desde              Periodo
	Hasta              Periodo
	MesesComputados    int
	MesesFaltantes     []Periodo
	Factor             decimal.Decimal
	TotalPct           decimal.Decimal
	PromedioMensualPct decimal.Decimal
	AnualizadaPct      decimal.Decimal
	Meses              []InflacionMensual
}

// Ajustar updates monto by the accumulated factor.
func (r *ResultadoInflacion) Ajustar(monto decimal.Decimal) decimal.Decimal {
	return monto.Mul(r.Factor)
}

// Acumular compounds every month from desde to hasta, both inclusive.
// Months missing from the index are skipped: they neither contribute to the
// factor nor count towards the geometric mean. hasta must be strictly after
// desde.
func (i *IndiceInflacion) Acumular(desde, hasta Periodo) (*ResultadoInflacion, error) {
	if !desde.Antes(hasta) {
		return nil, fmt.Errorf("%w: el periodo final debe ser posterior al inicial", ErrEntradaInvalida)
	}
	res := &ResultadoInflacion{Desde: desde, Hasta: hasta}

	factor := uno
	for p := desde; !hasta.Antes(p); p = p.Siguiente() {
		tasa, ok := i.meses[p]
		if !ok {
			res.MesesFaltantes = append(res.MesesFaltantes, p)
			continue
		}
		factor = factor.Mul(uno.Add(tasa.Div(cien))).Round(precisionInterna)
		res.MesesComputados++
		res.Meses = append(res.Meses, InflacionMensual{
			Periodo:      p,
			Tasa:         tasa,
			AcumuladoPct: factor.Sub(uno).Mul(cien),
		})
	}
	if res.MesesComputados == 0 {
		return nil, fmt.Errorf("%w: %s a %s", ErrSinDatos, desde, hasta)
	}

	f := factor.InexactFloat64()
	n := float64(res.MesesComputados)
	res.Factor = factor
	res.TotalPct = factor.Sub(uno).Mul(cien)
	var err error
	if res.PromedioMensualPct, err = desdeFloat((math.Pow(f, 1/n)-1)*100, "el promedio mensual"); err != nil {
		return nil, err
	}
	if res.AnualizadaPct, err = desdeFloat((math.Pow(f, 12/n)-1)*100, "la inflacion anualizada"); err != nil {
		return nil, err
	}
	return res, nil
}
