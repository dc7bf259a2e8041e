package finanzas

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SubperiodoInteres is a stretch [Desde, Hasta) accrued at one table entry.
type SubperiodoInteres struct {
	Desde                  time.Time
	Hasta                  time.Time
	Dias                   int
	TasaDiariaResarcitorio decimal.Decimal
	TasaDiariaPunitorio    decimal.Decimal
	InteresResarcitorio    decimal.Decimal
	InteresPunitorio       decimal.Decimal
}

// ResultadoIntereses is the accrual of both interest tracks over a range.
type ResultadoIntereses struct {
	Capital           decimal.Decimal
	Desde             time.Time
	Hasta             time.Time
	Dias              int
	DiasSinTasa       int
	TotalResarcitorio decimal.Decimal
	TotalPunitorio    decimal.Decimal
	Total             decimal.Decimal
	Subperiodos       []SubperiodoInteres
}

// CalcularIntereses accrues resarcitorio and punitorio interest on capital
// for every day in [desde, hasta), splitting the range wherever the rate
// table changes entry. Days without an applicable entry accrue nothing and
// are counted in DiasSinTasa.
//
// Interest per sub-period is capital × daily rate / 100 × days.
func CalcularIntereses(tabla *TablaTasas, capital decimal.Decimal, desde, hasta time.Time) (*ResultadoIntereses, error) {
	if tabla == nil {
		return nil, fmt.Errorf("%w: tabla de tasas no disponible", ErrEntradaInvalida)
	}
	if !capital.IsPositive() {
		return nil, fmt.Errorf("%w: el capital debe ser mayor a cero", ErrEntradaInvalida)
	}
	desde, hasta = Fecha(desde), Fecha(hasta)
	if !hasta.After(desde) {
		return nil, fmt.Errorf("%w: la fecha hasta debe ser posterior a la fecha desde", ErrEntradaInvalida)
	}

	res := &ResultadoIntereses{
		Capital:           capital,
		Desde:             desde,
		Hasta:             hasta,
		Dias:              DiasEntre(desde, hasta),
		TotalResarcitorio: decimal.Zero,
		TotalPunitorio:    decimal.Zero,
	}

	inicio := desde
	for inicio.Before(hasta) {
		i, ok := tabla.indice(inicio)
		if !ok {
			// gap: jump to the next entry start, or the end of the range
			fin := hasta
			if sig, hay := tabla.siguienteInicio(inicio); hay && sig.Before(hasta) {
				fin = sig
			}
			res.DiasSinTasa += DiasEntre(inicio, fin)
			inicio = fin
			continue
		}

		tasa := tabla.entradas[i]
		fin := tasa.Hasta.AddDate(0, 0, 1)
		if fin.After(hasta) {
			fin = hasta
		}
		dias := decimal.NewFromInt(int64(DiasEntre(inicio, fin)))
		sub := SubperiodoInteres{
			Desde:                  inicio,
			Hasta:                  fin,
			Dias:                   DiasEntre(inicio, fin),
			TasaDiariaResarcitorio: tasa.ResarcitorioDiario,
			TasaDiariaPunitorio:    tasa.PunitorioDiario,
			InteresResarcitorio:    capital.Mul(tasa.ResarcitorioDiario).Div(cien).Mul(dias),
			InteresPunitorio:       capital.Mul(tasa.PunitorioDiario).Div(cien).Mul(dias),
		}
		res.Subperiodos = append(res.Subperiodos, sub)
		res.TotalResarcitorio = res.TotalResarcitorio.Add(sub.InteresResarcitorio)
		res.TotalPunitorio = res.TotalPunitorio.Add(sub.InteresPunitorio)
		inicio = fin
	}
	res.Total = res.TotalResarcitorio.Add(res.TotalPunitorio)
	return res, nil
}
