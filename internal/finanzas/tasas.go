package finanzas

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FechaAbierta is the Hasta sentinel of the rate currently in force.
var FechaAbierta = NuevaFecha(9999, time.December, 31)

// TasaVigente is one row of the statutory interest rate table. Desde and
// Hasta are both inclusive calendar dates. Rates are percentages.
type TasaVigente struct {
	Desde               time.Time
	Hasta               time.Time
	ResarcitorioMensual decimal.Decimal
	ResarcitorioDiario  decimal.Decimal
	PunitorioMensual    decimal.Decimal
	PunitorioDiario     decimal.Decimal
}

// Contiene reports whether fecha falls within [Desde, Hasta].
func (t TasaVigente) Contiene(fecha time.Time) bool {
	f := Fecha(fecha)
	return !f.Before(t.Desde) && !f.After(t.Hasta)
}

// TablaTasas is an immutable, date-ordered rate table. Build it once with
// NuevaTablaTasas and share it freely between goroutines.
type TablaTasas struct {
	entradas []TasaVigente
}

// NuevaTablaTasas validates and sorts entradas. Ranges must not overlap and
// each must have Desde <= Hasta. A zero Hasta is read as FechaAbierta.
func NuevaTablaTasas(entradas []TasaVigente) (*TablaTasas, error) {
	copia := make([]TasaVigente, len(entradas))
	for i, e := range entradas {
		e.Desde = Fecha(e.Desde)
		if e.Hasta.IsZero() {
			e.Hasta = FechaAbierta
		}
		e.Hasta = Fecha(e.Hasta)
		if e.Hasta.Before(e.Desde) {
			return nil, fmt.Errorf("%w: tasa con vigencia invertida (%s > %s)",
				ErrEntradaInvalida, e.Desde.Format("2006-01-02"), e.Hasta.Format("2006-01-02"))
		}
		copia[i] = e
	}
	sort.Slice(copia, func(i, j int) bool { return copia[i].Desde.Before(copia[j].Desde) })
	for i := 1; i < len(copia); i++ {
		if !copia[i].Desde.After(copia[i-1].Hasta) {
			return nil, fmt.Errorf("%w: tasas superpuestas en %s",
				ErrEntradaInvalida, copia[i].Desde.Format("2006-01-02"))
		}
	}
	return &TablaTasas{entradas: copia}, nil
}

// Buscar returns the entry whose range contains fecha. It reports false
// when fecha precedes the first entry or falls in a gap.
func (t *TablaTasas) Buscar(fecha time.Time) (TasaVigente, bool) {
	i, ok := t.indice(fecha)
	if !ok {
		return TasaVigente{}, false
	}
	return t.entradas[i], true
}

func (t *TablaTasas) indice(fecha time.Time) (int, bool) {
	f := Fecha(fecha)
	// first entry starting after f; the candidate is the one before it
	i := sort.Search(len(t.entradas), func(i int) bool { return t.entradas[i].Desde.After(f) })
	if i == 0 {
		return -1, false
	}
	if !t.entradas[i-1].Contiene(f) {
		return -1, false
	}
	return i - 1, true
}

// siguienteInicio returns the Desde of the first entry starting after fecha.
func (t *TablaTasas) siguienteInicio(fecha time.Time) (time.Time, bool) {
	f := Fecha(fecha)
	i := sort.Search(len(t.entradas), func(i int) bool { return t.entradas[i].Desde.After(f) })
	if i == len(t.entradas) {
		return time.Time{}, false
	}
	return t.entradas[i].Desde, true
}

// Entradas returns a copy of the table rows in date order.
func (t *TablaTasas) Entradas() []TasaVigente {
	out := make([]TasaVigente, len(t.entradas))
	copy(out, t.entradas)
	return out
}

// Len returns the number of rows.
func (t *TablaTasas) Len() int { return len(t.entradas) }
