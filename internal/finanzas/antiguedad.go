package finanzas

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Tramo is an aging band of days since the operation date.
type Tramo string

const (
	Tramo0a30  Tramo = "0-30"
	Tramo31a60 Tramo = "31-60"
	Tramo61a90 Tramo = "61-90"
	TramoMas90 Tramo = "90+"
)

// Tramos lists every band in ascending order.
var Tramos = []Tramo{Tramo0a30, Tramo31a60, Tramo61a90, TramoMas90}

// TramoPorDias maps days overdue to a band. Boundaries are inclusive on the
// lower band: 30 is "0-30", 31 is "31-60".
func TramoPorDias(dias int) Tramo {
	switch {
	case dias <= 30:
		return Tramo0a30
	case dias <= 60:
		return Tramo31a60
	case dias <= 90:
		return Tramo61a90
	default:
		return TramoMas90
	}
}

// ItemAntiguedad is one unpaid or partially paid ticket with its age.
type ItemAntiguedad struct {
	TicketID       string
	CodigoCliente  string
	NombreCliente  string
	FechaOperacion time.Time
	TotalVenta     decimal.Decimal
	TotalUsados    decimal.Decimal
	TotalPagos     decimal.Decimal
	Saldo          decimal.Decimal
	DiasVencidos   int
	Tramo          Tramo
}

// ClasificarDeuda returns one item per ticket whose final balance is
// strictly greater than umbral, ordered oldest first and then by ticket id.
func ClasificarDeuda(tickets []Ticket, hoy time.Time, umbral decimal.Decimal) []ItemAntiguedad {
	return clasificar(tickets, hoy, umbral, false)
}

// ClasificarSinPagos is ClasificarDeuda restricted to tickets that have no
// payment at all.
func ClasificarSinPagos(tickets []Ticket, hoy time.Time, umbral decimal.Decimal) []ItemAntiguedad {
	return clasificar(tickets, hoy, umbral, true)
}

func clasificar(tickets []Ticket, hoy time.Time, umbral decimal.Decimal, soloSinPagos bool) []ItemAntiguedad {
	items := make([]ItemAntiguedad, 0)
	for _, t := range tickets {
		if !t.SaldoFinal.GreaterThan(umbral) {
			continue
		}
		if soloSinPagos && len(t.Pagos) > 0 {
			continue
		}
		dias := diasVencidos(t.FechaOperacion, hoy)
		items = append(items, ItemAntiguedad{
			TicketID:       t.ID,
			CodigoCliente:  t.CodigoCliente,
			NombreCliente:  t.NombreCliente,
			FechaOperacion: t.FechaOperacion,
			TotalVenta:     t.TotalVenta,
			TotalUsados:    t.TotalUsados,
			TotalPagos:     t.TotalPagos,
			Saldo:          t.SaldoFinal,
			DiasVencidos:   dias,
			Tramo:          TramoPorDias(dias),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DiasVencidos != items[j].DiasVencidos {
			return items[i].DiasVencidos > items[j].DiasVencidos
		}
		return items[i].TicketID < items[j].TicketID
	})
	return items
}

func diasVencidos(operacion, hoy time.Time) int {
	return int(math.Floor(hoy.Sub(operacion).Hours() / horasPorDia))
}

// ResumenTramo totals the balances of one band.
type ResumenTramo struct {
	Total    decimal.Decimal
	Cantidad int
}

// ResumirAntiguedad rolls items up per band. All four bands are always
// present, with zero totals when empty.
func ResumirAntiguedad(items []ItemAntiguedad) map[Tramo]ResumenTramo {
	out := make(map[Tramo]ResumenTramo, len(Tramos))
	for _, tr := range Tramos {
		out[tr] = ResumenTramo{Total: decimal.Zero}
	}
	for _, it := range items {
		r := out[it.Tramo]
		r.Total = r.Total.Add(it.Saldo)
		r.Cantidad++
		out[it.Tramo] = r
	}
	return out
}
