package finanzas

import (
	"sort"

	"github.com/shopspring/decimal"
)

// EstadoSaldo classifies a ticket by its final balance.
type EstadoSaldo string

const (
	EstadoSaldado   EstadoSaldo = "saldado"
	EstadoPendiente EstadoSaldo = "pendiente"
	EstadoProceso   EstadoSaldo = "proceso"
)

var (
	// UmbralSaldado is the absolute balance under which a ticket counts as
	// settled. Applied uniformly everywhere a status is derived.
	UmbralSaldado = decimal.NewFromInt(100)
	// UmbralPendiente is the balance above which a ticket is still pending.
	UmbralPendiente = decimal.NewFromInt(1000)
)

// Estado derives the status of a final balance.
func Estado(saldo decimal.Decimal) EstadoSaldo {
	switch {
	case saldo.Abs().LessThan(UmbralSaldado):
		return EstadoSaldado
	case saldo.GreaterThan(UmbralPendiente):
		return EstadoPendiente
	default:
		return EstadoProceso
	}
}

// ResumenTicket is one line of a client summary.
type ResumenTicket struct {
	TicketID     string
	TotalVenta   decimal.Decimal
	TotalUsados  decimal.Decimal
	SaldoInicial decimal.Decimal
	TotalPagos   decimal.Decimal
	SaldoFinal   decimal.Decimal
	Estado       EstadoSaldo
}

// ResumenCliente aggregates every ticket of one client.
type ResumenCliente struct {
	CodigoCliente string
	NombreCliente string
	Tickets       []ResumenTicket
	TotalVenta    decimal.Decimal
	TotalUsados   decimal.Decimal
	TotalPagos    decimal.Decimal
	SaldoTotal    decimal.Decimal
}

// ResumirCliente sums a non-empty list of tickets belonging to the same
// client. It returns nil for an empty list.
func ResumirCliente(tickets []Ticket) *ResumenCliente {
	if len(tickets) == 0 {
		return nil
	}
	r := &ResumenCliente{
		CodigoCliente: tickets[0].CodigoCliente,
		NombreCliente: tickets[0].NombreCliente,
		Tickets:       make([]ResumenTicket, 0, len(tickets)),
		TotalVenta:    decimal.Zero,
		TotalUsados:   decimal.Zero,
		TotalPagos:    decimal.Zero,
		SaldoTotal:    decimal.Zero,
	}
	for _, t := range tickets {
		r.Tickets = append(r.Tickets, ResumenTicket{
			TicketID:     t.ID,
			TotalVenta:   t.TotalVenta,
			TotalUsados:  t.TotalUsados,
			SaldoInicial: t.SaldoInicial,
			TotalPagos:   t.TotalPagos,
			SaldoFinal:   t.SaldoFinal,
			Estado:       Estado(t.SaldoFinal),
		})
		r.TotalVenta = r.TotalVenta.Add(t.TotalVenta)
		r.TotalUsados = r.TotalUsados.Add(t.TotalUsados)
		r.TotalPagos = r.TotalPagos.Add(t.TotalPagos)
		r.SaldoTotal = r.SaldoTotal.Add(t.SaldoFinal)
	}
	r.SaldoTotal = Centavos(r.SaldoTotal)
	return r
}

// ResumirClientes groups tickets by client code and summarizes each group.
// Clients are sorted by code; tickets keep the order they were given in.
func ResumirClientes(tickets []Ticket) []ResumenCliente {
	grupos := make(map[string][]Ticket)
	var codigos []string
	for _, t := range tickets {
		if _, ok := grupos[t.CodigoCliente]; !ok {
			codigos = append(codigos, t.CodigoCliente)
		}
		grupos[t.CodigoCliente] = append(grupos[t.CodigoCliente], t)
	}
	sort.Strings(codigos)

	out := make([]ResumenCliente, 0, len(codigos))
	for _, c := range codigos {
		out = append(out, *ResumirCliente(grupos[c]))
	}
	return out
}
