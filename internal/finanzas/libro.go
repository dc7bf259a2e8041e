package finanzas

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Usado is a trade-in vehicle taken as part of a sale.
type Usado struct {
	Descripcion string
	Valor       decimal.Decimal
}

// Producto is a sold line within a Ticket. PrecioTotal is taken from the
// source row as-is, even when it disagrees with Cantidad × PrecioUnitario.
type Producto struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	PrecioTotal    decimal.Decimal
	Usado          *Usado
}

// Pago is a payment applied to a Ticket. SaldoRestante is the balance left
// after this payment, in source order.
type Pago struct {
	Fecha             time.Time
	Detalle           string
	NumeroRecibo      string
	Cuota             string
	VencimientoCheque *time.Time
	ImportePesos      decimal.Decimal
	TipoCambio        decimal.Decimal
	ImporteUSD        decimal.Decimal
	SaldoRestante     decimal.Decimal
}

// Ticket is the reconstructed state of one dealership operation. It is
// rebuilt from scratch whenever its rows change and never patched.
type Ticket struct {
	ID             string
	CodigoCliente  string
	NombreCliente  string
	Vendedor       string
	FechaOperacion time.Time
	FormaPago      string
	Observacion    string
	Productos      []Producto
	Pagos          []Pago
	TotalVenta     decimal.Decimal
	TotalUsados    decimal.Decimal
	SaldoInicial   decimal.Decimal
	TotalPagos     decimal.Decimal
	SaldoFinal     decimal.Decimal
}

// Reconstruir groups rows by ticket id, keeping their relative order, and
// builds one Ticket per group. Rows without a ticket id are skipped.
//
// Payment balances are a strict sequential fold over payment rows in the
// order they were supplied: rows are never re-sorted by date.
func Reconstruir(movs []Movimiento) map[string]Ticket {
	grupos := agrupar(movs)
	tickets := make(map[string]Ticket, len(grupos.orden))
	for _, id := range grupos.orden {
		tickets[id] = construirTicket(id, grupos.filas[id])
	}
	return tickets
}

// ReconstruirOrdenado is Reconstruir returning tickets sorted by id.
func ReconstruirOrdenado(movs []Movimiento) []Ticket {
	mapa := Reconstruir(movs)
	ids := make([]string, 0, len(mapa))
	for id := range mapa {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Ticket, 0, len(ids))
	for _, id := range ids {
		out = append(out, mapa[id])
	}
	return out
}

type gruposPorTicket struct {
	orden []string
	filas map[string][]Movimiento
}

func agrupar(movs []Movimiento) gruposPorTicket {
	g := gruposPorTicket{filas: make(map[string][]Movimiento)}
	for _, m := range movs {
		id := strings.TrimSpace(m.TicketID)
		if id == "" {
			continue
		}
		if _, ok := g.filas[id]; !ok {
			g.orden = append(g.orden, id)
		}
		g.filas[id] = append(g.filas[id], m)
	}
	return g
}

func construirTicket(id string, filas []Movimiento) Ticket {
	primera := filas[0]
	t := Ticket{
		ID:             id,
		CodigoCliente:  primera.CodigoCliente,
		NombreCliente:  primera.NombreCliente,
		Vendedor:       primera.Vendedor,
		FechaOperacion: primera.FechaOperacion,
		TotalVenta:     decimal.Zero,
		TotalUsados:    decimal.Zero,
		TotalPagos:     decimal.Zero,
	}

	for _, f := range filas {
		if t.FormaPago == "" && strings.TrimSpace(f.FormaPago) != "" {
			t.FormaPago = strings.TrimSpace(f.FormaPago)
		}
		if t.Observacion == "" && strings.TrimSpace(f.Observacion) != "" {
			t.Observacion = strings.TrimSpace(f.Observacion)
		}
		if !f.EsVenta() {
			continue
		}
		p := Producto{
			Descripcion:    strings.TrimSpace(f.Producto),
			Cantidad:       f.Cantidad,
			PrecioUnitario: f.PrecioUnitario,
			PrecioTotal:    f.TotalOperacion,
		}
		if f.TieneUsado() {
			p.Usado = &Usado{Descripcion: strings.TrimSpace(f.UsadoDescripcion), Valor: f.UsadoValor}
			t.TotalUsados = t.TotalUsados.Add(f.UsadoValor)
		}
		t.TotalVenta = t.TotalVenta.Add(f.TotalOperacion)
		t.Productos = append(t.Productos, p)
	}

	t.SaldoInicial = t.TotalVenta.Sub(t.TotalUsados)

	saldo := t.SaldoInicial
	for _, f := range filas {
		if !f.EsPago() {
			continue
		}
		saldo = Centavos(saldo.Sub(f.ImporteUSD))
		t.TotalPagos = t.TotalPagos.Add(f.ImporteUSD)
		t.Pagos = append(t.Pagos, Pago{
			Fecha:             *f.FechaPago,
			Detalle:           strings.TrimSpace(f.Detalle),
			NumeroRecibo:      strings.TrimSpace(f.NumeroRecibo),
			Cuota:             strings.TrimSpace(f.Cuota),
			VencimientoCheque: f.VencimientoCheque,
			ImportePesos:      f.ImportePesos,
			TipoCambio:        f.TipoCambio,
			ImporteUSD:        f.ImporteUSD,
			SaldoRestante:     saldo,
		})
	}
	t.SaldoFinal = Centavos(saldo)
	return t
}

// TotalTicket is the lightweight per-ticket rollup computed straight from
// rows without building full Ticket values.
type TotalTicket struct {
	TicketID string
	Venta    decimal.Decimal
	Usados   decimal.Decimal
	Pagos    decimal.Decimal
	Saldo    decimal.Decimal
}

// TotalesPorTicket sums, per ticket, sale totals, trade-in values of any row
// and USD amounts of any row carrying a payment date. Results are sorted by
// ticket id as strings ("100" before "20").
func TotalesPorTicket(movs []Movimiento) []TotalTicket {
	acumulados := make(map[string]*TotalTicket)
	for _, m := range movs {
		id := strings.TrimSpace(m.TicketID)
		if id == "" {
			continue
		}
		tt, ok := acumulados[id]
		if !ok {
			tt = &TotalTicket{TicketID: id, Venta: decimal.Zero, Usados: decimal.Zero, Pagos: decimal.Zero}
			acumulados[id] = tt
		}
		if m.EsVenta() {
			tt.Venta = tt.Venta.Add(m.TotalOperacion)
		}
		tt.Usados = tt.Usados.Add(m.UsadoValor)
		if m.FechaPago != nil {
			tt.Pagos = tt.Pagos.Add(m.ImporteUSD)
		}
	}

	out := make([]TotalTicket, 0, len(acumulados))
	for _, tt := range acumulados {
		tt.Saldo = Centavos(tt.Venta.Sub(tt.Usados).Sub(tt.Pagos))
		out = append(out, *tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketID < out[j].TicketID })
	return out
}
