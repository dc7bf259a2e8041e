package finanzas

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movimiento is one raw row of dealership activity as exported from the
// operations spreadsheet. Optional fields act as flags: a non-empty Producto
// makes it a sale row, a FechaPago with a positive ImporteUSD makes it a
// payment row. A row may be both or neither.
type Movimiento struct {
	TicketID          string
	FechaOperacion    time.Time
	CodigoCliente     string
	NombreCliente     string
	Vendedor          string
	Producto          string
	Cantidad          decimal.Decimal
	PrecioUnitario    decimal.Decimal
	TotalOperacion    decimal.Decimal
	UsadoDescripcion  string
	UsadoValor        decimal.Decimal
	FormaPago         string
	FechaPago         *time.Time
	NumeroRecibo      string
	Cuota             string
	Detalle           string // instrumento: cheque, transferencia, efectivo...
	VencimientoCheque *time.Time
	TipoCambio        decimal.Decimal
	ImportePesos      decimal.Decimal
	ImporteUSD        decimal.Decimal
	SaldoInformado    *decimal.Decimal // informational only, never used in the fold
	Observacion       string
}

// EsVenta reports whether the row carries a sold product.
func (m Movimiento) EsVenta() bool {
	return strings.TrimSpace(m.Producto) != ""
}

// EsPago reports whether the row records a payment.
func (m Movimiento) EsPago() bool {
	return m.FechaPago != nil && m.ImporteUSD.IsPositive()
}

// TieneUsado reports whether the row carries a trade-in.
func (m Movimiento) TieneUsado() bool {
	return strings.TrimSpace(m.UsadoDescripcion) != "" || m.UsadoValor.IsPositive()
}
