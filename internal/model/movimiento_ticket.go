package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
)

// MovimientoTicket persists one spreadsheet row of dealership activity.
// Rows keep their import order: (LoteID, Orden) reproduces the source
// sequence, which matters for the running balance of each ticket.
type MovimientoTicket struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoteID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Orden             int       `gorm:"not null"`
	TicketID          string    `gorm:"type:varchar(40);index"`
	FechaOperacion    time.Time `gorm:"type:date"`
	CodigoCliente     string    `gorm:"type:varchar(40);index"`
	NombreCliente     string
	Vendedor          string
	Producto          string
	Cantidad          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalOperacion    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	UsadoDescripcion  string
	UsadoValor        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	FormaPago         string
	FechaPago         *time.Time `gorm:"type:date"`
	NumeroRecibo      string     `gorm:"type:varchar(40)"`
	Cuota             string     `gorm:"type:varchar(20)"`
	Detalle           string
	VencimientoCheque *time.Time      `gorm:"type:date"`
	TipoCambio        decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	ImportePesos      decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0"`
	ImporteUSD        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0;column:importe_usd"`
	// SaldoInformado is the balance typed into the sheet; never trusted
	SaldoInformado *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Observacion    string
	CreatedAt      time.Time
}

// TableName overrides GORM's default pluralization.
func (MovimientoTicket) TableName() string { return "movimientos_ticket" }

// ToFinanzas converts the stored row into the calculation type.
func (m MovimientoTicket) ToFinanzas() finanzas.Movimiento {
	return finanzas.Movimiento{
		TicketID:          m.TicketID,
		FechaOperacion:    m.FechaOperacion,
		CodigoCliente:     m.CodigoCliente,
		NombreCliente:     m.NombreCliente,
		Vendedor:          m.Vendedor,
		Producto:          m.Producto,
		Cantidad:          m.Cantidad,
		PrecioUnitario:    m.PrecioUnitario,
		TotalOperacion:    m.TotalOperacion,
		UsadoDescripcion:  m.UsadoDescripcion,
		UsadoValor:        m.UsadoValor,
		FormaPago:         m.FormaPago,
		FechaPago:         m.FechaPago,
		NumeroRecibo:      m.NumeroRecibo,
		Cuota:             m.Cuota,
		Detalle:           m.Detalle,
		VencimientoCheque: m.VencimientoCheque,
		TipoCambio:        m.TipoCambio,
		ImportePesos:      m.ImportePesos,
		ImporteUSD:        m.ImporteUSD,
		SaldoInformado:    m.SaldoInformado,
		Observacion:       m.Observacion,
	}
}

// NuevoMovimientoTicket builds the row to persist for mov at position orden
// of import batch lote.
func NuevoMovimientoTicket(lote uuid.UUID, orden int, mov finanzas.Movimiento) MovimientoTicket {
	return MovimientoTicket{
		LoteID:            lote,
		Orden:             orden,
		TicketID:          mov.TicketID,
		FechaOperacion:    mov.FechaOperacion,
		CodigoCliente:     mov.CodigoCliente,
		NombreCliente:     mov.NombreCliente,
		Vendedor:          mov.Vendedor,
		Producto:          mov.Producto,
		Cantidad:          mov.Cantidad,
		PrecioUnitario:    mov.PrecioUnitario,
		TotalOperacion:    mov.TotalOperacion,
		UsadoDescripcion:  mov.UsadoDescripcion,
		UsadoValor:        mov.UsadoValor,
		FormaPago:         mov.FormaPago,
		FechaPago:         mov.FechaPago,
		NumeroRecibo:      mov.NumeroRecibo,
		Cuota:             mov.Cuota,
		Detalle:           mov.Detalle,
		VencimientoCheque: mov.VencimientoCheque,
		TipoCambio:        mov.TipoCambio,
		ImportePesos:      mov.ImportePesos,
		ImporteUSD:        mov.ImporteUSD,
		SaldoInformado:    mov.SaldoInformado,
		Observacion:       mov.Observacion,
	}
}

// MovimientosFinanzas converts stored rows keeping their order.
func MovimientosFinanzas(rows []MovimientoTicket) []finanzas.Movimiento {
	out := make([]finanzas.Movimiento, len(rows))
	for i, r := range rows {
		out[i] = r.ToFinanzas()
	}
	return out
}
