package dto

import "github.com/shopspring/decimal"

// ─── Filters ────────────────────────────────────────────────────────────────

// TicketFilter is bound from query string of GET /v1/tickets.
type TicketFilter struct {
	Cliente string `form:"cliente"`
	Estado  string `form:"estado" validate:"omitempty,oneof=saldado pendiente proceso"`
}

// AntiguedadFilter is bound from query string of GET /v1/deudas/antiguedad.
type AntiguedadFilter struct {
	SinPagos bool   `form:"sin_pagos"`
	Umbral   string `form:"umbral"` // USD; empty = UMBRAL_DEUDA
	Fecha    string `form:"fecha"`  // YYYY-MM-DD; empty = today
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsadoResponse struct {
	Descripcion string          `json:"descripcion"`
	Valor       decimal.Decimal `json:"valor"`
}

type ProductoResponse struct {
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	PrecioTotal    decimal.Decimal `json:"precio_total"`
	Usado          *UsadoResponse  `json:"usado,omitempty"`
}

type PagoResponse struct {
	Fecha             string          `json:"fecha"`
	Detalle           string          `json:"detalle"`
	NumeroRecibo      string          `json:"numero_recibo"`
	Cuota             string          `json:"cuota"`
	VencimientoCheque *string         `json:"vencimiento_cheque"`
	ImportePesos      decimal.Decimal `json:"importe_pesos"`
	TipoCambio        decimal.Decimal `json:"tipo_cambio"`
	ImporteUSD        decimal.Decimal `json:"importe_usd"`
	SaldoRestante     decimal.Decimal `json:"saldo_restante"`
}

type TicketResponse struct {
	ID             string             `json:"id"`
	CodigoCliente  string             `json:"codigo_cliente"`
	NombreCliente  string             `json:"nombre_cliente"`
	Vendedor       string             `json:"vendedor"`
	FechaOperacion string             `json:"fecha_operacion"`
	FormaPago      string             `json:"forma_pago"`
	Observacion    string             `json:"observacion"`
	Productos      []ProductoResponse `json:"productos"`
	Pagos          []PagoResponse     `json:"pagos"`
	TotalVenta     decimal.Decimal    `json:"total_venta"`
	TotalUsados    decimal.Decimal    `json:"total_usados"`
	SaldoInicial   decimal.Decimal    `json:"saldo_inicial"`
	TotalPagos     decimal.Decimal    `json:"total_pagos"`
	SaldoFinal     decimal.Decimal    `json:"saldo_final"`
	Estado         string             `json:"estado"`
}

// TicketResumenResponse is one row of ticket listings and client summaries.
type TicketResumenResponse struct {
	TicketID       string          `json:"ticket_id"`
	CodigoCliente  string          `json:"codigo_cliente,omitempty"`
	NombreCliente  string          `json:"nombre_cliente,omitempty"`
	FechaOperacion string          `json:"fecha_operacion,omitempty"`
	TotalVenta     decimal.Decimal `json:"total_venta"`
	TotalUsados    decimal.Decimal `json:"total_usados"`
	SaldoInicial   decimal.Decimal `json:"saldo_inicial"`
	TotalPagos     decimal.Decimal `json:"total_pagos"`
	SaldoFinal     decimal.Decimal `json:"saldo_final"`
	Estado         string          `json:"estado"`
}

type TicketListResponse struct {
	Data  []TicketResumenResponse `json:"data"`
	Total int                     `json:"total"`
}

type TotalTicketResponse struct {
	TicketID string          `json:"ticket_id"`
	Venta    decimal.Decimal `json:"venta"`
	Usados   decimal.Decimal `json:"usados"`
	Pagos    decimal.Decimal `json:"pagos"`
	Saldo    decimal.Decimal `json:"saldo"`
}

type ClienteResponse struct {
	CodigoCliente string                  `json:"codigo_cliente"`
	NombreCliente string                  `json:"nombre_cliente"`
	Tickets       []TicketResumenResponse `json:"tickets"`
	TotalVenta    decimal.Decimal         `json:"total_venta"`
	TotalUsados   decimal.Decimal         `json:"total_usados"`
	TotalPagos    decimal.Decimal         `json:"total_pagos"`
	SaldoTotal    decimal.Decimal         `json:"saldo_total"`
}

type AntiguedadItemResponse struct {
	TicketID       string          `json:"ticket_id"`
	CodigoCliente  string          `json:"codigo_cliente"`
	NombreCliente  string          `json:"nombre_cliente"`
	FechaOperacion string          `json:"fecha_operacion"`
	TotalVenta     decimal.Decimal `json:"total_venta"`
	TotalUsados    decimal.Decimal `json:"total_usados"`
	TotalPagos     decimal.Decimal `json:"total_pagos"`
	Saldo          decimal.Decimal `json:"saldo"`
	DiasVencidos   int             `json:"dias_vencidos"`
	Tramo          string          `json:"tramo"`
}

type TramoResponse struct {
	Total    decimal.Decimal `json:"total"`
	Cantidad int             `json:"cantidad"`
}

type AntiguedadResponse struct {
	Fecha    string                   `json:"fecha"`
	Umbral   decimal.Decimal          `json:"umbral"`
	SinPagos bool                     `json:"sin_pagos"`
	Items    []AntiguedadItemResponse `json:"items"`
	Resumen  map[string]TramoResponse `json:"resumen"`
	Total    decimal.Decimal          `json:"total"`
}
