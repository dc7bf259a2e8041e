package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearDocumentoRequest asks for a PDF or XLSX to be rendered in the
// background. Which parameter block is required depends on Tipo:
//
//	proforma, estado_deuda  → ticket_id (estado_deuda also accepts codigo_cliente)
//	refinanciacion          → refinanciacion
//	amortizacion_xlsx       → amortizacion
//	antiguedad_xlsx         → antiguedad (optional)
type CrearDocumentoRequest struct {
	Tipo           string               `json:"tipo"           validate:"required,oneof=proforma estado_deuda refinanciacion amortizacion_xlsx antiguedad_xlsx"`
	TicketID       string               `json:"ticket_id"`
	CodigoCliente  string               `json:"codigo_cliente"`
	Amortizacion   *AmortizacionRequest `json:"amortizacion"   validate:"omitempty"`
	Refinanciacion *PropuestasRequest   `json:"refinanciacion" validate:"omitempty"`
	Antiguedad     *AntiguedadFilter    `json:"antiguedad"`
	Email          *string              `json:"email"          validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DocumentoResponse struct {
	ID         string  `json:"id"`
	Tipo       string  `json:"tipo"`
	Referencia *string `json:"referencia"`
	Estado     string  `json:"estado"`
	Descarga   *string `json:"descarga"`
	Error      *string `json:"error"`
	Intentos   int     `json:"intentos"`
	CreatedAt  string  `json:"created_at"`
}
