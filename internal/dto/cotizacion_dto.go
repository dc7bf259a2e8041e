package dto

import "github.com/shopspring/decimal"

type CotizacionResponse struct {
	Compra        decimal.Decimal `json:"compra"`
	Venta         decimal.Decimal `json:"venta"`
	Fuente        string          `json:"fuente"` // en_vivo | cache | ultimo_conocido
	ActualizadoEn string          `json:"actualizado_en"`
}
