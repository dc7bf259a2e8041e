package dto

type ImportacionResponse struct {
	LoteID       string   `json:"lote_id"`
	Archivo      string   `json:"archivo"`
	Modo         string   `json:"modo"`
	Filas        int      `json:"filas"`
	Omitidas     int      `json:"omitidas"`
	Tickets      int      `json:"tickets"`
	Advertencias []string `json:"advertencias"`
}
