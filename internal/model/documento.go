package model

import (
	"time"

	"github.com/google/uuid"
)

// Documento is a generated report file (PDF or XLSX).
// Tipo: "proforma" | "estado_deuda" | "refinanciacion" | "amortizacion_xlsx" | "antiguedad_xlsx"
// Estado: "pendiente" | "generado" | "error"
type Documento struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo string    `gorm:"type:varchar(30);not null;index"`
	// Referencia is the ticket id or client code the document is about, if any
	Referencia *string `gorm:"type:varchar(60);index"`
	// Parametros is the JSON request used to render the document
	Parametros string `gorm:"type:jsonb;not null;default:'{}'"`
	Estado     string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// Ruta is the path of the generated file under DOCUMENTOS_STORAGE_PATH
	Ruta         *string
	EmailDestino *string
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	// Retry fields, used by retry_cron to re-attempt failed renders
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
