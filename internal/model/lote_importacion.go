package model

import (
	"time"

	"github.com/google/uuid"
)

// LoteImportacion records one spreadsheet upload.
// Modo: "reemplazar" | "agregar"
type LoteImportacion struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreArchivo string     `gorm:"not null"`
	Modo          string     `gorm:"type:varchar(20);not null"`
	Filas         int        `gorm:"not null;default:0"`
	Omitidas      int        `gorm:"not null;default:0"`
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization (lote_importacions → lotes_importacion).
func (LoteImportacion) TableName() string { return "lotes_importacion" }
