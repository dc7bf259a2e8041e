package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TasaInteres is one row of the statutory interest table. A nil Hasta marks
// the rate currently in force.
type TasaInteres struct {
	ID                  uint            `gorm:"primaryKey"`
	Desde               time.Time       `gorm:"type:date;not null;uniqueIndex"`
	Hasta               *time.Time      `gorm:"type:date"`
	ResarcitorioMensual decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	ResarcitorioDiario  decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	PunitorioMensual    decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	PunitorioDiario     decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	CreatedAt           time.Time
}

// TableName overrides GORM's default pluralization.
func (TasaInteres) TableName() string { return "tasas_interes" }

// InflacionMensual is the published monthly CPI variation, in percent.
type InflacionMensual struct {
	Anio      int             `gorm:"primaryKey;autoIncrement:false"`
	Mes       int             `gorm:"primaryKey;autoIncrement:false"`
	Tasa      decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	CreatedAt time.Time
}

// TableName overrides GORM's default pluralization.
func (InflacionMensual) TableName() string { return "inflacion_mensual" }
