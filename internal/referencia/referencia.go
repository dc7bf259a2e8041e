// Package referencia loads the reference tables used by the calculators:
// the statutory interest rate table and the monthly inflation index.
// Both are read once at startup from the database, falling back to the
// embedded seed data when the tables are empty or unreachable.
package referencia

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/model"
)

//go:embed semillas/*.json
var semillas embed.FS

const (
	OrigenBaseDatos = "base_de_datos"
	OrigenSemilla   = "semilla"
)

// Fuente is the persistent store of reference rows.
type Fuente interface {
	ListTasas(ctx context.Context) ([]model.TasaInteres, error)
	ListInflacion(ctx context.Context) ([]model.InflacionMensual, error)
}

// Catalogo is the read-only reference data shared by every request.
type Catalogo struct {
	Tasas     *finanzas.TablaTasas
	Inflacion *finanzas.IndiceInflacion
	Origen    string
}

type tasaJSON struct {
	Desde               string          `json:"desde"`
	Hasta               *string         `json:"hasta"`
	ResarcitorioMensual decimal.Decimal `json:"resarcitorio_mensual"`
	ResarcitorioDiario  decimal.Decimal `json:"resarcitorio_diario"`
	PunitorioMensual    decimal.Decimal `json:"punitorio_mensual"`
	PunitorioDiario     decimal.Decimal `json:"punitorio_diario"`
}

type inflacionJSON struct {
	Anio int             `json:"anio"`
	Mes  int             `json:"mes"`
	Tasa decimal.Decimal `json:"tasa"`
}

// TasasSemilla returns the embedded rate table.
func TasasSemilla() ([]model.TasaInteres, error) {
	raw, err := semillas.ReadFile("semillas/tasas.json")
	if err != nil {
		return nil, err
	}
	var filas []tasaJSON
	if err := json.Unmarshal(raw, &filas); err != nil {
		return nil, fmt.Errorf("semilla de tasas: %w", err)
	}
	out := make([]model.TasaInteres, 0, len(filas))
	for _, f := range filas {
		desde, err := time.Parse(time.DateOnly, f.Desde)
		if err != nil {
			return nil, fmt.Errorf("semilla de tasas: %w", err)
		}
		t := model.TasaInteres{
			Desde:               desde,
			ResarcitorioMensual: f.ResarcitorioMensual,
			ResarcitorioDiario:  f.ResarcitorioDiario,
			PunitorioMensual:    f.PunitorioMensual,
			PunitorioDiario:     f.PunitorioDiario,
		}
		if f.Hasta != nil {
			hasta, err := time.Parse(time.DateOnly, *f.Hasta)
			if err != nil {
				return nil, fmt.Errorf("semilla de tasas: %w", err)
			}
			t.Hasta = &hasta
		}
		out = append(out, t)
	}
	return out, nil
}

// InflacionSemilla returns the embedded monthly CPI series.
func InflacionSemilla() ([]model.InflacionMensual, error) {
	raw, err := semillas.ReadFile("semillas/inflacion.json")
	if err != nil {
		return nil, err
	}
	var filas []inflacionJSON
	if err := json.Unmarshal(raw, &filas); err != nil {
		return nil, fmt.Errorf("semilla de inflacion: %w", err)
	}
	out := make([]model.InflacionMensual, 0, len(filas))
	for _, f := range filas {
		out = append(out, model.InflacionMensual{Anio: f.Anio, Mes: f.Mes, Tasa: f.Tasa})
	}
	return out, nil
}

// TablaDesde builds the lookup table from stored rows.
func TablaDesde(filas []model.TasaInteres) (*finanzas.TablaTasas, error) {
	entradas := make([]finanzas.TasaVigente, 0, len(filas))
	for _, f := range filas {
		e := finanzas.TasaVigente{
			Desde:               f.Desde,
			ResarcitorioMensual: f.ResarcitorioMensual,
			ResarcitorioDiario:  f.ResarcitorioDiario,
			PunitorioMensual:    f.PunitorioMensual,
			PunitorioDiario:     f.PunitorioDiario,
		}
		if f.Hasta != nil {
			e.Hasta = *f.Hasta
		}
		entradas = append(entradas, e)
	}
	return finanzas.NuevaTablaTasas(entradas)
}

// IndiceDesde builds the inflation index from stored rows. Rows with an
// out-of-range month are ignored.
func IndiceDesde(filas []model.InflacionMensual) *finanzas.IndiceInflacion {
	m := make(map[finanzas.Periodo]decimal.Decimal, len(filas))
	for _, f := range filas {
		if f.Mes < 1 || f.Mes > 12 {
			continue
		}
		m[finanzas.Periodo{Anio: f.Anio, Mes: time.Month(f.Mes)}] = f.Tasa
	}
	return finanzas.NuevoIndiceInflacion(m)
}

// Cargar reads both tables from fuente. A nil fuente, a read error or an
// empty table falls back to the embedded seed for that table.
func Cargar(ctx context.Context, fuente Fuente) (*Catalogo, error) {
	origen := OrigenBaseDatos

	var tasas []model.TasaInteres
	var inflacion []model.InflacionMensual
	if fuente != nil {
		var err error
		if tasas, err = fuente.ListTasas(ctx); err != nil {
			log.Warn().Err(err).Msg("referencia: no se pudieron leer las tasas, usando semilla")
			tasas = nil
		}
		if inflacion, err = fuente.ListInflacion(ctx); err != nil {
			log.Warn().Err(err).Msg("referencia: no se pudo leer la inflacion, usando semilla")
			inflacion = nil
		}
	}

	if len(tasas) == 0 {
		origen = OrigenSemilla
		var err error
		if tasas, err = TasasSemilla(); err != nil {
			return nil, err
		}
	}
	if len(inflacion) == 0 {
		origen = OrigenSemilla
		var err error
		if inflacion, err = InflacionSemilla(); err != nil {
			return nil, err
		}
	}

	tabla, err := TablaDesde(tasas)
	if err != nil {
		return nil, fmt.Errorf("tabla de tasas: %w", err)
	}
	cat := &Catalogo{Tasas: tabla, Inflacion: IndiceDesde(inflacion), Origen: origen}
	log.Info().
		Int("tasas", cat.Tasas.Len()).
		Int("meses_inflacion", cat.Inflacion.Len()).
		Str("origen", origen).
		Msg("referencia: tablas cargadas")
	return cat, nil
}
