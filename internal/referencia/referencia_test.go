package referencia

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/model"
)

type fakeFuente struct {
	tasas     []model.TasaInteres
	inflacion []model.InflacionMensual
	err       error
}

func (f *fakeFuente) ListTasas(_ context.Context) ([]model.TasaInteres, error) {
	return f.tasas, f.err
}

func (f *fakeFuente) ListInflacion(_ context.Context) ([]model.InflacionMensual, error) {
	return f.inflacion, f.err
}

func TestSemillas_SonValidas(t *testing.T) {
	tasas, err := TasasSemilla()
	require.NoError(t, err)
	require.NotEmpty(t, tasas)

	tabla, err := TablaDesde(tasas)
	require.NoError(t, err)
	_, ok := tabla.Buscar(time.Now())
	assert.True(t, ok, "the seed must cover today")

	infl, err := InflacionSemilla()
	require.NoError(t, err)
	idx := IndiceDesde(infl)
	tasa, ok := idx.Tasa(finanzas.Periodo{Anio: 2023, Mes: time.December})
	require.True(t, ok)
	assert.Equal(t, "25.5", tasa.String())
}

func TestCargar_SinFuenteUsaSemilla(t *testing.T) {
	cat, err := Cargar(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, OrigenSemilla, cat.Origen)
	assert.Positive(t, cat.Tasas.Len())
	assert.Positive(t, cat.Inflacion.Len())
}

func TestCargar_ErrorDeFuenteUsaSemilla(t *testing.T) {
	cat, err := Cargar(context.Background(), &fakeFuente{err: errors.New("connection refused")})
	require.NoError(t, err)
	assert.Equal(t, OrigenSemilla, cat.Origen)
}

func TestCargar_DesdeBaseDeDatos(t *testing.T) {
	fuente := &fakeFuente{
		tasas: []model.TasaInteres{{
			Desde:              time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			ResarcitorioDiario: decimal.RequireFromString("0.1"),
			PunitorioDiario:    decimal.RequireFromString("0.2"),
		}},
		inflacion: []model.InflacionMensual{
			{Anio: 2024, Mes: 1, Tasa: decimal.RequireFromString("20.6")},
			{Anio: 2024, Mes: 13, Tasa: decimal.RequireFromString("1")},
		},
	}
	cat, err := Cargar(context.Background(), fuente)
	require.NoError(t, err)

	assert.Equal(t, OrigenBaseDatos, cat.Origen)
	assert.Equal(t, 1, cat.Tasas.Len())
	assert.Equal(t, 1, cat.Inflacion.Len())
}

func TestCargar_TablaInvalida(t *testing.T) {
	hasta := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	fuente := &fakeFuente{
		tasas: []model.TasaInteres{{Desde: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Hasta: &hasta}},
	}
	_, err := Cargar(context.Background(), fuente)
	assert.ErrorIs(t, err, finanzas.ErrEntradaInvalida)
}
