package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/model"
	"github.com/caludio70/boletosventa-sub000/internal/referencia"
)

func newCalculadoraServiceTest(t *testing.T) CalculadoraService {
	t.Helper()
	tabla, err := referencia.TablaDesde([]model.TasaInteres{
		{Desde: dia("2024-01-01"), Hasta: diaPtr("2024-06-30"), ResarcitorioMensual: dec("3"), ResarcitorioDiario: dec("0.1"), PunitorioMensual: dec("4"), PunitorioDiario: dec("0.13")},
		{Desde: dia("2024-07-01"), ResarcitorioMensual: dec("4"), ResarcitorioDiario: dec("0.1315"), PunitorioMensual: dec("5"), PunitorioDiario: dec("0.1644")},
	})
	require.NoError(t, err)
	idx := referencia.IndiceDesde([]model.InflacionMensual{
		{Anio: 2024, Mes: 1, Tasa: dec("20.6")},
		{Anio: 2024, Mes: 2, Tasa: dec("13.2")},
		{Anio: 2024, Mes: 3, Tasa: dec("11")},
		{Anio: 2024, Mes: 5, Tasa: dec("4.2")},
	})
	return NewCalculadoraService(&referencia.Catalogo{Tasas: tabla, Inflacion: idx, Origen: referencia.OrigenSemilla})
}

func TestCalculadoraService_Tasas(t *testing.T) {
	svc := newCalculadoraServiceTest(t)

	res, err := svc.Tasas(context.Background(), dto.TasasRequest{TNA: dec("42"), Periodicidad: "mensual"})
	require.NoError(t, err)
	assert.Equal(t, "3.5", res.TEM.String())
	assert.Equal(t, 12, res.PeriodosPorAnio)

	_, err = svc.Tasas(context.Background(), dto.TasasRequest{TNA: dec("42"), Periodicidad: "quincenal"})
	assert.ErrorIs(t, err, finanzas.ErrEntradaInvalida)
}

func TestCalculadoraService_TasasRedondeaSoloLaRespuesta(t *testing.T) {
	svc := newCalculadoraServiceTest(t)

	res, err := svc.Tasas(context.Background(), dto.TasasRequest{TNA: dec("10"), Periodicidad: "trimestral"})
	require.NoError(t, err)
	assert.Equal(t, "0.8333", res.TEM.String())
	assert.Equal(t, "2.5", res.TasaPeriodica.String())
	assert.Equal(t, "10.4713", res.TEA.String())

	exactas, err := finanzas.CalcularTasas(dec("10"), finanzas.Trimestral)
	require.NoError(t, err)
	assert.Greater(t, -exactas.TEM.Exponent(), int32(4))
	assert.False(t, exactas.TEA.Equal(res.TEA))
}

func TestCalculadoraService_Amortizacion(t *testing.T) {
	svc := newCalculadoraServiceTest(t)

	res, err := svc.Amortizacion(context.Background(), dto.AmortizacionRequest{
		Capital: dec("10000"), Periodos: 1, TNA: dec("42"), Periodicidad: "mensual",
	})
	require.NoError(t, err)
	require.Len(t, res.Filas, 1)
	assert.True(t, res.Filas[0].Interes.Equal(dec("350")), res.Filas[0].Interes.String())
	assert.True(t, res.Totales.TotalPagar.Equal(dec("10350")), res.Totales.TotalPagar.String())

	res, err = svc.Amortizacion(context.Background(), dto.AmortizacionRequest{
		Capital: dec("12000"), Periodos: 12, TNA: dec("60"), Periodicidad: "mensual",
	})
	require.NoError(t, err)
	assert.Len(t, res.Filas, 12)
	assert.InDelta(t, 0, res.Filas[11].SaldoFinal.InexactFloat64(), 0.01)

	_, err = svc.Amortizacion(context.Background(), dto.AmortizacionRequest{
		Capital: dec("0"), Periodos: 12, TNA: dec("60"), Periodicidad: "mensual",
	})
	assert.ErrorIs(t, err, finanzas.ErrEntradaInvalida)
}

func TestCalculadoraService_Intereses(t *testing.T) {
	svc := newCalculadoraServiceTest(t)

	res, err := svc.Intereses(context.Background(), dto.InteresesRequest{
		Capital: dec("1000"), Desde: "2024-06-21", Hasta: "2024-07-11",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Dias)
	require.Len(t, res.Subperiodos, 2)
	assert.Equal(t, "2024-07-01", res.Subperiodos[0].Hasta)
	assert.Equal(t, "23.15", res.TotalResarcitorio.String())

	_, err = svc.Intereses(context.Background(), dto.InteresesRequest{
		Capital: dec("1000"), Desde: "21/06/2024", Hasta: "2024-07-11",
	})
	assert.ErrorIs(t, err, finanzas.ErrEntradaInvalida)
}

func TestCalculadoraService_Inflacion(t *testing.T) {
	svc := newCalculadoraServiceTest(t)
	monto := dec("100000")

	res, err := svc.Inflacion(context.Background(), dto.InflacionRequest{Desde: "2024-01", Hasta: "2024-03", Monto: &monto})
	require.NoError(t, err)
	assert.Equal(t, 3, res.MesesComputados)
	assert.Empty(t, res.MesesFaltantes)
	assert.Equal(t, "51.54", res.TotalPct.String())
	assert.Equal(t, "1.515363", res.Factor.String())
	require.NotNil(t, res.MontoActualizado)
	assert.Equal(t, "151536.31", res.MontoActualizado.String())
	assert.Equal(t, "2024-01", res.Meses[0].Periodo)

	conHueco, err := svc.Inflacion(context.Background(), dto.InflacionRequest{Desde: "2024-03", Hasta: "2024-05"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04"}, conHueco.MesesFaltantes)
	assert.Nil(t, conHueco.MontoActualizado)
}

func TestCalculadoraService_InflacionErrores(t *testing.T) {
	svc := newCalculadoraServiceTest(t)
	ctx := context.Background()

	_, err := svc.Inflacion(ctx, dto.InflacionRequest{Desde: "2024-13", Hasta: "2024-03"})
	assert.ErrorIs(t, err, finanzas.ErrEntradaInvalida)

	_, err = svc.Inflacion(ctx, dto.InflacionRequest{Desde: "2030-01", Hasta: "2030-02"})
	assert.ErrorIs(t, err, finanzas.ErrSinDatos)

	cero := dec("0")
	_, err = svc.Inflacion(ctx, dto.InflacionRequest{Desde: "2024-01", Hasta: "2024-03", Monto: &cero})
	assert.ErrorIs(t, err, finanzas.ErrEntradaInvalida)
}

func TestCalculadoraService_TasasVigentes(t *testing.T) {
	svc := newCalculadoraServiceTest(t)

	tasas := svc.TasasVigentes(context.Background())
	require.Len(t, tasas, 2)
	assert.Equal(t, "2024-01-01", tasas[0].Desde)
	require.NotNil(t, tasas[0].Hasta)
	assert.Equal(t, "2024-06-30", *tasas[0].Hasta)
	assert.Nil(t, tasas[1].Hasta)
}
