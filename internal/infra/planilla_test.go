package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func planillaPrueba(t *testing.T, filas [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", celda, &fila))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestLeerPlanilla(t *testing.T) {
	buf := planillaPrueba(t, [][]interface{}{
		{"Reporte de operaciones"},
		{"Nº Ticket", "Fecha Operación", "Código Cliente", "Cliente", "Producto", "Total Operación", "Usado", "Valor Usado", "Fecha de Pago", "Importe USD", "Tipo de Cambio", "Observaciones"},
		{22283, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "C001", "Perez", "Hilux SRV", 300500, "Corolla 2015", 12000, nil, nil, nil, "entrega en marzo"},
		{"22283", "10/01/2024", "C001", "Perez", "", nil, "", nil, "15/02/2024", "1.234,56", "1050,5", ""},
		{"", "", "", "", "", "", "", "", "", "", "", "fila sin ticket"},
		{},
		{"22290", "2024-03-05", "C002", "Gomez", "Ranger", "45000.50", "", "", "fecha mala", "100", "", ""},
	})

	res, err := LeerPlanilla(buf)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", res.Hoja)
	assert.Equal(t, 1, res.Omitidas)
	require.Len(t, res.Movimientos, 3)

	venta := res.Movimientos[0]
	assert.Equal(t, "22283", venta.TicketID)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), venta.FechaOperacion)
	assert.Equal(t, "300500", venta.TotalOperacion.String())
	assert.Equal(t, "12000", venta.UsadoValor.String())
	assert.Equal(t, "entrega en marzo", venta.Observacion)
	assert.True(t, venta.EsVenta())
	assert.False(t, venta.EsPago())

	pago := res.Movimientos[1]
	require.NotNil(t, pago.FechaPago)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), *pago.FechaPago)
	assert.Equal(t, "1234.56", pago.ImporteUSD.String())
	assert.Equal(t, "1050.5", pago.TipoCambio.String())
	assert.True(t, pago.EsPago())

	mala := res.Movimientos[2]
	assert.Nil(t, mala.FechaPago)
	assert.Equal(t, "45000.5", mala.TotalOperacion.String())
	require.Len(t, res.Advertencias, 1)
	assert.Contains(t, res.Advertencias[0], "fecha de pago")
}

func TestLeerPlanilla_SinEncabezado(t *testing.T) {
	buf := planillaPrueba(t, [][]interface{}{{"a", "b"}, {1, 2}})
	_, err := LeerPlanilla(buf)
	assert.ErrorIs(t, err, ErrPlanillaSinEncabezado)
}

func TestNormalizarEncabezado(t *testing.T) {
	assert.Equal(t, "n ticket", NormalizarEncabezado("  Nº  Ticket "))
	assert.Equal(t, "fecha operacion", NormalizarEncabezado("FECHA OPERACIÓN"))
	assert.Equal(t, "nro recibo", NormalizarEncabezado("Nro. Recibo"))
}

func TestParsearImporte(t *testing.T) {
	cases := map[string]string{
		"1.234,56":    "1234.56",
		"1234.56":     "1234.56",
		"$ 1.234.567": "1234567",
		"1,234.5":     "1234.5",
		"US$ 250":     "250",
		"12,5":        "12.5",
		"":            "0",
		"-150,25":     "-150.25",
		"$ 1.234":     "1234",
		"USD 300.500": "300500",
		"300.500":     "300.5",
		"$ 12.5":      "12.5",
	}
	for in, want := range cases {
		got, err := ParsearImporte(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}

	_, err := ParsearImporte("doce")
	assert.Error(t, err)
}

func TestParsearFecha(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"01/03/2024", "1/3/2024", "2024-03-01", "2024-03-01 00:00:00", "45352"} {
		got, err := ParsearFecha(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsearFecha("marzo")
	assert.Error(t, err)
}
