package infra

// excel.go: XLSX exports of the amortization schedule and the debt aging
// report, written with excelize. Files are saved to storagePath/<nombre>.xlsx.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
)

const formatoMoneda = "#,##0.00"

type hojaXLSX struct {
	f       *excelize.File
	nombre  string
	fila    int
	negrita int
	moneda  int
}

func nuevaHoja(titulo string) (*hojaXLSX, error) {
	f := excelize.NewFile()
	const hoja = "Sheet1"
	if err := f.SetSheetName(hoja, titulo); err != nil {
		_ = f.Close()
		return nil, err
	}
	negrita, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	formato := formatoMoneda
	moneda, err := f.NewStyle(&excelize.Style{CustomNumFmt: &formato})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &hojaXLSX{f: f, nombre: titulo, fila: 1, negrita: negrita, moneda: moneda}, nil
}

// escribir appends one row; decimal values are written as numbers with the
// currency format.
func (h *hojaXLSX) escribir(valores []interface{}, estilo int) error {
	celdas := make([]interface{}, len(valores))
	for i, v := range valores {
		if d, ok := v.(decimal.Decimal); ok {
			celdas[i] = d.InexactFloat64()
			continue
		}
		celdas[i] = v
	}
	inicio, err := excelize.CoordinatesToCellName(1, h.fila)
	if err != nil {
		return err
	}
	if err := h.f.SetSheetRow(h.nombre, inicio, &celdas); err != nil {
		return err
	}
	for i, v := range valores {
		st := estilo
		if _, ok := v.(decimal.Decimal); ok && estilo == 0 {
			st = h.moneda
		}
		if st == 0 {
			continue
		}
		celda, err := excelize.CoordinatesToCellName(i+1, h.fila)
		if err != nil {
			return err
		}
		if err := h.f.SetCellStyle(h.nombre, celda, celda, st); err != nil {
			return err
		}
	}
	h.fila++
	return nil
}

func (h *hojaXLSX) guardar(storagePath, nombre string) (string, error) {
	defer h.f.Close()
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("xlsx: create storage dir: %w", err)
	}
	ruta := filepath.Join(storagePath, nombre+".xlsx")
	if err := h.f.SaveAs(ruta); err != nil {
		return "", fmt.Errorf("xlsx: write file: %w", err)
	}
	return ruta, nil
}

// GenerarAmortizacionXLSX writes the French-system schedule with its rate
// summary and totals.
func GenerarAmortizacionXLSX(storagePath, nombre string, p finanzas.ParametrosAmortizacion, tasas finanzas.Tasas, filas []finanzas.FilaAmortizacion) (string, error) {
	h, err := nuevaHoja("Amortizacion")
	if err != nil {
		return "", err
	}
	tot := finanzas.Totalizar(filas)
	encabezado := [][]interface{}{
		{"Capital", p.Capital},
		{"Periodos", p.Periodos},
		{"Periodicidad", string(p.Periodicidad)},
		{"TNA %", tasas.TNA},
		{"TEM %", tasas.TEM},
		{"TEA %", tasas.TEA.Round(2)},
		{"Tasa periodica %", tasas.TasaPeriodica},
		{},
	}
	for _, fila := range encabezado {
		if err := h.escribir(fila, 0); err != nil {
			return "", err
		}
	}
	if err := h.escribir([]interface{}{"Periodo", "Saldo inicial", "Cuota", "Capital", "Interes", "Impuesto", "Cuota total", "Saldo final"}, h.negrita); err != nil {
		return "", err
	}
	for _, f := range filas {
		fila := []interface{}{f.Periodo, f.SaldoInicial, f.Cuota, f.Capital, f.Interes, f.Impuesto, f.CuotaTotal, f.SaldoFinal}
		if err := h.escribir(fila, 0); err != nil {
			return "", err
		}
	}
	if err := h.escribir([]interface{}{"Totales", "", "", tot.Capital, tot.Interes, tot.Impuesto, tot.TotalPagar}, 0); err != nil {
		return "", err
	}
	return h.guardar(storagePath, nombre)
}

// GenerarAntiguedadXLSX writes the aging items followed by the four-bucket
// rollup.
func GenerarAntiguedadXLSX(storagePath, nombre string, fecha time.Time, items []finanzas.ItemAntiguedad) (string, error) {
	h, err := nuevaHoja("Antiguedad")
	if err != nil {
		return "", err
	}
	if err := h.escribir([]interface{}{"Antiguedad de deuda al", fecha.Format("02/01/2006")}, h.negrita); err != nil {
		return "", err
	}
	if err := h.escribir([]interface{}{"Ticket", "Codigo", "Cliente", "Fecha operacion", "Venta", "Usados", "Pagos", "Saldo", "Dias", "Tramo"}, h.negrita); err != nil {
		return "", err
	}
	for _, it := range items {
		fila := []interface{}{
			it.TicketID, it.CodigoCliente, it.NombreCliente, it.FechaOperacion.Format("02/01/2006"),
			it.TotalVenta, it.TotalUsados, it.TotalPagos, it.Saldo, it.DiasVencidos, string(it.Tramo),
		}
		if err := h.escribir(fila, 0); err != nil {
			return "", err
		}
	}
	if err := h.escribir([]interface{}{}, 0); err != nil {
		return "", err
	}
	if err := h.escribir([]interface{}{"Tramo", "Cantidad", "Total"}, h.negrita); err != nil {
		return "", err
	}
	resumen := finanzas.ResumirAntiguedad(items)
	for _, tr := range finanzas.Tramos {
		r := resumen[tr]
		if err := h.escribir([]interface{}{string(tr), r.Cantidad, r.Total}, 0); err != nil {
			return "", err
		}
	}
	return h.guardar(storagePath, nombre)
}
