package infra

// pdf.go: A4 documents rendered with go-pdf/fpdf from core output:
//   - proforma for one ticket (products, trade-ins, totals)
//   - debt statement for one or more tickets (payments with running balance)
//   - refinancing proposal (one plan per quoted option)
//
// Files are saved to storagePath/<nombre>.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
)

const (
	margenPDF   = 12.0
	formatoDia  = "02/01/2006"
	fuentePDF   = "Helvetica"
	altoFilaPDF = 6.0
)

type documentoPDF struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	ancho float64
}

func nuevoPDF(empresa, titulo, orientacion string) *documentoPDF {
	pdf := fpdf.New(orientacion, "mm", "A4", "")
	pdf.SetMargins(margenPDF, margenPDF, margenPDF)
	pdf.SetAutoPageBreak(true, margenPDF)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(fuentePDF, "I", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf("Pagina %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	d := &documentoPDF{pdf: pdf, tr: tr, ancho: pageW - 2*margenPDF}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont(fuentePDF, "B", 14)
	pdf.CellFormat(d.ancho, 8, tr(empresa), "", 1, "L", false, 0, "")
	pdf.SetFont(fuentePDF, "B", 12)
	pdf.CellFormat(d.ancho*0.7, 7, tr(titulo), "", 0, "L", false, 0, "")
	pdf.SetFont(fuentePDF, "", 8)
	pdf.CellFormat(d.ancho*0.3, 7, "Emitido: "+time.Now().Format(formatoDia), "", 1, "R", false, 0, "")
	pdf.Line(margenPDF, pdf.GetY(), pageW-margenPDF, pdf.GetY())
	pdf.Ln(3)
	return d
}

func (d *documentoPDF) dato(etiqueta, valor string) {
	d.pdf.SetFont(fuentePDF, "B", 9)
	d.pdf.CellFormat(40, 5, d.tr(etiqueta), "", 0, "L", false, 0, "")
	d.pdf.SetFont(fuentePDF, "", 9)
	d.pdf.CellFormat(d.ancho-40, 5, d.tr(valor), "", 1, "L", false, 0, "")
}

// tabla draws a header row and body rows; anchos are fractions of the page width.
func (d *documentoPDF) tabla(anchos []float64, alineacion []string, encabezado []string, filas [][]string) {
	d.pdf.SetFont(fuentePDF, "B", 8)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range encabezado {
		d.pdf.CellFormat(d.ancho*anchos[i], altoFilaPDF, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(fuentePDF, "", 8)
	for _, fila := range filas {
		for i, v := range fila {
			d.pdf.CellFormat(d.ancho*anchos[i], altoFilaPDF, d.tr(v), "1", 0, alineacion[i], false, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *documentoPDF) total(etiqueta string, valor decimal.Decimal) {
	d.pdf.SetFont(fuentePDF, "B", 9)
	d.pdf.CellFormat(d.ancho*0.75, altoFilaPDF, d.tr(etiqueta), "", 0, "R", false, 0, "")
	d.pdf.CellFormat(d.ancho*0.25, altoFilaPDF, moneda(valor), "", 1, "R", false, 0, "")
}

func (d *documentoPDF) guardar(storagePath, nombre string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	ruta := filepath.Join(storagePath, nombre+".pdf")
	if err := d.pdf.OutputFileAndClose(ruta); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return ruta, nil
}

func moneda(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func fechaOVacio(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(formatoDia)
}

// GenerarProformaPDF renders the proforma invoice of one ticket.
func GenerarProformaPDF(storagePath, nombre, empresa string, t finanzas.Ticket) (string, error) {
	d := nuevoPDF(empresa, "Proforma - Ticket "+t.ID, "P")
	d.dato("Cliente:", fmt.Sprintf("%s (%s)", t.NombreCliente, t.CodigoCliente))
	d.dato("Fecha operacion:", t.FechaOperacion.Format(formatoDia))
	if t.Vendedor != "" {
		d.dato("Vendedor:", t.Vendedor)
	}
	if t.FormaPago != "" {
		d.dato("Forma de pago:", t.FormaPago)
	}
	d.pdf.Ln(3)

	filas := make([][]string, 0, len(t.Productos)*2)
	for _, p := range t.Productos {
		filas = append(filas, []string{p.Descripcion, p.Cantidad.String(), moneda(p.PrecioUnitario), moneda(p.PrecioTotal)})
		if p.Usado != nil {
			filas = append(filas, []string{"  Usado: " + p.Usado.Descripcion, "", "", "-" + moneda(p.Usado.Valor)})
		}
	}
	d.tabla([]float64{0.5, 0.1, 0.2, 0.2}, []string{"L", "C", "R", "R"},
		[]string{"Descripcion", "Cant.", "Precio unit. USD", "Total USD"}, filas)
	d.pdf.Ln(2)

	d.total("Total venta USD:", t.TotalVenta)
	if !t.TotalUsados.IsZero() {
		d.total("Usados entregados USD:", t.TotalUsados.Neg())
	}
	d.total("Saldo a financiar USD:", t.SaldoInicial)

	if t.Observacion != "" {
		d.pdf.Ln(4)
		d.pdf.SetFont(fuentePDF, "I", 8)
		d.pdf.MultiCell(d.ancho, 4, d.tr("Observaciones: "+t.Observacion), "", "L", false)
	}
	return d.guardar(storagePath, nombre)
}

// GenerarEstadoDeudaPDF renders the payment history and balance of each
// ticket followed by the client totals.
func GenerarEstadoDeudaPDF(storagePath, nombre, empresa string, tickets []finanzas.Ticket) (string, error) {
	titulo := "Estado de deuda"
	if len(tickets) > 0 {
		titulo += " - " + tickets[0].NombreCliente
	}
	d := nuevoPDF(empresa, titulo, "L")

	for i, t := range tickets {
		if i > 0 {
			d.pdf.Ln(4)
		}
		d.pdf.SetFont(fuentePDF, "B", 10)
		d.pdf.CellFormat(d.ancho, 6, d.tr(fmt.Sprintf("Ticket %s - %s", t.ID, t.FechaOperacion.Format(formatoDia))), "", 1, "L", false, 0, "")
		d.dato("Saldo inicial USD:", moneda(t.SaldoInicial))

		filas := make([][]string, 0, len(t.Pagos))
		for _, p := range t.Pagos {
			filas = append(filas, []string{
				p.Fecha.Format(formatoDia), p.Detalle, p.NumeroRecibo, p.Cuota,
				fechaOVacio(p.VencimientoCheque), moneda(p.ImportePesos), moneda(p.TipoCambio),
				moneda(p.ImporteUSD), moneda(p.SaldoRestante),
			})
		}
		if len(filas) > 0 {
			d.tabla(
				[]float64{0.1, 0.14, 0.1, 0.08, 0.1, 0.14, 0.1, 0.12, 0.12},
				[]string{"C", "L", "C", "C", "C", "R", "R", "R", "R"},
				[]string{"Fecha", "Detalle", "Recibo", "Cuota", "Venc. cheque", "Pesos", "T. cambio", "USD", "Saldo USD"},
				filas,
			)
		}
		d.total("Saldo final USD:", t.SaldoFinal)
	}

	if res := finanzas.ResumirCliente(tickets); res != nil && len(tickets) > 1 {
		d.pdf.Ln(4)
		d.total("Total ventas USD:", res.TotalVenta)
		d.total("Total usados USD:", res.TotalUsados)
		d.total("Total pagos USD:", res.TotalPagos)
		d.total("Saldo total USD:", res.SaldoTotal)
	}
	return d.guardar(storagePath, nombre)
}

// DatosRefinanciacion is the context printed above the proposals.
type DatosRefinanciacion struct {
	Cliente    string
	TicketID   string
	DeudaUSD   *decimal.Decimal
	TipoCambio *decimal.Decimal
	DeudaPesos decimal.Decimal
}

// GenerarRefinanciacionPDF renders every proposal with its installment plan.
func GenerarRefinanciacionPDF(storagePath, nombre, empresa string, datos DatosRefinanciacion, propuestas []finanzas.PropuestaRefinanciacion) (string, error) {
	d := nuevoPDF(empresa, "Propuesta de refinanciacion", "P")
	if datos.Cliente != "" {
		d.dato("Cliente:", datos.Cliente)
	}
	if datos.TicketID != "" {
		d.dato("Ticket:", datos.TicketID)
	}
	if datos.DeudaUSD != nil {
		d.dato("Deuda USD:", moneda(*datos.DeudaUSD))
	}
	if datos.TipoCambio != nil {
		d.dato("Tipo de cambio:", moneda(*datos.TipoCambio))
	}
	d.dato("Deuda en pesos:", moneda(datos.DeudaPesos))

	for _, p := range propuestas {
		d.pdf.Ln(4)
		d.pdf.SetFont(fuentePDF, "B", 10)
		d.pdf.CellFormat(d.ancho, 6, d.tr(fmt.Sprintf("%d cuotas al %s%% mensual (coeficiente %s)",
			p.Cuotas, p.TasaMensual.String(), p.Coeficiente.String())), "", 1, "L", false, 0, "")

		filas := make([][]string, 0, len(p.Plan))
		for _, c := range p.Plan {
			filas = append(filas, []string{
				fmt.Sprintf("%d", c.Numero), c.Vencimiento.Format(formatoDia),
				moneda(c.Capital), moneda(c.Interes), moneda(c.Importe), moneda(c.SaldoRestante),
			})
		}
		d.tabla(
			[]float64{0.1, 0.18, 0.18, 0.18, 0.18, 0.18},
			[]string{"C", "C", "R", "R", "R", "R"},
			[]string{"Cuota", "Vencimiento", "Capital", "Interes", "Importe", "Saldo"},
			filas,
		)
		d.total("Total intereses:", p.TotalIntereses)
		d.total("Total a pagar:", p.TotalAPagar)
	}
	return d.guardar(storagePath, nombre)
}
