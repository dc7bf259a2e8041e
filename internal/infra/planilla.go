package infra

// planilla.go: reads the operations spreadsheet (.xlsx) into raw
// finanzas.Movimiento rows. Columns are matched by header name, ignoring
// case, accents and punctuation, so "Nº Ticket", "nro. ticket" and
// "NUMERO TICKET" all land on the same field. Row order is preserved.

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
)

// ErrPlanillaSinEncabezado is returned when no sheet has a ticket column.
var ErrPlanillaSinEncabezado = errors.New("planilla: no se encontro una fila de encabezados con la columna de ticket")

// maxFilasEncabezado bounds how far down the header row is searched.
const maxFilasEncabezado = 10

type columna int

const (
	colTicket columna = iota
	colFechaOperacion
	colCodigoCliente
	colNombreCliente
	colVendedor
	colProducto
	colCantidad
	colPrecioUnitario
	colTotalOperacion
	colUsadoDescripcion
	colUsadoValor
	colFormaPago
	colFechaPago
	colRecibo
	colCuota
	colDetalle
	colVencimientoCheque
	colTipoCambio
	colImportePesos
	colImporteUSD
	colSaldo
	colObservacion
)

// alias maps normalized header text to its column.
var alias = map[string]columna{
	"ticket": colTicket, "n ticket": colTicket, "nro ticket": colTicket, "numero ticket": colTicket,
	"numero de ticket": colTicket, "boleto": colTicket, "id ticket": colTicket,
	"fecha": colFechaOperacion, "fecha operacion": colFechaOperacion, "fecha de operacion": colFechaOperacion,
	"codigo cliente": colCodigoCliente, "cod cliente": colCodigoCliente, "codigo de cliente": colCodigoCliente,
	"cliente": colNombreCliente, "nombre cliente": colNombreCliente, "nombre": colNombreCliente, "razon social": colNombreCliente,
	"vendedor": colVendedor,
	"producto": colProducto, "descripcion": colProducto, "unidad": colProducto,
	"cantidad": colCantidad, "cant": colCantidad,
	"precio unitario": colPrecioUnitario, "precio unit": colPrecioUnitario, "p unitario": colPrecioUnitario,
	"total operacion": colTotalOperacion, "total": colTotalOperacion, "total venta": colTotalOperacion,
	"usado": colUsadoDescripcion, "usado descripcion": colUsadoDescripcion, "descripcion usado": colUsadoDescripcion,
	"valor usado": colUsadoValor, "usado valor": colUsadoValor,
	"forma de pago": colFormaPago, "forma pago": colFormaPago,
	"fecha pago": colFechaPago, "fecha de pago": colFechaPago,
	"recibo": colRecibo, "nro recibo": colRecibo, "numero recibo": colRecibo, "n recibo": colRecibo,
	"cuota": colCuota,
	"detalle": colDetalle, "instrumento": colDetalle, "medio de pago": colDetalle,
	"vencimiento cheque": colVencimientoCheque, "venc cheque": colVencimientoCheque, "vto cheque": colVencimientoCheque,
	"tipo de cambio": colTipoCambio, "tipo cambio": colTipoCambio, "tc": colTipoCambio, "cotizacion": colTipoCambio,
	"importe pesos": colImportePesos, "pesos": colImportePesos, "importe ars": colImportePesos,
	"importe usd": colImporteUSD, "usd": colImporteUSD, "importe dolares": colImporteUSD, "dolares": colImporteUSD,
	"saldo": colSaldo,
	"observacion": colObservacion, "observaciones": colObservacion, "nota": colObservacion,
}

var (
	noAlfanumerico = regexp.MustCompile(`[^a-z0-9 ]+`)
	espacios       = regexp.MustCompile(`\s+`)
)

// NormalizarEncabezado lower-cases s, strips accents and punctuation and
// collapses whitespace.
func NormalizarEncabezado(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	out, _, _ := transform.String(t, s)
	out = strings.ToLower(out)
	out = noAlfanumerico.ReplaceAllString(out, " ")
	out = espacios.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// ResultadoPlanilla is the parsed content of one spreadsheet.
type ResultadoPlanilla struct {
	Hoja         string
	Movimientos  []finanzas.Movimiento
	Omitidas     int
	Advertencias []string
}

// LeerPlanilla parses the first sheet that has a recognizable header row.
// Rows without a ticket id are skipped and counted in Omitidas; cells that
// cannot be parsed produce a warning and are left empty.
func LeerPlanilla(r io.Reader) (*ResultadoPlanilla, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("planilla: abrir archivo: %w", err)
	}
	defer f.Close()

	for _, hoja := range f.GetSheetList() {
		filas, err := f.GetRows(hoja, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("planilla: leer hoja %q: %w", hoja, err)
		}
		idxEnc, cols := buscarEncabezado(filas)
		if idxEnc < 0 {
			continue
		}
		res := &ResultadoPlanilla{Hoja: hoja}
		for i := idxEnc + 1; i < len(filas); i++ {
			lector := celdas{fila: filas[i], cols: cols, linea: i + 1, res: res}
			if lector.vacia() {
				continue
			}
			mov, ok := lector.movimiento()
			if !ok {
				res.Omitidas++
				continue
			}
			res.Movimientos = append(res.Movimientos, mov)
		}
		return res, nil
	}
	return nil, ErrPlanillaSinEncabezado
}

func buscarEncabezado(filas [][]string) (int, map[columna]int) {
	for i := 0; i < len(filas) && i < maxFilasEncabezado; i++ {
		cols := make(map[columna]int)
		for j, celda := range filas[i] {
			c, ok := alias[NormalizarEncabezado(celda)]
			if !ok {
				continue
			}
			if _, dup := cols[c]; !dup {
				cols[c] = j
			}
		}
		if _, ok := cols[colTicket]; ok {
			return i, cols
		}
	}
	return -1, nil
}

// celdas reads typed values out of one data row.
type celdas struct {
	fila  []string
	cols  map[columna]int
	linea int
	res   *ResultadoPlanilla
}

func (c celdas) vacia() bool {
	for _, v := range c.fila {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (c celdas) texto(col columna) string {
	j, ok := c.cols[col]
	if !ok || j >= len(c.fila) {
		return ""
	}
	return strings.TrimSpace(c.fila[j])
}

func (c celdas) advertir(col, valor string) {
	c.res.Advertencias = append(c.res.Advertencias,
		fmt.Sprintf("fila %d: %s invalido (%q)", c.linea, col, valor))
}

func (c celdas) importe(col columna, nombre string) decimal.Decimal {
	v := c.texto(col)
	if v == "" {
		return decimal.Zero
	}
	d, err := ParsearImporte(v)
	if err != nil {
		c.advertir(nombre, v)
		return decimal.Zero
	}
	return d
}

func (c celdas) fecha(col columna, nombre string) *time.Time {
	v := c.texto(col)
	if v == "" {
		return nil
	}
	t, err := ParsearFecha(v)
	if err != nil {
		c.advertir(nombre, v)
		return nil
	}
	return &t
}

func (c celdas) movimiento() (finanzas.Movimiento, bool) {
	ticket := c.texto(colTicket)
	if ticket == "" {
		return finanzas.Movimiento{}, false
	}
	// numeric ticket ids come back as "22283" or, from some exports, "22283.0"
	ticket = strings.TrimSuffix(ticket, ".0")

	m := finanzas.Movimiento{
		TicketID:          ticket,
		CodigoCliente:     c.texto(colCodigoCliente),
		NombreCliente:     c.texto(colNombreCliente),
		Vendedor:          c.texto(colVendedor),
		Producto:          c.texto(colProducto),
		Cantidad:          c.importe(colCantidad, "cantidad"),
		PrecioUnitario:    c.importe(colPrecioUnitario, "precio unitario"),
		TotalOperacion:    c.importe(colTotalOperacion, "total"),
		UsadoDescripcion:  c.texto(colUsadoDescripcion),
		UsadoValor:        c.importe(colUsadoValor, "valor usado"),
		FormaPago:         c.texto(colFormaPago),
		FechaPago:         c.fecha(colFechaPago, "fecha de pago"),
		NumeroRecibo:      c.texto(colRecibo),
		Cuota:             c.texto(colCuota),
		Detalle:           c.texto(colDetalle),
		VencimientoCheque: c.fecha(colVencimientoCheque, "vencimiento de cheque"),
		TipoCambio:        c.importe(colTipoCambio, "tipo de cambio"),
		ImportePesos:      c.importe(colImportePesos, "importe en pesos"),
		ImporteUSD:        c.importe(colImporteUSD, "importe en USD"),
		Observacion:       c.texto(colObservacion),
	}
	if f := c.fecha(colFechaOperacion, "fecha de operacion"); f != nil {
		m.FechaOperacion = *f
	}
	if c.texto(colSaldo) != "" {
		s := c.importe(colSaldo, "saldo")
		m.SaldoInformado = &s
	}
	return m, true
}

var (
	limpiarImporte = strings.NewReplacer("US$", "", "U$S", "", "USD", "", "$", "", " ", "", "\u00a0", "")
	quitarEspacios = strings.NewReplacer(" ", "", "\u00a0", "")
)

// ParsearImporte accepts plain numbers ("1234.56") and Argentine formatted
// amounts ("1.234,56", "$ 1.234"). Raw numeric cells arrive with a dot
// decimal, so a lone dot is a decimal separator ("300.500" is 300.5) unless
// more than one dot is present, or the text carries a currency symbol and
// exactly three digits follow the dot ("$ 1.234" is 1234).
func ParsearImporte(s string) (decimal.Decimal, error) {
	limpio := limpiarImporte.Replace(strings.TrimSpace(s))
	conMoneda := limpio != quitarEspacios.Replace(strings.TrimSpace(s))
	s = limpio
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	if conMoneda && strings.Count(s, ".") == 1 && !strings.Contains(s, ",") && len(s)-strings.Index(s, ".") == 4 {
		s = strings.Replace(s, ".", "", 1)
	}
	coma := strings.LastIndex(s, ",")
	punto := strings.LastIndex(s, ".")
	switch {
	case coma >= 0 && punto >= 0:
		if coma > punto {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case coma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}

var formatosFecha = []string{"02/01/2006", "2/1/2006", "02-01-2006", "2006-01-02", "02/01/06", "2/1/06"}

// ParsearFecha accepts dd/mm/yyyy, yyyy-mm-dd and Excel serial dates.
func ParsearFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return finanzas.Fecha(t), nil
	}
	// "2024-03-01 00:00:00" and RFC 3339 from some exports
	if len(s) > 10 && s[4] == '-' {
		s = s[:10]
	}
	for _, layout := range formatosFecha {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha no reconocida: %q", s)
}
