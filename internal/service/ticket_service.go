package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/model"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
)

// ErrNoEncontrado marks a missing ticket, client or document.
var ErrNoEncontrado = errors.New("no encontrado")

type TicketService interface {
	Listar(ctx context.Context, filtro dto.TicketFilter) (*dto.TicketListResponse, error)
	Obtener(ctx context.Context, id string) (*dto.TicketResponse, error)
	Totales(ctx context.Context) ([]dto.TotalTicketResponse, error)
	ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error)
	ObtenerCliente(ctx context.Context, codigo string) (*dto.ClienteResponse, error)
	Antiguedad(ctx context.Context, filtro dto.AntiguedadFilter) (*dto.AntiguedadResponse, error)
}

type ticketService struct {
	repo   repository.MovimientoRepository
	umbral decimal.Decimal
	ahora  func() time.Time
}

// NewTicketService builds the ledger read service. umbralDeuda is the
// default aging threshold in USD.
func NewTicketService(repo repository.MovimientoRepository, umbralDeuda decimal.Decimal) TicketService {
	return &ticketService{repo: repo, umbral: umbralDeuda, ahora: time.Now}
}

func (s *ticketService) todos(ctx context.Context) ([]finanzas.Ticket, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer movimientos: %w", err)
	}
	return finanzas.ReconstruirOrdenado(model.MovimientosFinanzas(rows)), nil
}

// Listar returns every ticket, optionally narrowed by client (code or
// name fragment, case-insensitive) and by balance state.
func (s *ticketService) Listar(ctx context.Context, filtro dto.TicketFilter) (*dto.TicketListResponse, error) {
	tickets, err := s.todos(ctx)
	if err != nil {
		return nil, err
	}
	cliente := strings.ToLower(strings.TrimSpace(filtro.Cliente))

	data := make([]dto.TicketResumenResponse, 0, len(tickets))
	for _, t := range tickets {
		if cliente != "" &&
			!strings.EqualFold(t.CodigoCliente, cliente) &&
			!strings.Contains(strings.ToLower(t.NombreCliente), cliente) {
			continue
		}
		estado := finanzas.Estado(t.SaldoFinal)
		if filtro.Estado != "" && string(estado) != filtro.Estado {
			continue
		}
		data = append(data, ticketToResumen(t))
	}
	return &dto.TicketListResponse{Data: data, Total: len(data)}, nil
}

func (s *ticketService) Obtener(ctx context.Context, id string) (*dto.TicketResponse, error) {
	rows, err := s.repo.ListByTicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer movimientos: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ticket %s: %w", id, ErrNoEncontrado)
	}
	tickets := finanzas.Reconstruir(model.MovimientosFinanzas(rows))
	t, ok := tickets[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, ErrNoEncontrado)
	}
	return ticketToResponse(t), nil
}

// Totales is the lightweight per-ticket rollup, sorted by ticket id.
func (s *ticketService) Totales(ctx context.Context) ([]dto.TotalTicketResponse, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer movimientos: %w", err)
	}
	totales := finanzas.TotalesPorTicket(model.MovimientosFinanzas(rows))
	resp := make([]dto.TotalTicketResponse, len(totales))
	for i, t := range totales {
		resp[i] = dto.TotalTicketResponse{
			TicketID: t.TicketID,
			Venta:    t.Venta,
			Usados:   t.Usados,
			Pagos:    t.Pagos,
			Saldo:    t.Saldo,
		}
	}
	return resp, nil
}

func (s *ticketService) ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error) {
	tickets, err := s.todos(ctx)
	if err != nil {
		return nil, err
	}
	fechas := fechasPorTicket(tickets)
	resumenes := finanzas.ResumirClientes(tickets)
	resp := make([]dto.ClienteResponse, len(resumenes))
	for i := range resumenes {
		resp[i] = clienteToResponse(&resumenes[i], fechas)
	}
	return resp, nil
}

func (s *ticketService) ObtenerCliente(ctx context.Context, codigo string) (*dto.ClienteResponse, error) {
	rows, err := s.repo.ListByCliente(ctx, codigo)
	if err != nil {
		return nil, fmt.Errorf("leer movimientos: %w", err)
	}
	tickets := finanzas.ReconstruirOrdenado(model.MovimientosFinanzas(rows))
	r := finanzas.ResumirCliente(tickets)
	if r == nil {
		return nil, fmt.Errorf("cliente %s: %w", codigo, ErrNoEncontrado)
	}
	resp := clienteToResponse(r, fechasPorTicket(tickets))
	return &resp, nil
}

// Antiguedad classifies open balances into aging bands as of filtro.Fecha
// (today when empty). Only tickets above the threshold are listed.
func (s *ticketService) Antiguedad(ctx context.Context, filtro dto.AntiguedadFilter) (*dto.AntiguedadResponse, error) {
	umbral, hoy, err := s.resolverAntiguedad(filtro)
	if err != nil {
		return nil, err
	}
	tickets, err := s.todos(ctx)
	if err != nil {
		return nil, err
	}

	var items []finanzas.ItemAntiguedad
	if filtro.SinPagos {
		items = finanzas.ClasificarSinPagos(tickets, hoy, umbral)
	} else {
		items = finanzas.ClasificarDeuda(tickets, hoy, umbral)
	}

	resp := &dto.AntiguedadResponse{
		Fecha:    hoy.Format(time.DateOnly),
		Umbral:   umbral,
		SinPagos: filtro.SinPagos,
		Items:    make([]dto.AntiguedadItemResponse, len(items)),
		Resumen:  make(map[string]dto.TramoResponse, len(finanzas.Tramos)),
		Total:    decimal.Zero,
	}
	for i, it := range items {
		resp.Items[i] = dto.AntiguedadItemResponse{
			TicketID:       it.TicketID,
			CodigoCliente:  it.CodigoCliente,
			NombreCliente:  it.NombreCliente,
			FechaOperacion: it.FechaOperacion.Format(time.DateOnly),
			TotalVenta:     it.TotalVenta,
			TotalUsados:    it.TotalUsados,
			TotalPagos:     it.TotalPagos,
			Saldo:          it.Saldo,
			DiasVencidos:   it.DiasVencidos,
			Tramo:          string(it.Tramo),
		}
		resp.Total = resp.Total.Add(it.Saldo)
	}
	for tramo, r := range finanzas.ResumirAntiguedad(items) {
		resp.Resumen[string(tramo)] = dto.TramoResponse{Total: r.Total, Cantidad: r.Cantidad}
	}
	return resp, nil
}

// resolverAntiguedad fills the threshold and reference date defaults.
func (s *ticketService) resolverAntiguedad(filtro dto.AntiguedadFilter) (decimal.Decimal, time.Time, error) {
	umbral := s.umbral
	if filtro.Umbral != "" {
		u, err := decimal.NewFromString(filtro.Umbral)
		if err != nil || u.IsNegative() {
			return decimal.Zero, time.Time{}, fmt.Errorf("%w: umbral invalido %q", finanzas.ErrEntradaInvalida, filtro.Umbral)
		}
		umbral = u
	}
	hoy := finanzas.Fecha(s.ahora())
	if filtro.Fecha != "" {
		t, err := time.Parse(time.DateOnly, filtro.Fecha)
		if err != nil {
			return decimal.Zero, time.Time{}, fmt.Errorf("%w: fecha invalida %q", finanzas.ErrEntradaInvalida, filtro.Fecha)
		}
		hoy = t
	}
	return umbral, hoy, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func formatoFecha(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func ticketToResumen(t finanzas.Ticket) dto.TicketResumenResponse {
	return dto.TicketResumenResponse{
		TicketID:       t.ID,
		CodigoCliente:  t.CodigoCliente,
		NombreCliente:  t.NombreCliente,
		FechaOperacion: formatoFecha(t.FechaOperacion),
		TotalVenta:     t.TotalVenta,
		TotalUsados:    t.TotalUsados,
		SaldoInicial:   t.SaldoInicial,
		TotalPagos:     t.TotalPagos,
		SaldoFinal:     t.SaldoFinal,
		Estado:         string(finanzas.Estado(t.SaldoFinal)),
	}
}

func ticketToResponse(t finanzas.Ticket) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:             t.ID,
		CodigoCliente:  t.CodigoCliente,
		NombreCliente:  t.NombreCliente,
		Vendedor:       t.Vendedor,
		FechaOperacion: formatoFecha(t.FechaOperacion),
		FormaPago:      t.FormaPago,
		Observacion:    t.Observacion,
		Productos:      make([]dto.ProductoResponse, len(t.Productos)),
		Pagos:          make([]dto.PagoResponse, len(t.Pagos)),
		TotalVenta:     t.TotalVenta,
		TotalUsados:    t.TotalUsados,
		SaldoInicial:   t.SaldoInicial,
		TotalPagos:     t.TotalPagos,
		SaldoFinal:     t.SaldoFinal,
		Estado:         string(finanzas.Estado(t.SaldoFinal)),
	}
	for i, p := range t.Productos {
		resp.Productos[i] = dto.ProductoResponse{
			Descripcion:    p.Descripcion,
			Cantidad:       p.Cantidad,
			PrecioUnitario: p.PrecioUnitario,
			PrecioTotal:    p.PrecioTotal,
		}
		if p.Usado != nil {
			resp.Productos[i].Usado = &dto.UsadoResponse{Descripcion: p.Usado.Descripcion, Valor: p.Usado.Valor}
		}
	}
	for i, p := range t.Pagos {
		resp.Pagos[i] = dto.PagoResponse{
			Fecha:         formatoFecha(p.Fecha),
			Detalle:       p.Detalle,
			NumeroRecibo:  p.NumeroRecibo,
			Cuota:         p.Cuota,
			ImportePesos:  p.ImportePesos,
			TipoCambio:    p.TipoCambio,
			ImporteUSD:    p.ImporteUSD,
			SaldoRestante: p.SaldoRestante,
		}
		if p.VencimientoCheque != nil {
			v := p.VencimientoCheque.Format(time.DateOnly)
			resp.Pagos[i].VencimientoCheque = &v
		}
	}
	return resp
}

func fechasPorTicket(tickets []finanzas.Ticket) map[string]time.Time {
	out := make(map[string]time.Time, len(tickets))
	for _, t := range tickets {
		out[t.ID] = t.FechaOperacion
	}
	return out
}

func clienteToResponse(r *finanzas.ResumenCliente, fechas map[string]time.Time) dto.ClienteResponse {
	resp := dto.ClienteResponse{
		CodigoCliente: r.CodigoCliente,
		NombreCliente: r.NombreCliente,
		Tickets:       make([]dto.TicketResumenResponse, len(r.Tickets)),
		TotalVenta:    r.TotalVenta,
		TotalUsados:   r.TotalUsados,
		TotalPagos:    r.TotalPagos,
		SaldoTotal:    r.SaldoTotal,
	}
	for i, t := range r.Tickets {
		resp.Tickets[i] = dto.TicketResumenResponse{
			TicketID:       t.TicketID,
			FechaOperacion: formatoFecha(fechas[t.TicketID]),
			TotalVenta:     t.TotalVenta,
			TotalUsados:    t.TotalUsados,
			SaldoInicial:   t.SaldoInicial,
			TotalPagos:     t.TotalPagos,
			SaldoFinal:     t.SaldoFinal,
			Estado:         string(t.Estado),
		}
	}
	return resp
}
