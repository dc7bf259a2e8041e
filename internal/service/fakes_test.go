package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/model"
	"github.com/caludio70/boletosventa-sub000/internal/worker"
)

// ── In-memory Repository Stubs ───────────────────────────────────────────────

type stubMovimientoRepo struct {
	rows  []model.MovimientoTicket
	lotes []model.LoteImportacion
	err   error
}

func (r *stubMovimientoRepo) Reemplazar(_ context.Context, lote *model.LoteImportacion, movs []model.MovimientoTicket) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append([]model.MovimientoTicket(nil), movs...)
	r.lotes = []model.LoteImportacion{*lote}
	return nil
}

func (r *stubMovimientoRepo) Agregar(_ context.Context, lote *model.LoteImportacion, movs []model.MovimientoTicket) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, movs...)
	r.lotes = append(r.lotes, *lote)
	return nil
}

func (r *stubMovimientoRepo) ListAll(_ context.Context) ([]model.MovimientoTicket, error) {
	return r.rows, r.err
}

func (r *stubMovimientoRepo) ListByTicket(_ context.Context, id string) ([]model.MovimientoTicket, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.MovimientoTicket
	for _, m := range r.rows {
		if m.TicketID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) ListByCliente(_ context.Context, codigo string) ([]model.MovimientoTicket, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.MovimientoTicket
	for _, m := range r.rows {
		if strings.EqualFold(m.CodigoCliente, codigo) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) FindLote(_ context.Context, id uuid.UUID) (*model.LoteImportacion, error) {
	for _, l := range r.lotes {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, errors.New("not found")
}

type stubDocumentoRepo struct {
	docs map[uuid.UUID]*model.Documento
}

func newStubDocumentoRepo() *stubDocumentoRepo {
	return &stubDocumentoRepo{docs: make(map[uuid.UUID]*model.Documento)}
}

func (r *stubDocumentoRepo) Create(_ context.Context, d *model.Documento) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	r.docs[d.ID] = d
	return nil
}

func (r *stubDocumentoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Documento, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (r *stubDocumentoRepo) Update(_ context.Context, d *model.Documento) error {
	r.docs[d.ID] = d
	return nil
}

func (r *stubDocumentoRepo) ListPendingRetries(_ context.Context, _ time.Time, _ int) ([]model.Documento, error) {
	return nil, nil
}

type stubUsuarioRepo struct {
	users map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.Username] = u
	return nil
}

// ── Queue / cache / feed stubs ───────────────────────────────────────────────

type stubDispatcher struct {
	jobs []worker.DocumentoJobPayload
	err  error
}

func (d *stubDispatcher) EnqueueDocumento(_ context.Context, p worker.DocumentoJobPayload) error {
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, p)
	return nil
}

type stubProveedor struct {
	q     *infra.Cotizacion
	err   error
	calls int
}

func (p *stubProveedor) Obtener(_ context.Context) (*infra.Cotizacion, error) {
	p.calls++
	return p.q, p.err
}

type stubCache struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *stubCache) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *stubCache) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	c.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (c *stubCache) expirar(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

type stubCotizacionService struct {
	venta decimal.Decimal
	err   error
}

func (s *stubCotizacionService) Obtener(_ context.Context) (*dto.CotizacionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CotizacionResponse{Compra: s.venta, Venta: s.venta, Fuente: FuenteEnVivo}, nil
}

func (s *stubCotizacionService) TipoCambioVenta(_ context.Context) (decimal.Decimal, error) {
	return s.venta, s.err
}

// ── Rows ─────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dia(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func diaPtr(s string) *time.Time {
	t := dia(s)
	return &t
}

func filaVenta(ticket, cliente, nombre, fecha, total string) model.MovimientoTicket {
	return model.MovimientoTicket{
		TicketID: ticket, FechaOperacion: dia(fecha),
		CodigoCliente: cliente, NombreCliente: nombre,
		Producto: "Unidad " + ticket, Cantidad: dec("1"),
		PrecioUnitario: dec(total), TotalOperacion: dec(total),
	}
}

func filaPago(ticket, cliente, fecha, usd string) model.MovimientoTicket {
	return model.MovimientoTicket{
		TicketID: ticket, CodigoCliente: cliente, FechaPago: diaPtr(fecha),
		ImporteUSD: dec(usd), TipoCambio: dec("1000"), ImportePesos: dec(usd).Mul(dec("1000")),
		Detalle: "transferencia",
	}
}

// libroPrueba has three tickets for two clients:
//
//	T-1 C01 30000 sold, 29950 paid -> saldo 50 (saldado)
//	T-2 C01 10000 sold, 9500 paid  -> saldo 500 (proceso)
//	T-3 C02 45000 sold, nothing    -> saldo 45000 (pendiente)
func libroPrueba() []model.MovimientoTicket {
	return []model.MovimientoTicket{
		filaVenta("T-1", "C01", "Agro Norte", "2024-01-10", "30000"),
		filaPago("T-1", "C01", "2024-02-01", "29950"),
		filaVenta("T-2", "C01", "Agro Norte", "2024-06-20", "10000"),
		filaPago("T-2", "C01", "2024-07-01", "9500"),
		filaVenta("T-3", "C02", "Fletes del Litoral", "2024-08-15", "45000"),
	}
}
