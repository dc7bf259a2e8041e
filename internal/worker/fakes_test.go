package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/model"
)

// ── In-memory Redis lists ────────────────────────────────────────────────────

type colaFake struct {
	mu     sync.Mutex
	listas map[string][]string
}

func newColaFake() *colaFake { return &colaFake{listas: make(map[string][]string)} }

func (c *colaFake) LPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range values {
		var s string
		switch x := v.(type) {
		case []byte:
			s = string(x)
		case string:
			s = x
		default:
			s = fmt.Sprint(x)
		}
		c.listas[key] = append([]string{s}, c.listas[key]...)
	}
	return redis.NewIntResult(int64(len(c.listas[key])), nil)
}

func (c *colaFake) BRPop(_ context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	c.mu.Lock()
	for _, k := range keys {
		l := c.listas[k]
		if len(l) > 0 {
			v := l[len(l)-1]
			c.listas[k] = l[:len(l)-1]
			c.mu.Unlock()
			return redis.NewStringSliceResult([]string{k, v}, nil)
		}
	}
	c.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	return redis.NewStringSliceResult(nil, redis.Nil)
}

func (c *colaFake) LLen(_ context.Context, key string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	return redis.NewIntResult(int64(len(c.listas[key])), nil)
}

func (c *colaFake) items(key string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.listas[key]...)
}

// ── Repositories ─────────────────────────────────────────────────────────────

type documentosFake struct {
	docs       map[uuid.UUID]*model.Documento
	pendientes []model.Documento
	updates    int
	// errUpdate is returned by every Update after the first okUpdates calls
	errUpdate  error
	okUpdates  int
}

func newDocumentosFake(docs ...*model.Documento) *documentosFake {
	f := &documentosFake{docs: make(map[uuid.UUID]*model.Documento)}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	return f
}

func (f *documentosFake) FindByID(_ context.Context, id uuid.UUID) (*model.Documento, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (f *documentosFake) Update(_ context.Context, d *model.Documento) error {
	f.updates++
	if f.errUpdate != nil && f.updates > f.okUpdates {
		return f.errUpdate
	}
	f.docs[d.ID] = d
	return nil
}

func (f *documentosFake) ListPendingRetries(_ context.Context, _ time.Time, limit int) ([]model.Documento, error) {
	if len(f.pendientes) > limit {
		return f.pendientes[:limit], nil
	}
	return f.pendientes, nil
}

type movimientosFake struct {
	rows []model.MovimientoTicket
	err  error
}

func (f *movimientosFake) ListAll(_ context.Context) ([]model.MovimientoTicket, error) {
	return f.rows, f.err
}

func (f *movimientosFake) ListByTicket(_ context.Context, ticketID string) ([]model.MovimientoTicket, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.MovimientoTicket
	for _, r := range f.rows {
		if r.TicketID == ticketID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *movimientosFake) ListByCliente(_ context.Context, codigo string) ([]model.MovimientoTicket, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.MovimientoTicket
	for _, r := range f.rows {
		if r.CodigoCliente == codigo {
			out = append(out, r)
		}
	}
	return out, nil
}

// ── Queues ───────────────────────────────────────────────────────────────────

type emailsFake struct{ jobs []EmailJobPayload }

func (f *emailsFake) EnqueueEmail(_ context.Context, p EmailJobPayload) error {
	f.jobs = append(f.jobs, p)
	return nil
}

type documentosEncoladosFake struct {
	jobs []DocumentoJobPayload
	err  error
}

func (f *documentosEncoladosFake) EnqueueDocumento(_ context.Context, p DocumentoJobPayload) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, p)
	return nil
}

type enviadorFake struct {
	to, subject, adjunto string
	err                  error
}

func (f *enviadorFake) EnviarDocumento(to, subject, _, adjunto string) error {
	f.to, f.subject, f.adjunto = to, subject, adjunto
	return f.err
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

func filasTicket() []model.MovimientoTicket {
	pago := dia("2024-03-10")
	return []model.MovimientoTicket{
		{
			TicketID: "T-100", FechaOperacion: dia("2024-03-01"),
			CodigoCliente: "C01", NombreCliente: "Agro Norte",
			Producto: "Camion Iveco Tector", Cantidad: dec("1"),
			PrecioUnitario: dec("50000"), TotalOperacion: dec("50000"),
		},
		{
			TicketID: "T-100", CodigoCliente: "C01", FechaPago: &pago,
			ImporteUSD: dec("20000"), TipoCambio: dec("1000"), ImportePesos: dec("20000000"),
			Detalle: "transferencia",
		},
	}
}
