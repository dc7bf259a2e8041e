package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Cotizacion is the USD quote returned by the exchange-rate feed.
type Cotizacion struct {
	Compra             decimal.Decimal `json:"compra"`
	Venta              decimal.Decimal `json:"venta"`
	FechaActualizacion string          `json:"fechaActualizacion"`
}

// ErrCotizacionInvalida is returned when the feed answers with a non-positive rate.
var ErrCotizacionInvalida = errors.New("cotizacion: el proveedor devolvio una cotizacion invalida")

// CotizacionClient fetches the current USD selling rate from an HTTP feed.
// Every call goes through a circuit breaker so a downed provider fails fast.
type CotizacionClient struct {
	url        string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewCotizacionClient(url string, cb *CircuitBreaker) *CotizacionClient {
	return &CotizacionClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         cb,
	}
}

// CircuitState exposes the breaker state for health checks.
func (c *CotizacionClient) CircuitState() CBState { return c.cb.State() }

// Obtener GETs the quote. It returns ErrCircuitOpen without touching the
// network while the breaker is open.
func (c *CotizacionClient) Obtener(ctx context.Context) (*Cotizacion, error) {
	var out *Cotizacion
	err := c.cb.Execute(func() error {
		q, err := c.fetch(ctx)
		if err != nil {
			return err
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CotizacionClient) fetch(ctx context.Context) (*Cotizacion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("cotizacion: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cotizacion: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cotizacion: provider returned %d", resp.StatusCode)
	}

	var q Cotizacion
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("cotizacion: decode response: %w", err)
	}
	if !q.Venta.IsPositive() {
		return nil, ErrCotizacionInvalida
	}
	return &q, nil
}
