package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
)

const (
	FuenteEnVivo         = "en_vivo"
	FuenteCache          = "cache"
	FuenteUltimoConocido = "ultimo_conocido"
)

const (
	cotizacionCacheKey  = "cotizacion:usd"
	cotizacionUltimaKey = "cotizacion:usd:ultima"
)

// ErrCotizacionNoDisponible is returned when the feed is down and no
// previous quote is known.
var ErrCotizacionNoDisponible = errors.New("cotizacion del dolar no disponible")

// ProveedorCotizacion fetches a live quote. *infra.CotizacionClient
// satisfies it.
type ProveedorCotizacion interface {
	Obtener(ctx context.Context) (*infra.Cotizacion, error)
}

// CacheCotizacion is the part of the Redis client used to cache quotes.
type CacheCotizacion interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type CotizacionService interface {
	Obtener(ctx context.Context) (*dto.CotizacionResponse, error)
	// TipoCambioVenta is the selling rate used to convert USD debt.
	TipoCambioVenta(ctx context.Context) (decimal.Decimal, error)
}

type cotizacionService struct {
	proveedor ProveedorCotizacion
	cache     CacheCotizacion
	ttl       time.Duration
	ahora     func() time.Time

	mu     sync.RWMutex
	ultima *dto.CotizacionResponse
}

func NewCotizacionService(proveedor ProveedorCotizacion, cache CacheCotizacion, ttl time.Duration) CotizacionService {
	return &cotizacionService{proveedor: proveedor, cache: cache, ttl: ttl, ahora: time.Now}
}

// Obtener serves the cached quote while fresh, otherwise asks the feed.
// When the feed fails the last known quote is returned instead.
func (s *cotizacionService) Obtener(ctx context.Context) (*dto.CotizacionResponse, error) {
	if c, ok := s.leerCache(ctx, cotizacionCacheKey); ok {
		c.Fuente = FuenteCache
		return c, nil
	}

	q, err := s.proveedor.Obtener(ctx)
	if err == nil {
		resp := &dto.CotizacionResponse{
			Compra:        q.Compra,
			Venta:         q.Venta,
			Fuente:        FuenteEnVivo,
			ActualizadoEn: s.ahora().UTC().Format(time.RFC3339),
		}
		s.guardar(ctx, resp)
		return resp, nil
	}

	log.Warn().Err(err).Msg("cotizacion: feed no disponible, usando ultimo valor conocido")
	if c, ok := s.leerCache(ctx, cotizacionUltimaKey); ok {
		c.Fuente = FuenteUltimoConocido
		return c, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ultima != nil {
		c := *s.ultima
		c.Fuente = FuenteUltimoConocido
		return &c, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrCotizacionNoDisponible, err)
}

func (s *cotizacionService) TipoCambioVenta(ctx context.Context) (decimal.Decimal, error) {
	c, err := s.Obtener(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Venta, nil
}

func (s *cotizacionService) leerCache(ctx context.Context, key string) (*dto.CotizacionResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cotizacion: cache read failed")
		}
		return nil, false
	}
	var c dto.CotizacionResponse
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, false
	}
	return &c, true
}

func (s *cotizacionService) guardar(ctx context.Context, c *dto.CotizacionResponse) {
	s.mu.Lock()
	copia := *c
	s.ultima = &copia
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cotizacionCacheKey, data, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("cotizacion: cache write failed")
	}
	// no expiry: fallback when the feed is down
	if err := s.cache.Set(ctx, cotizacionUltimaKey, data, 0).Err(); err != nil {
		log.Warn().Err(err).Msg("cotizacion: cache write failed")
	}
}
