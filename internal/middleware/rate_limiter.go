package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/caludio70/boletosventa-sub000/internal/apierror"
)

const purgeInterval = 5 * time.Minute

// ventanaIP counts the requests of one IP in the current window.
type ventanaIP struct {
	count     int
	windowEnd time.Time
}

// limitador is a fixed-window counter per client IP. Expired entries are
// dropped every purgeInterval so IPs that never return do not accumulate.
type limitador struct {
	mu        sync.Mutex
	limite    int
	ventana   time.Duration
	entradas  map[string]*ventanaIP
	lastPurge time.Time
	ahora     func() time.Time
}

func newLimitador(limite int, ventana time.Duration) *limitador {
	return &limitador{
		limite:   limite,
		ventana:  ventana,
		entradas: make(map[string]*ventanaIP),
		ahora:    time.Now,
	}
}

// permitir records one request from ip and reports whether it is within the
// limit, along with the end of the current window.
func (l *limitador) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.ahora()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purgar(now)
	}

	e, ok := l.entradas[ip]
	if !ok {
		e = &ventanaIP{}
		l.entradas[ip] = e
	}
	if now.After(e.windowEnd) {
		e.count = 0
		e.windowEnd = now.Add(l.ventana)
	}
	e.count++
	return e.count <= l.limite, e.windowEnd
}

func (l *limitador) purgar(now time.Time) {
	purged := 0
	for ip, e := range l.entradas {
		if now.After(e.windowEnd) {
			delete(l.entradas, ip)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().
			Int("purged", purged).
			Int("remaining", len(l.entradas)).
			Msg("rate limiter entries purged")
	}
}

// LoginRateLimiter limits login and refresh attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimitador(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter limits every request to limit per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimitador(limit, window)
	return func(c *gin.Context) {
		ok, windowEnd := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
