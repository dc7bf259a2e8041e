package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Closed → Open → Half-Open breaker guarding calls to the exchange-rate feed.
// While open, callers fall back to the cached quote instead of waiting on a
// provider that is known to be down.

type CBState int

const (
	CBClosed   CBState = iota // requests flow
	CBOpen                    // fast-fail
	CBHalfOpen                // one probe allowed
)

// String is the name reported by GET /health.
func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without calling the guarded function.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Nombre           string        // used in transition logs
	FailureThreshold int           // consecutive failures to trip open
	SuccessThreshold int           // consecutive half-open successes to close
	OpenTimeout      time.Duration // time open before probing
}

// DefaultCBConfig returns the defaults used for the exchange-rate feed.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Nombre:           "cotizacion",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      2 * time.Minute,
	}
}

type CircuitBreaker struct {
	cfg   CircuitBreakerConfig
	ahora func() time.Time

	mu        sync.Mutex
	state     CBState
	fallos    int
	exitos    int
	abiertoEn time.Time
	probing   bool
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}
	return &CircuitBreaker{cfg: cfg, ahora: time.Now, state: CBClosed}
}

// State moves open → half-open once OpenTimeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estadoActual()
}

// estadoActual must be called under lock.
func (cb *CircuitBreaker) estadoActual() CBState {
	if cb.state == CBOpen && cb.ahora().Sub(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.cambiar(CBHalfOpen)
	}
	return cb.state
}

// cambiar must be called under lock.
func (cb *CircuitBreaker) cambiar(nuevo CBState) {
	if cb.state == nuevo {
		return
	}
	log.Info().
		Str("breaker", cb.cfg.Nombre).
		Str("from", cb.state.String()).
		Str("to", nuevo.String()).
		Msg("circuit breaker state change")
	cb.state = nuevo
	cb.fallos = 0
	cb.exitos = 0
	if nuevo == CBOpen {
		cb.abiertoEn = cb.ahora()
	}
}

// Execute runs fn unless the breaker is open or a half-open probe is
// already in flight.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	state := cb.estadoActual()
	if state == CBOpen || (state == CBHalfOpen && cb.probing) {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.probing = state == CBHalfOpen
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false

	if err != nil {
		cb.registrarFallo()
		return err
	}
	cb.registrarExito()
	return nil
}

func (cb *CircuitBreaker) registrarFallo() {
	switch cb.state {
	case CBClosed:
		cb.fallos++
		if cb.fallos >= cb.cfg.FailureThreshold {
			cb.cambiar(CBOpen)
		}
	case CBHalfOpen:
		cb.cambiar(CBOpen)
	}
}

func (cb *CircuitBreaker) registrarExito() {
	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.cambiar(CBClosed)
		}
	}
}
