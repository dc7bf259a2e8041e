package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errFeed = errors.New("feed down")

func TestCircuitBreaker_AbreYSeRecupera(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: 20 * time.Millisecond})

	assert.ErrorIs(t, cb.Execute(func() error { return errFeed }), errFeed)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errFeed }), errFeed)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SondaFallidaVuelveAAbrir(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	_ = cb.Execute(func() error { return errFeed })
	time.Sleep(20 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(func() error { return errFeed }), errFeed)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreaker_UnaSondaALaVez(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	_ = cb.Execute(func() error { return errFeed })
	time.Sleep(20 * time.Millisecond)

	err := cb.Execute(func() error {
		// a concurrent caller while the probe is in flight is rejected
		return cb.Execute(func() error { return nil })
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}

func TestCircuitBreaker_RelojInyectado(t *testing.T) {
	ahora := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{Nombre: "test", FailureThreshold: 1, OpenTimeout: time.Minute})
	cb.ahora = func() time.Time { return ahora }

	_ = cb.Execute(func() error { return errFeed })
	assert.Equal(t, CBOpen, cb.State())

	ahora = ahora.Add(59 * time.Second)
	assert.Equal(t, CBOpen, cb.State())
	ahora = ahora.Add(time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())
}
