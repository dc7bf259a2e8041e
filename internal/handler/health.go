package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/worker"
)

// HealthChecks are the dependencies probed by GET /health. *sql.DB,
// *redis.Client and *infra.CotizacionClient satisfy them.
type HealthChecks struct {
	DB         interface{ PingContext(ctx context.Context) error }
	Redis      interface{ Ping(ctx context.Context) *redis.StatusCmd }
	Cola       worker.Cola
	Cotizacion interface{ CircuitState() infra.CBState }
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// An open exchange-rate breaker does not make the service unhealthy since
// quotes fall back to the last known value.
func Health(h HealthChecks) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if h.DB == nil || h.DB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if h.Redis == nil || h.Redis.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if h.Cotizacion != nil {
			body["cotizacion_circuit"] = h.Cotizacion.CircuitState().String()
		}
		if h.Cola != nil && redisStatus == "connected" {
			dlq := gin.H{}
			for _, q := range []string{worker.QueueDocumentos, worker.QueueEmail} {
				if n, err := worker.DLQLength(ctx, h.Cola, q); err == nil {
					dlq[q] = n
				}
			}
			body["dlq"] = dlq
		}
		c.JSON(status, body)
	}
}
