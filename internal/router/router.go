package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/caludio70/boletosventa-sub000/internal/config"
	"github.com/caludio70/boletosventa-sub000/internal/handler"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/middleware"
	"github.com/caludio70/boletosventa-sub000/internal/referencia"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
	"github.com/caludio70/boletosventa-sub000/internal/service"
	"github.com/caludio70/boletosventa-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	catalogo *referencia.Catalogo,
	cotizacionClient *infra.CotizacionClient,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	umbral, err := decimal.NewFromString(cfg.UmbralDeuda)
	if err != nil {
		log.Warn().Str("umbral_deuda", cfg.UmbralDeuda).Msg("UMBRAL_DEUDA invalido, se usa 0")
		umbral = decimal.Zero
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	ttl := time.Duration(cfg.CotizacionTTLMinutes) * time.Minute

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	ticketSvc := service.NewTicketService(movimientoRepo, umbral)
	calculadoraSvc := service.NewCalculadoraService(catalogo)
	cotizacionSvc := service.NewCotizacionService(cotizacionClient, rdb, ttl)
	refinanciacionSvc := service.NewRefinanciacionService(cotizacionSvc, cfg.AnclaVencimiento)
	importacionSvc := service.NewImportacionService(movimientoRepo)
	documentoSvc := service.NewDocumentoService(documentoRepo, movimientoRepo, refinanciacionSvc, dispatcher, umbral)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	ticketsH := handler.NewTicketsHandler(ticketSvc)
	calculadoraH := handler.NewCalculadoraHandler(calculadoraSvc)
	refinanciacionH := handler.NewRefinanciacionHandler(refinanciacionSvc, cotizacionSvc)
	importacionesH := handler.NewImportacionesHandler(importacionSvc)
	documentosH := handler.NewDocumentosHandler(documentoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	checks := handler.HealthChecks{Redis: rdb, Cola: rdb, Cotizacion: cotizacionClient}
	if sqlDB, err := db.DB(); err == nil {
		checks.DB = sqlDB
	}
	r.GET("/health", handler.Health(checks))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/tickets", ticketsH.Listar)
		v1.GET("/tickets/totales", ticketsH.Totales)
		v1.GET("/tickets/:id", ticketsH.Obtener)
		v1.GET("/clientes", ticketsH.ListarClientes)
		v1.GET("/clientes/:codigo", ticketsH.ObtenerCliente)
		v1.GET("/deudas/antiguedad", ticketsH.Antiguedad)

		calc := v1.Group("/calculadora")
		{
			calc.POST("/tasas", calculadoraH.Tasas)
			calc.POST("/amortizacion", calculadoraH.Amortizacion)
			calc.POST("/intereses", calculadoraH.Intereses)
			calc.POST("/inflacion", calculadoraH.Inflacion)
		}
		v1.GET("/referencias/tasas", calculadoraH.TasasVigentes)

		v1.POST("/refinanciacion/propuestas", refinanciacionH.Propuestas)
		v1.GET("/cotizacion", refinanciacionH.Cotizacion)

		v1.POST("/importaciones", importacionesH.Importar)

		docs := v1.Group("/documentos")
		{
			docs.POST("", documentosH.Crear)
			docs.GET("/:id", documentosH.Obtener)
			docs.GET("/:id/descarga", documentosH.Descargar)
		}

		v1.POST("/usuarios", usuariosH.Crear)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
