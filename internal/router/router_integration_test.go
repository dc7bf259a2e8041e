//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/xuri/excelize/v2"

	"github.com/caludio70/boletosventa-sub000/internal/config"
	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/referencia"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
	"github.com/caludio70/boletosventa-sub000/internal/router"
	"github.com/caludio70/boletosventa-sub000/internal/service"
	"github.com/caludio70/boletosventa-sub000/internal/worker"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func subirPlanilla(t *testing.T, srv *httptest.Server, token, modo string, filas [][]interface{}) *http.Response {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", celda, &fila))
	}
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("archivo", "operaciones.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("modo", modo))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/importaciones", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("boletos_test"),
		tcPostgres.WithUsername("boletos"),
		tcPostgres.WithPassword("boletos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		WorkerPoolSize:        1,
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		JWTRefreshHours:       24,
		DocumentosStoragePath: t.TempDir(),
		EmpresaNombre:         "Concesionaria Test",
		CotizacionURL:         "http://127.0.0.1:1", // unreachable on purpose
		CotizacionTTLMinutes:  30,
		UmbralDeuda:           "0",
		AnclaVencimiento:      "primer_vencimiento",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	referenciaRepo := repository.NewReferenciaRepository(db)
	tasas, err := referencia.TasasSemilla()
	require.NoError(t, err)
	inflacion, err := referencia.InflacionSemilla()
	require.NoError(t, err)
	require.NoError(t, referenciaRepo.SembrarSiVacio(ctx, tasas, inflacion))
	catalogo, err := referencia.Cargar(ctx, referenciaRepo)
	require.NoError(t, err)
	require.Equal(t, referencia.OrigenBaseDatos, catalogo.Origen)

	auth := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
	_, err = auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{Username: "operador", Nombre: "Operador E2E", Password: "clave-e2e-123"})
	require.NoError(t, err)

	documentoRepo := repository.NewDocumentoRepository(db)
	dispatcher := worker.NewDispatcher(rdb)
	docWorker := worker.NewDocumentoWorker(documentoRepo, repository.NewMovimientoRepository(db), dispatcher, rdb, cfg.DocumentosStoragePath, cfg.EmpresaNombre)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		worker.JobDocumento: docWorker.Process,
		worker.JobEmail:     worker.NewEmailWorker(infra.NewMailer(cfg)).Process,
	})

	cotizacionClient := infra.NewCotizacionClient(cfg.CotizacionURL, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	srv := httptest.NewServer(router.New(cfg, db, rdb, catalogo, cotizacionClient))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "operador", "password": "clave-e2e-123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login dto.LoginResponse
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

func filasE2E() [][]interface{} {
	return [][]interface{}{
		{"Ticket", "Fecha", "Codigo Cliente", "Cliente", "Total", "Fecha de Pago", "Importe USD", "Tipo de Cambio"},
		{"T-10", "05/03/2024", "C05", "Campo Sur", "80000", "", "", ""},
		{"T-10", "", "C05", "Campo Sur", "", "01/04/2024", "20000", "1000"},
		{"T-11", "06/03/2024", "C06", "Tambo Este", "15000", "", "", ""},
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_ImportarYConsultar(t *testing.T) {
	env := setupTestEnv(t)

	resp := subirPlanilla(t, env.server, env.token, "reemplazar", filasE2E())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var imp dto.ImportacionResponse
	decodeJSON(t, resp, &imp)
	assert.Equal(t, 3, imp.Filas)
	assert.Equal(t, 2, imp.Tickets)

	resp = do(t, env.server, http.MethodGet, "/v1/tickets", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lista dto.TicketListResponse
	decodeJSON(t, resp, &lista)
	assert.Equal(t, 2, lista.Total)

	resp = do(t, env.server, http.MethodGet, "/v1/tickets/T-10", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/tickets/NO-EXISTE", nil, env.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// agregar appends a second batch after the first
	resp = subirPlanilla(t, env.server, env.token, "agregar", [][]interface{}{
		filasE2E()[0],
		{"T-12", "07/03/2024", "C07", "Loma Alta", "5000", "", "", ""},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/tickets/totales", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var totales []dto.TotalTicketResponse
	decodeJSON(t, resp, &totales)
	require.Len(t, totales, 3)
	assert.Equal(t, "T-10", totales[0].TicketID)
}

func TestE2E_SinToken(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodGet, "/v1/tickets", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, "connected", health["db"])
	assert.Equal(t, "connected", health["redis"])
}

func TestE2E_DocumentoGenerado(t *testing.T) {
	env := setupTestEnv(t)

	resp := subirPlanilla(t, env.server, env.token, "reemplazar", filasE2E())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/v1/documentos",
		jsonBody(t, map[string]any{"tipo": "proforma", "ticket_id": "T-10"}), env.token)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var doc dto.DocumentoResponse
	decodeJSON(t, resp, &doc)
	assert.Equal(t, "pendiente", doc.Estado)

	require.Eventually(t, func() bool {
		r := do(t, env.server, http.MethodGet, "/v1/documentos/"+doc.ID, nil, env.token)
		var actual dto.DocumentoResponse
		decodeJSON(t, r, &actual)
		return actual.Estado == "generado"
	}, 20*time.Second, 250*time.Millisecond)

	resp = do(t, env.server, http.MethodGet, "/v1/documentos/"+doc.ID+"/descarga", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()
}

func TestE2E_CalculadoraConReferencias(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodGet, "/v1/referencias/tasas", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/v1/calculadora/tasas",
		jsonBody(t, map[string]any{"tna": "42", "periodicidad": "mensual"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
