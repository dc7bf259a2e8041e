package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/model"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

// ── Repository fakes ─────────────────────────────────────────────────────────

type fakeMovimientoRepo struct {
	rows []model.MovimientoTicket
}

func (r *fakeMovimientoRepo) Reemplazar(_ context.Context, _ *model.LoteImportacion, movs []model.MovimientoTicket) error {
	r.rows = append([]model.MovimientoTicket(nil), movs...)
	return nil
}

func (r *fakeMovimientoRepo) Agregar(_ context.Context, _ *model.LoteImportacion, movs []model.MovimientoTicket) error {
	r.rows = append(r.rows, movs...)
	return nil
}

func (r *fakeMovimientoRepo) ListAll(_ context.Context) ([]model.MovimientoTicket, error) {
	return r.rows, nil
}

func (r *fakeMovimientoRepo) ListByTicket(_ context.Context, id string) ([]model.MovimientoTicket, error) {
	var out []model.MovimientoTicket
	for _, m := range r.rows {
		if m.TicketID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovimientoRepo) ListByCliente(_ context.Context, codigo string) ([]model.MovimientoTicket, error) {
	var out []model.MovimientoTicket
	for _, m := range r.rows {
		if strings.EqualFold(m.CodigoCliente, codigo) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovimientoRepo) FindLote(_ context.Context, _ uuid.UUID) (*model.LoteImportacion, error) {
	return nil, errors.New("not found")
}

type fakeUsuarioRepo struct {
	users map[string]*model.Usuario
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.users[u.Username] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.Username] = u
	return nil
}

// ── Service fakes ────────────────────────────────────────────────────────────

type fakeCotizacion struct {
	venta decimal.Decimal
	err   error
}

func (f *fakeCotizacion) Obtener(_ context.Context) (*dto.CotizacionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CotizacionResponse{Compra: f.venta, Venta: f.venta, Fuente: service.FuenteEnVivo}, nil
}

func (f *fakeCotizacion) TipoCambioVenta(_ context.Context) (decimal.Decimal, error) {
	return f.venta, f.err
}

type fakeDocumentoService struct {
	docs map[uuid.UUID]*dto.DocumentoResponse
	ruta map[uuid.UUID]string
}

func newFakeDocumentoService() *fakeDocumentoService {
	return &fakeDocumentoService{docs: map[uuid.UUID]*dto.DocumentoResponse{}, ruta: map[uuid.UUID]string{}}
}

func (f *fakeDocumentoService) Crear(_ context.Context, _ *uuid.UUID, req dto.CrearDocumentoRequest) (*dto.DocumentoResponse, error) {
	if req.Tipo == "proforma" && req.TicketID == "" {
		return nil, service.ErrNoEncontrado
	}
	id := uuid.New()
	resp := &dto.DocumentoResponse{ID: id.String(), Tipo: req.Tipo, Estado: "pendiente", CreatedAt: time.Now().Format(time.RFC3339)}
	f.docs[id] = resp
	return resp, nil
}

func (f *fakeDocumentoService) Obtener(_ context.Context, id uuid.UUID) (*dto.DocumentoResponse, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, service.ErrNoEncontrado
	}
	return d, nil
}

func (f *fakeDocumentoService) RutaArchivo(_ context.Context, id uuid.UUID) (string, error) {
	if _, ok := f.docs[id]; !ok {
		return "", service.ErrNoEncontrado
	}
	r, ok := f.ruta[id]
	if !ok {
		return "", service.ErrDocumentoNoDisponible
	}
	return r, nil
}

// ── Rows / requests ──────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dia(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func libroPrueba() []model.MovimientoTicket {
	pago := dia("2024-02-01")
	return []model.MovimientoTicket{
		{TicketID: "T-1", FechaOperacion: dia("2024-01-10"), CodigoCliente: "C01", NombreCliente: "Agro Norte",
			Producto: "Tractor", Cantidad: dec("1"), PrecioUnitario: dec("30000"), TotalOperacion: dec("30000")},
		{TicketID: "T-1", CodigoCliente: "C01", FechaPago: &pago, ImporteUSD: dec("10000"), TipoCambio: dec("1000"), ImportePesos: dec("10000000")},
	}
}

func init() { gin.SetMode(gin.TestMode) }

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func planillaMultipart(t *testing.T, nombre, modo string, filas [][]interface{}) (*bytes.Buffer, string) {
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
	part, err := mw.CreateFormFile("archivo", nombre)
	require.NoError(t, err)
	_, err = io.Copy(part, xlsx)
	require.NoError(t, err)
	if modo != "" {
		require.NoError(t, mw.WriteField("modo", modo))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}
