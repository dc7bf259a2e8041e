package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/worker"
)

type documentoServiceTest struct {
	svc        *documentoService
	repo       *stubDocumentoRepo
	dispatcher *stubDispatcher
}

func newDocumentoServiceTest() documentoServiceTest {
	repo := newStubDocumentoRepo()
	disp := &stubDispatcher{}
	refi := NewRefinanciacionService(&stubCotizacionService{venta: dec("1000")}, "")
	svc := NewDocumentoService(repo, &stubMovimientoRepo{rows: libroPrueba()}, refi, disp, dec("100")).(*documentoService)
	svc.ahora = func() time.Time { return time.Date(2024, 9, 1, 15, 0, 0, 0, time.UTC) }
	return documentoServiceTest{svc: svc, repo: repo, dispatcher: disp}
}

func TestDocumentoService_CrearProforma(t *testing.T) {
	tt := newDocumentoServiceTest()
	email := "cliente@example.com"

	resp, err := tt.svc.Crear(context.Background(), nil, dto.CrearDocumentoRequest{Tipo: worker.TipoProforma, TicketID: " T-2 ", Email: &email})
	require.NoError(t, err)
	assert.Equal(t, worker.EstadoPendiente, resp.Estado)
	require.NotNil(t, resp.Referencia)
	assert.Equal(t, "T-2", *resp.Referencia)
	assert.Nil(t, resp.Descarga)

	require.Len(t, tt.dispatcher.jobs, 1)
	assert.Equal(t, resp.ID, tt.dispatcher.jobs[0].DocumentoID)

	doc := tt.repo.docs[uuid.MustParse(resp.ID)]
	require.NotNil(t, doc.EmailDestino)
	assert.Equal(t, email, *doc.EmailDestino)
}

func TestDocumentoService_CrearEstadoDeudaPorCliente(t *testing.T) {
	tt := newDocumentoServiceTest()

	resp, err := tt.svc.Crear(context.Background(), nil, dto.CrearDocumentoRequest{Tipo: worker.TipoEstadoDeuda, CodigoCliente: "C02"})
	require.NoError(t, err)
	assert.Equal(t, "C02", *resp.Referencia)

	_, err = tt.svc.Crear(context.Background(), nil, dto.CrearDocumentoRequest{Tipo: worker.TipoEstadoDeuda, CodigoCliente: "X99"})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestDocumentoService_CrearRefinanciacionGuardaParametrosResueltos(t *testing.T) {
	tt := newDocumentoServiceTest()

	resp, err := tt.svc.Crear(context.Background(), nil, dto.CrearDocumentoRequest{
		Tipo: worker.TipoRefinanciacion,
		Refinanciacion: &dto.PropuestasRequest{
			DeudaUSD:          decPtr("100"),
			TicketID:          "T-3",
			PrimerVencimiento: "2024-10-15",
			Opciones:          opcionesPrueba(),
		},
	})
	require.NoError(t, err)

	doc := tt.repo.docs[uuid.MustParse(resp.ID)]
	var params dto.CrearDocumentoRequest
	require.NoError(t, json.Unmarshal([]byte(doc.Parametros), &params))
	require.NotNil(t, params.Refinanciacion)
	require.NotNil(t, params.Refinanciacion.TipoCambio)
	assert.Equal(t, "1000", params.Refinanciacion.TipoCambio.String())
	assert.Equal(t, string(finanzas.AnclaPrimerVencimiento), params.Refinanciacion.Ancla)
}

func TestDocumentoService_CrearAntiguedadCompletaDefectos(t *testing.T) {
	tt := newDocumentoServiceTest()

	resp, err := tt.svc.Crear(context.Background(), nil, dto.CrearDocumentoRequest{Tipo: worker.TipoAntiguedadXLSX})
	require.NoError(t, err)
	assert.Nil(t, resp.Referencia)

	var params dto.CrearDocumentoRequest
	require.NoError(t, json.Unmarshal([]byte(tt.repo.docs[uuid.MustParse(resp.ID)].Parametros), &params))
	require.NotNil(t, params.Antiguedad)
	assert.Equal(t, "100", params.Antiguedad.Umbral)
	assert.Equal(t, "2024-09-01", params.Antiguedad.Fecha)
}

func TestDocumentoService_CrearEntradaInvalida(t *testing.T) {
	tt := newDocumentoServiceTest()
	ctx := context.Background()

	cases := map[string]dto.CrearDocumentoRequest{
		"tipo desconocido":         {Tipo: "recibo"},
		"proforma sin ticket":      {Tipo: worker.TipoProforma},
		"estado sin referencia":    {Tipo: worker.TipoEstadoDeuda},
		"refinanciacion sin datos": {Tipo: worker.TipoRefinanciacion},
		"amortizacion sin datos":   {Tipo: worker.TipoAmortizacionXLSX},
		"amortizacion invalida":    {Tipo: worker.TipoAmortizacionXLSX, Amortizacion: &dto.AmortizacionRequest{Periodos: 12, Periodicidad: "mensual"}},
		"umbral negativo":          {Tipo: worker.TipoAntiguedadXLSX, Antiguedad: &dto.AntiguedadFilter{Umbral: "-5"}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tt.svc.Crear(ctx, nil, req)
			assert.ErrorIs(t, err, finanzas.ErrEntradaInvalida)
		})
	}
	assert.Empty(t, tt.repo.docs)
	assert.Empty(t, tt.dispatcher.jobs)
}

func TestDocumentoService_TicketInexistente(t *testing.T) {
	tt := newDocumentoServiceTest()

	_, err := tt.svc.Crear(context.Background(), nil, dto.CrearDocumentoRequest{Tipo: worker.TipoProforma, TicketID: "T-404"})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestDocumentoService_FalloAlEncolarQuedaParaReintento(t *testing.T) {
	tt := newDocumentoServiceTest()
	tt.dispatcher.err = errors.New("redis: connection refused")

	resp, err := tt.svc.Crear(context.Background(), nil, dto.CrearDocumentoRequest{Tipo: worker.TipoProforma, TicketID: "T-1"})
	require.NoError(t, err)
	assert.Equal(t, worker.EstadoError, resp.Estado)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "connection refused")

	doc := tt.repo.docs[uuid.MustParse(resp.ID)]
	require.NotNil(t, doc.NextRetryAt)
	assert.Equal(t, tt.svc.ahora(), *doc.NextRetryAt)
}

func TestDocumentoService_ObtenerYRuta(t *testing.T) {
	tt := newDocumentoServiceTest()
	ctx := context.Background()

	resp, err := tt.svc.Crear(ctx, nil, dto.CrearDocumentoRequest{Tipo: worker.TipoProforma, TicketID: "T-1"})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = tt.svc.RutaArchivo(ctx, id)
	assert.ErrorIs(t, err, ErrDocumentoNoDisponible)

	ruta := "/data/documentos/proforma-T-1.pdf"
	doc := tt.repo.docs[id]
	doc.Estado = worker.EstadoGenerado
	doc.Ruta = &ruta

	got, err := tt.svc.RutaArchivo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ruta, got)

	obtenido, err := tt.svc.Obtener(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, obtenido.Descarga)
	assert.Equal(t, "/v1/documentos/"+resp.ID+"/descarga", *obtenido.Descarga)

	_, err = tt.svc.Obtener(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNoEncontrado)
	_, err = tt.svc.RutaArchivo(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNoEncontrado)
}
