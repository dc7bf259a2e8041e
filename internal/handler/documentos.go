package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caludio70/boletosventa-sub000/internal/apierror"
	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/middleware"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

type DocumentosHandler struct{ svc service.DocumentoService }

func NewDocumentosHandler(svc service.DocumentoService) *DocumentosHandler {
	return &DocumentosHandler{svc: svc}
}

// Crear godoc
// @Summary      Generar documento
// @Description  Encola la generacion de un PDF (proforma, estado_deuda, refinanciacion) o XLSX (amortizacion_xlsx, antiguedad_xlsx). Si se indica email, el archivo se envia al terminar.
// @Tags         documentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearDocumentoRequest true "Tipo y parametros"
// @Success      202 {object} dto.DocumentoResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/documentos [post]
func (h *DocumentosHandler) Crear(c *gin.Context) {
	var req dto.CrearDocumentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// Obtener godoc
// @Summary      Estado de un documento
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del documento"
// @Success      200 {object} dto.DocumentoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/documentos/{id} [get]
func (h *DocumentosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Descargar godoc
// @Summary      Descargar documento generado
// @Tags         documentos
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        id path string true "UUID del documento"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/documentos/{id}/descarga [get]
func (h *DocumentosHandler) Descargar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	ruta, err := h.svc.RutaArchivo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(ruta, filepath.Base(ruta))
}
