package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/caludio70/boletosventa-sub000/internal/apierror"
	"github.com/caludio70/boletosventa-sub000/internal/middleware"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

const maxPlanillaBytes = 20 << 20

type ImportacionesHandler struct{ svc service.ImportacionService }

func NewImportacionesHandler(svc service.ImportacionService) *ImportacionesHandler {
	return &ImportacionesHandler{svc: svc}
}

// Importar godoc
// @Summary      Importar planilla de movimientos
// @Description  Carga un .xlsx con ventas y pagos. modo=reemplazar (default) sustituye todos los movimientos; modo=agregar los suma como un nuevo lote.
// @Tags         importaciones
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archivo formData file   true  "Planilla .xlsx"
// @Param        modo    formData string false "reemplazar | agregar"
// @Success      201 {object} dto.ImportacionResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/importaciones [post]
func (h *ImportacionesHandler) Importar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPlanillaBytes)

	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo (campo 'archivo')"))
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, apierror.New("El archivo debe ser .xlsx"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.Importar(c.Request.Context(), middleware.UsuarioID(c), filepath.Base(fh.Filename), c.PostForm("modo"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
