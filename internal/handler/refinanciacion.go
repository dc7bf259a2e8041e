package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

type RefinanciacionHandler struct {
	refinanciacion service.RefinanciacionService
	cotizacion     service.CotizacionService
}

func NewRefinanciacionHandler(refinanciacion service.RefinanciacionService, cotizacion service.CotizacionService) *RefinanciacionHandler {
	return &RefinanciacionHandler{refinanciacion: refinanciacion, cotizacion: cotizacion}
}

// Propuestas godoc
// @Summary      Propuestas de refinanciacion
// @Description  Un plan por cada opcion de cuotas y tasa mensual. La deuda puede indicarse en pesos, en USD con tipo de cambio, o solo en USD (se usa la cotizacion del dia).
// @Tags         refinanciacion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PropuestasRequest true "Deuda y opciones"
// @Success      200 {object} dto.PropuestasResponse
// @Failure      400 {object} apierror.APIError
// @Failure      503 {object} apierror.APIError
// @Router       /v1/refinanciacion/propuestas [post]
func (h *RefinanciacionHandler) Propuestas(c *gin.Context) {
	var req dto.PropuestasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.refinanciacion.Proponer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cotizacion godoc
// @Summary      Cotizacion del dolar
// @Description  Compra y venta; fuente indica si el valor es en vivo, de cache o el ultimo conocido.
// @Tags         refinanciacion
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CotizacionResponse
// @Failure      503 {object} apierror.APIError
// @Router       /v1/cotizacion [get]
func (h *RefinanciacionHandler) Cotizacion(c *gin.Context) {
	resp, err := h.cotizacion.Obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
