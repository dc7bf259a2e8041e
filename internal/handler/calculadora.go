package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

type CalculadoraHandler struct{ svc service.CalculadoraService }

func NewCalculadoraHandler(svc service.CalculadoraService) *CalculadoraHandler {
	return &CalculadoraHandler{svc: svc}
}

// Tasas godoc
// @Summary      Conversion de tasas
// @Description  TEM, TEA y tasa del periodo a partir de una TNA.
// @Tags         calculadora
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.TasasRequest true "TNA y periodicidad"
// @Success      200 {object} dto.TasasResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/calculadora/tasas [post]
func (h *CalculadoraHandler) Tasas(c *gin.Context) {
	var req dto.TasasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Tasas(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Amortizacion godoc
// @Summary      Cuadro de amortizacion (sistema frances)
// @Tags         calculadora
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AmortizacionRequest true "Prestamo"
// @Success      200 {object} dto.AmortizacionResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/calculadora/amortizacion [post]
func (h *CalculadoraHandler) Amortizacion(c *gin.Context) {
	var req dto.AmortizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Amortizacion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Intereses godoc
// @Summary      Intereses resarcitorios y punitorios
// @Description  Devenga intereses diarios por subperiodo segun la tabla de tasas vigente.
// @Tags         calculadora
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.InteresesRequest true "Capital y rango de fechas"
// @Success      200 {object} dto.InteresesResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/calculadora/intereses [post]
func (h *CalculadoraHandler) Intereses(c *gin.Context) {
	var req dto.InteresesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Intereses(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Inflacion godoc
// @Summary      Inflacion acumulada
// @Tags         calculadora
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.InflacionRequest true "Rango de meses y monto opcional"
// @Success      200 {object} dto.InflacionResponse
// @Failure      400 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/calculadora/inflacion [post]
func (h *CalculadoraHandler) Inflacion(c *gin.Context) {
	var req dto.InflacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Inflacion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TasasVigentes godoc
// @Summary      Tabla de tasas de interes
// @Tags         referencias
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TasaVigenteResponse
// @Router       /v1/referencias/tasas [get]
func (h *CalculadoraHandler) TasasVigentes(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.TasasVigentes(c.Request.Context()))
}
