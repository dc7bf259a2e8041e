package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

type TicketsHandler struct{ svc service.TicketService }

func NewTicketsHandler(svc service.TicketService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar tickets
// @Description  Resumen de cada ticket reconstruido desde los movimientos importados.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        cliente query string false "Codigo o nombre de cliente (parcial)"
// @Param        estado  query string false "saldado | pendiente | proceso"
// @Success      200 {object} dto.TicketListResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/tickets [get]
func (h *TicketsHandler) Listar(c *gin.Context) {
	var filter dto.TicketFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Detalle de ticket
// @Description  Productos, usados y pagos con el saldo restante despues de cada pago.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Numero de ticket"
// @Success      200 {object} dto.TicketResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tickets/{id} [get]
func (h *TicketsHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Totales godoc
// @Summary      Totales por ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TotalTicketResponse
// @Router       /v1/tickets/totales [get]
func (h *TicketsHandler) Totales(c *gin.Context) {
	resp, err := h.svc.Totales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarClientes godoc
// @Summary      Listar clientes
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ClienteResponse
// @Router       /v1/clientes [get]
func (h *TicketsHandler) ListarClientes(c *gin.Context) {
	resp, err := h.svc.ListarClientes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerCliente godoc
// @Summary      Resumen de cliente
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Codigo de cliente"
// @Success      200 {object} dto.ClienteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/clientes/{codigo} [get]
func (h *TicketsHandler) ObtenerCliente(c *gin.Context) {
	resp, err := h.svc.ObtenerCliente(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Antiguedad godoc
// @Summary      Antiguedad de deuda
// @Description  Tickets con saldo mayor al umbral clasificados en tramos 0-30, 31-60, 61-90 y 90+ dias.
// @Tags         deudas
// @Produce      json
// @Security     BearerAuth
// @Param        sin_pagos query bool   false "Solo tickets sin pagos"
// @Param        umbral    query string false "Umbral en USD (default UMBRAL_DEUDA)"
// @Param        fecha     query string false "Fecha de corte YYYY-MM-DD (default hoy)"
// @Success      200 {object} dto.AntiguedadResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/deudas/antiguedad [get]
func (h *TicketsHandler) Antiguedad(c *gin.Context) {
	var filter dto.AntiguedadFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Antiguedad(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
