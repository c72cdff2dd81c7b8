package handler

import (
	"net/http"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/gin-gonic/gin"
)

type PrestamosHandler struct{ svc service.PrestamoService }

func NewPrestamosHandler(svc service.PrestamoService) *PrestamosHandler {
	return &PrestamosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear préstamo con su calendario de cuotas
// @Tags prestamos
// @Accept json
// @Produce json
// @Param body body dto.CrearPrestamoRequest true "Préstamo"
// @Success 201 {object} dto.PrestamoResponse
// @Failure 422 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/prestamos [post]
func (h *PrestamosHandler) Crear(c *gin.Context) {
	var req dto.CrearPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Simular godoc
// @Summary Previsualizar el calendario sin guardar
// @Tags prestamos
// @Produce json
// @Param monto query number true "Monto"
// @Param tasa query number false "Tasa en porcentaje"
// @Param plazo query int true "Plazo"
// @Param frecuencia_pago query string false "diaria | semanal | quincenal | mensual"
// @Param tipo_amortizacion query string false "frances | aleman | interes_simple"
// @Success 200 {object} dto.SimulacionResponse
// @Security BearerAuth
// @Router /v1/prestamos/simular [get]
func (h *PrestamosHandler) Simular(c *gin.Context) {
	var req dto.SimularRequest
	if !bindQuery(c, &req) {
		return
	}
	resp, err := h.svc.Simular(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrestamosHandler) Listar(c *gin.Context) {
	var f dto.PrestamoFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrestamosHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrestamosHandler) CambiarEstado(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.CambiarEstadoPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar removes the loan together with its schedule and payments.
func (h *PrestamosHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PrestamosHandler) AgregarGasto(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.GastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarGasto(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PrestamosHandler) AgregarRequisito(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.RequisitoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarRequisito(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
