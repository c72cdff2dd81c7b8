package handler

import (
	"fmt"
	"net/http"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/middleware"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/gin-gonic/gin"
)

// PagosHandler serves cuotas, payments and receipt tickets.
type PagosHandler struct {
	svc     service.PagoService
	recibos service.ReciboService
}

func NewPagosHandler(svc service.PagoService, recibos service.ReciboService) *PagosHandler {
	return &PagosHandler{svc: svc, recibos: recibos}
}

func (h *PagosHandler) ListarCuotas(c *gin.Context) {
	var f dto.CuotaFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListarCuotas(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) ObtenerCuota(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerCuota(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPago godoc
// @Summary Registrar un pago sobre una cuota
// @Tags pagos
// @Accept json
// @Produce json
// @Param id path string true "ID de la cuota"
// @Param body body dto.RegistrarPagoRequest true "Pago"
// @Success 201 {object} dto.AplicarPagoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/cuotas/{id}/pagos [post]
func (h *PagosHandler) RegistrarPago(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AplicarPago(c.Request.Context(), id, req, middleware.GetClaims(c).UsuarioID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PagosHandler) ListarPagos(c *gin.Context) {
	var f dto.PagoFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListarPagos(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ticket godoc
// @Summary Recibo de pago en PDF
// @Tags pagos
// @Produce application/pdf
// @Param id path string true "ID del pago"
// @Success 200 {file} binary
// @Failure 401 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/pagos/{id}/ticket [get]
func (h *PagosHandler) Ticket(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	pdf, numero, err := h.recibos.Ticket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="recibo_%s.pdf"`, numero))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
