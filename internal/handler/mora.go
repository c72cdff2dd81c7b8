package handler

import (
	"net/http"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/gin-gonic/gin"
)

type MoraHandler struct{ svc service.MoraService }

func NewMoraHandler(svc service.MoraService) *MoraHandler { return &MoraHandler{svc: svc} }

// Procesar godoc
// @Summary Ejecutar el cálculo de mora ahora
// @Tags mora
// @Accept json
// @Produce json
// @Param body body dto.ProcesarMoraRequest false "Fecha de evaluación (hoy por defecto)"
// @Success 200 {object} dto.ResultadoMoraResponse
// @Security BearerAuth
// @Router /v1/mora/procesar [post]
func (h *MoraHandler) Procesar(c *gin.Context) {
	var req dto.ProcesarMoraRequest
	// the body is optional
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Procesar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
