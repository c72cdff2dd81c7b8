package handler

import (
	"net/http"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.ClienteRequest
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

// Listar godoc
// @Summary Listar clientes
// @Tags clientes
// @Produce json
// @Param q query string false "Nombre, apellido, apodo o documento"
// @Param sexo query string false "M | F | O"
// @Param estado_civil query string false "Estado civil"
// @Param desde query string false "Registrados desde (AAAA-MM-DD)"
// @Param hasta query string false "Registrados hasta (AAAA-MM-DD)"
// @Success 200 {array} dto.ClienteResponse
// @Security BearerAuth
// @Router /v1/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	var f dto.ClienteFilter
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

func (h *ClientesHandler) Obtener(c *gin.Context) {
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

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RestablecerContrasenas godoc
// @Summary Restablecer la contraseña de varios clientes a su documento
// @Tags clientes
// @Accept json
// @Produce json
// @Param body body dto.RestablecerContrasenasRequest true "Clientes"
// @Success 200 {object} dto.ResultadoRestablecimiento
// @Security BearerAuth
// @Router /v1/clientes/restablecer-contrasenas [post]
func (h *ClientesHandler) RestablecerContrasenas(c *gin.Context) {
	var req dto.RestablecerContrasenasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ids := make([]uuid.UUID, len(req.ClienteIDs))
	for i, s := range req.ClienteIDs {
		ids[i] = uuid.MustParse(s) // validated by the uuid tag
	}
	resp, err := h.svc.RestablecerContrasenas(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
