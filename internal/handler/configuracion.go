package handler

import (
	"context"
	"net/http"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracionHandler struct{ svc service.ConfiguracionService }

func NewConfiguracionHandler(svc service.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

// Global godoc
// @Summary Configuración de empresa e impresora
// @Description Cada sección es null mientras no se haya configurado.
// @Tags configuracion
// @Produce json
// @Success 200 {object} dto.ConfiguracionGlobalResponse
// @Security BearerAuth
// @Router /v1/configuracion/global [get]
func (h *ConfiguracionHandler) Global(c *gin.Context) {
	resp, err := h.svc.Global(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// seccion groups the four operations of a single-row configuration entity.
type seccion[Req any, Resp any] struct {
	crear      func(context.Context, Req) (Resp, error)
	obtener    func(context.Context) (Resp, error)
	actualizar func(context.Context, Req) (Resp, error)
	eliminar   func(context.Context) error
}

func (s seccion[Req, Resp]) escribir(c *gin.Context, fn func(context.Context, Req) (Resp, error), status int) {
	var req Req
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

func (s seccion[Req, Resp]) Crear(c *gin.Context) { s.escribir(c, s.crear, http.StatusCreated) }

func (s seccion[Req, Resp]) Actualizar(c *gin.Context) { s.escribir(c, s.actualizar, http.StatusOK) }

func (s seccion[Req, Resp]) Obtener(c *gin.Context) {
	resp, err := s.obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s seccion[Req, Resp]) Eliminar(c *gin.Context) {
	if err := s.eliminar(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Seccion is the route set of one configuration entity.
type Seccion interface {
	Crear(*gin.Context)
	Obtener(*gin.Context)
	Actualizar(*gin.Context)
	Eliminar(*gin.Context)
}

func (h *ConfiguracionHandler) Capital() Seccion {
	return seccion[dto.CapitalRequest, *dto.CapitalResponse]{
		crear: h.svc.CrearCapital, obtener: h.svc.ObtenerCapital,
		actualizar: h.svc.ActualizarCapital, eliminar: h.svc.EliminarCapital,
	}
}

func (h *ConfiguracionHandler) Empresa() Seccion {
	return seccion[dto.EmpresaRequest, *dto.EmpresaResponse]{
		crear: h.svc.CrearEmpresa, obtener: h.svc.ObtenerEmpresa,
		actualizar: h.svc.ActualizarEmpresa, eliminar: h.svc.EliminarEmpresa,
	}
}

func (h *ConfiguracionHandler) Impresora() Seccion {
	return seccion[dto.ImpresoraRequest, *dto.ImpresoraResponse]{
		crear: h.svc.CrearImpresora, obtener: h.svc.ObtenerImpresora,
		actualizar: h.svc.ActualizarImpresora, eliminar: h.svc.EliminarImpresora,
	}
}

func (h *ConfiguracionHandler) Mora() Seccion {
	return seccion[dto.PoliticaMoraRequest, *dto.PoliticaMoraResponse]{
		crear: h.svc.CrearMora, obtener: h.svc.ObtenerMora,
		actualizar: h.svc.ActualizarMora, eliminar: h.svc.EliminarMora,
	}
}
