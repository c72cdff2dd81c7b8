package handler

import (
	"net/http"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogosHandler serves loan types, expense types and guarantors.
type CatalogosHandler struct{ svc service.CatalogoService }

func NewCatalogosHandler(svc service.CatalogoService) *CatalogosHandler {
	return &CatalogosHandler{svc: svc}
}

// crear binds a request of type Req and answers 201 with the service result.
func crear[Req any, Resp any](c *gin.Context, fn func(*gin.Context, Req) (Resp, error)) {
	var req Req
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := fn(c, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func listar[Resp any](c *gin.Context, fn func(*gin.Context, string) (Resp, error)) {
	var f dto.CatalogoFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := fn(c, f.Q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) CrearTipoPrestamo(c *gin.Context) {
	crear(c, func(c *gin.Context, req dto.TipoPrestamoRequest) (*dto.TipoPrestamoResponse, error) {
		return h.svc.CrearTipoPrestamo(c.Request.Context(), req)
	})
}

func (h *CatalogosHandler) ListarTiposPrestamo(c *gin.Context) {
	listar(c, func(c *gin.Context, q string) ([]dto.TipoPrestamoResponse, error) {
		return h.svc.ListarTiposPrestamo(c.Request.Context(), q)
	})
}

func (h *CatalogosHandler) CrearTipoGasto(c *gin.Context) {
	crear(c, func(c *gin.Context, req dto.TipoGastoRequest) (*dto.TipoGastoResponse, error) {
		return h.svc.CrearTipoGasto(c.Request.Context(), req)
	})
}

func (h *CatalogosHandler) ListarTiposGasto(c *gin.Context) {
	listar(c, func(c *gin.Context, q string) ([]dto.TipoGastoResponse, error) {
		return h.svc.ListarTiposGasto(c.Request.Context(), q)
	})
}

func (h *CatalogosHandler) CrearGarante(c *gin.Context) {
	crear(c, func(c *gin.Context, req dto.GaranteRequest) (*dto.GaranteResponse, error) {
		return h.svc.CrearGarante(c.Request.Context(), req)
	})
}

func (h *CatalogosHandler) ListarGarantes(c *gin.Context) {
	listar(c, func(c *gin.Context, q string) ([]dto.GaranteResponse, error) {
		return h.svc.ListarGarantes(c.Request.Context(), q)
	})
}
