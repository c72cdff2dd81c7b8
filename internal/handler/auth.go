package handler

import (
	"net/http"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/middleware"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarContrasena godoc
// @Summary Cambiar la contraseña del usuario autenticado
// @Tags auth
// @Accept json
// @Param body body dto.CambiarContrasenaRequest true "Contraseñas"
// @Success 204
// @Failure 422 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/auth/cambiar-contrasena [post]
func (h *AuthHandler) CambiarContrasena(c *gin.Context) {
	var req dto.CambiarContrasenaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	uid := middleware.GetClaims(c).UsuarioID()
	if uid == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
		return
	}
	if err := h.svc.CambiarContrasena(c.Request.Context(), *uid, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	var f dto.UsuarioFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarActivo godoc
// @Summary Activar o desactivar una cuenta
// @Tags usuarios
// @Accept json
// @Produce json
// @Param id path string true "ID del usuario"
// @Param body body dto.EstadoUsuarioRequest true "Estado"
// @Success 200 {object} dto.UsuarioResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/usuarios/{id}/activo [patch]
func (h *UsuariosHandler) CambiarActivo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.EstadoUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if uid := middleware.GetClaims(c).UsuarioID(); uid != nil && *uid == id && !*req.Activo {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("No puede desactivar su propia cuenta"))
		return
	}
	resp, err := h.svc.CambiarActivo(c.Request.Context(), id, *req.Activo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
