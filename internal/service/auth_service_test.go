package service

import (
	"context"
	"testing"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func buildAuthSvc(t *testing.T) (AuthService, *stubUsuarioRepo, *stubClienteRepo) {
	t.Helper()
	usuarios := newStubUsuarioRepo()
	clientes := newStubClienteRepo()
	cfg := &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 1, JWTRefreshHours: 2}
	return NewAuthService(usuarios, clientes, cfg), usuarios, clientes
}

// bcrypt.MinCost keeps the suite fast; the service itself always writes BcryptCost.
func usuarioDePrueba(t *testing.T, usuarios *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{Username: username, Nombre: username, PasswordHash: string(h), Rol: rol, Activo: true}
	require.NoError(t, usuarios.CreateTx(nil, u))
	return u
}

func TestLogin_EmiteTokensConRol(t *testing.T) {
	svc, usuarios, _ := buildAuthSvc(t)
	usuarioDePrueba(t, usuarios, "caja1", "secreta123", model.RolCajero)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "caja1", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.False(t, resp.DebeCambiarContrasena)

	tok, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("secreto-de-prueba"), nil })
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, model.RolCajero, claims["rol"])
	assert.Equal(t, "caja1", claims["username"])

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "caja1", Password: "otra"})
	assert.ErrorIs(t, err, apierror.ErrPermiso)
}

func TestLogin_ClienteDebeCambiarContrasena(t *testing.T) {
	svc, usuarios, clientes := buildAuthSvc(t)
	u := usuarioDePrueba(t, usuarios, "ana", "00100000011", model.RolCliente)
	require.NoError(t, clientes.CreateTx(nil, &model.Cliente{Nombres: "Ana", UsuarioID: &u.ID, DebeCambiarContrasena: true}))

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "00100000011"})
	require.NoError(t, err)
	assert.True(t, resp.DebeCambiarContrasena)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", refreshed.User.Username)

	_, err = svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, apierror.ErrPermiso)
	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, apierror.ErrPermiso, "access tokens do not refresh")
}

func TestCambiarContrasena_LimpiaLaMarca(t *testing.T) {
	svc, usuarios, clientes := buildAuthSvc(t)
	u := usuarioDePrueba(t, usuarios, "ana", "00100000011", model.RolCliente)
	cliente := &model.Cliente{Nombres: "Ana", UsuarioID: &u.ID, DebeCambiarContrasena: true}
	require.NoError(t, clientes.CreateTx(nil, cliente))

	err := svc.CambiarContrasena(context.Background(), u.ID, dto.CambiarContrasenaRequest{
		ContrasenaActual: "incorrecta", ContrasenaNueva: "nueva-clave-1",
	})
	assert.ErrorIs(t, err, apierror.ErrValidacion)
	assert.True(t, cliente.DebeCambiarContrasena)

	err = svc.CambiarContrasena(context.Background(), u.ID, dto.CambiarContrasenaRequest{
		ContrasenaActual: "00100000011", ContrasenaNueva: "nueva-clave-1",
	})
	require.NoError(t, err)
	assert.False(t, cliente.DebeCambiarContrasena)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usuarios.usuarios[u.ID].PasswordHash), []byte("nueva-clave-1")))
}

func TestCambiarActivo_CortaElRefresh(t *testing.T) {
	svc, usuarios, _ := buildAuthSvc(t)
	u := usuarioDePrueba(t, usuarios, "oficial1", "secreta123", model.RolOficial)
	usuarioDePrueba(t, usuarios, "caja1", "secreta123", model.RolCajero)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "oficial1", Password: "secreta123"})
	require.NoError(t, err)

	out, err := svc.CambiarActivo(context.Background(), u.ID, false)
	require.NoError(t, err)
	assert.False(t, out.Activo)

	_, err = svc.Refresh(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, apierror.ErrPermiso)

	_, err = svc.CambiarActivo(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, apierror.ErrNoEncontrado)

	lista, err := svc.ListarUsuarios(context.Background(), dto.UsuarioFilter{Rol: model.RolCajero})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "caja1", lista[0].Username)
}
