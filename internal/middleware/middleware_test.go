package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secreto = "secreto-de-prueba"

func firmar(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secreto))
	require.NoError(t, err)
	return s
}

func claimsDe(rol, tipo string, dur time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": "6f1c2b9e-1d2a-4c3b-9e8f-7a6b5c4d3e2f", "username": "u", "rol": rol, "tipo": tipo,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
}

func motor() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	protegido := r.Group("", JWTAuth(secreto))
	protegido.GET("/yo", func(c *gin.Context) {
		id := GetClaims(c).UsuarioID()
		c.JSON(http.StatusOK, gin.H{"rol": GetClaims(c).Rol, "id": id.String()})
	})
	protegido.GET("/admin", RequireRole("administrador"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := motor()

	cases := map[string]struct {
		token  string
		status int
	}{
		"sin token":     {"", http.StatusUnauthorized},
		"basura":        {"abc.def.ghi", http.StatusUnauthorized},
		"expirado":      {firmar(t, claimsDe("cajero", "access", -time.Minute)), http.StatusUnauthorized},
		"refresh":       {firmar(t, claimsDe("cajero", "refresh", time.Hour)), http.StatusUnauthorized},
		"acceso valido": {firmar(t, claimsDe("cajero", "access", time.Hour)), http.StatusOK},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.status, get(r, "/yo", tc.token).Code)
		})
	}
}

func TestJWTAuth_OtraFirma(t *testing.T) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsDe("administrador", "access", time.Hour)).SignedString([]byte("otro"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(motor(), "/yo", s).Code)
}

func TestRequireRole(t *testing.T) {
	r := motor()
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", firmar(t, claimsDe("oficial", "access", time.Hour))).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", firmar(t, claimsDe("administrador", "access", time.Hour))).Code)
}

func TestRequestID_ReusaOGenera(t *testing.T) {
	r := motor()
	w := get(r, "/yo", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/yo", nil)
	req.Header.Set(RequestIDHeader, "caja-7-000123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "caja-7-000123", w.Header().Get(RequestIDHeader))
}

func TestCORS_Origenes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("https://admin.prestamos.do"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://admin.prestamos.do")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.prestamos.do", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://otro.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLimitador_Ventana(t *testing.T) {
	l := &limitador{nombre: "t", limite: 2, duracion: time.Minute, ventanas: map[string]*ventana{}}
	t0 := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	ok, _ := l.permitir("10.0.0.1", t0)
	assert.True(t, ok)
	ok, _ = l.permitir("10.0.0.1", t0.Add(time.Second))
	assert.True(t, ok)
	ok, fin := l.permitir("10.0.0.1", t0.Add(2*time.Second))
	assert.False(t, ok)
	assert.Equal(t, t0.Add(time.Minute), fin)

	ok, _ = l.permitir("10.0.0.2", t0.Add(2*time.Second))
	assert.True(t, ok, "other IPs have their own window")
	ok, _ = l.permitir("10.0.0.1", t0.Add(61*time.Second))
	assert.True(t, ok, "a new window starts after expiry")
}

func TestErrorHandler_RespetaLaTaxonomia(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/404", func(c *gin.Context) { _ = c.Error(apierror.NoEncontrado("Pago")) })
	r.GET("/500", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })

	w := get(r, "/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Pago no encontrado"}`, w.Body.String())

	w = get(r, "/500", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })
	assert.Equal(t, http.StatusInternalServerError, get(r, "/boom", "").Code)
}
