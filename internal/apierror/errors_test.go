package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_MapsTaxonomy(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, Status(Validacion("monto invalido")))
	assert.Equal(t, http.StatusNotFound, Status(NoEncontrado("Pago")))
	assert.Equal(t, http.StatusConflict, Status(Cardinalidad("Capital")))
	assert.Equal(t, http.StatusUnauthorized, Status(Permiso("Autenticacion requerida")))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestStatus_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("aplicar pago: %w", Validacion("el pago excede el saldo"))
	assert.True(t, errors.Is(err, ErrValidacion))
	assert.Equal(t, http.StatusUnprocessableEntity, Status(err))
}

func TestFromError_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Pago no encontrado", FromError(NoEncontrado("Pago")).Detail)
	assert.Equal(t, "Error interno del servidor", FromError(errors.New("pq: connection refused")).Detail)
}
