package service

import (
	"context"
	"testing"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func procesar(t *testing.T, e *entorno, fecha string) *dto.ResultadoMoraResponse {
	t.Helper()
	res, err := e.mora.Procesar(context.Background(), dto.ProcesarMoraRequest{Fecha: &fecha})
	require.NoError(t, err)
	return res
}

// 1% daily with 3 grace days: ten days late on a 1000 cuota is 100.
func TestMora_CargaPenalidadYMarcaEnMora(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)

	res := procesar(t, e, "2025-01-25")
	assert.Equal(t, 1, res.Evaluadas)
	assert.Equal(t, 1, res.Actualizadas)
	assert.Equal(t, 1, res.PrestamosEnMora)
	assert.True(t, res.TotalPenalidad.Equal(dec("100")), res.TotalPenalidad.String())
	assert.Empty(t, res.Errores)

	c := e.cuota(t, p.Cuotas[0].ID)
	assert.Equal(t, model.CuotaVencida, c.Estado)
	assert.True(t, c.MontoPenalidadAcumulada.Equal(dec("100")))
	assert.True(t, c.SaldoPendiente.Equal(dec("1100")))
	require.NotNil(t, c.FechaCalculoMora)

	got, err := e.prestamos.Obtener(context.Background(), uuid.MustParse(p.ID))
	require.NoError(t, err)
	assert.Equal(t, model.PrestamoEnMora, got.Estado)
}

func TestMora_MismoDiaEsIdempotente(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	procesar(t, e, "2025-01-25")

	res := procesar(t, e, "2025-01-25")
	assert.Equal(t, 1, res.Evaluadas)
	assert.Equal(t, 0, res.Actualizadas)
	assert.Equal(t, 0, res.PrestamosEnMora)
	assert.True(t, res.TotalPenalidad.IsZero())
	assert.True(t, e.cuota(t, p.Cuotas[0].ID).MontoPenalidadAcumulada.Equal(dec("100")))
}

func TestMora_DentroDeGraciaSinPenalidad(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)

	res := procesar(t, e, "2025-01-18")
	assert.Equal(t, 0, res.PrestamosEnMora)
	c := e.cuota(t, p.Cuotas[0].ID)
	assert.True(t, c.MontoPenalidadAcumulada.IsZero())
	assert.Equal(t, model.CuotaVencida, c.Estado)

	got, err := e.prestamos.Obtener(context.Background(), uuid.MustParse(p.ID))
	require.NoError(t, err)
	assert.Equal(t, model.PrestamoActivo, got.Estado)
}

func TestMora_PenalidadNoDisminuye(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	procesar(t, e, "2025-01-25")

	// an earlier evaluation day computes less; the stored amount stays
	procesar(t, e, "2025-01-20")
	assert.True(t, e.cuota(t, p.Cuotas[0].ID).MontoPenalidadAcumulada.Equal(dec("100")))
}

func TestMora_PagoDeLaPenalidadDevuelveElPrestamoAActivo(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	procesar(t, e, "2025-01-25")

	_, err := e.pagar(p.Cuotas[0].ID, "1000.01")
	require.NoError(t, err)
	res, err := e.pagar(p.Cuotas[0].ID, "99.99")
	require.NoError(t, err)
	assert.Equal(t, model.CuotaPagada, res.Cuota.Estado)
	assert.Equal(t, model.PrestamoActivo, res.EstadoPrestamo)

	// paid cuotas are not swept again
	r := procesar(t, e, "2025-01-25")
	assert.Equal(t, 0, r.Evaluadas)
}

func TestMora_PoliticaGuardadaTienePrioridad(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	politicas := repository.NewSingletonRepository[model.PoliticaMora](e.db, "política de mora")
	require.NoError(t, politicas.Create(context.Background(), &model.PoliticaMora{
		Tasa: dec("0.02"), Periodo: "diario", DiasGracia: 0, TopePorcentaje: ptr(dec("0.1")),
	}))

	procesar(t, e, "2025-01-25")
	// 10 days at 2% would be 200; capped at 10% of 1000
	assert.True(t, e.cuota(t, p.Cuotas[0].ID).MontoPenalidadAcumulada.Equal(dec("100")))
}

func TestMora_PrestamoPendienteNoAcumula(t *testing.T) {
	e := nuevoEntorno(t)
	req := e.solicitud()
	req.Estado = model.PrestamoPendiente
	p, err := e.prestamos.Crear(context.Background(), req)
	require.NoError(t, err)

	res := procesar(t, e, "2025-01-25")
	assert.Equal(t, 0, res.Evaluadas)
	assert.Equal(t, model.CuotaPendiente, e.cuota(t, p.Cuotas[0].ID).Estado)
}

func TestMora_FechaFuturaRechazada(t *testing.T) {
	e := nuevoEntorno(t)
	f := "2025-02-01"
	_, err := e.mora.Procesar(context.Background(), dto.ProcesarMoraRequest{Fecha: &f})
	assert.ErrorIs(t, err, apierror.ErrValidacion)
}
