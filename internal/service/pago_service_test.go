package service

import (
	"context"
	"sync"
	"testing"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAplicarPago_PagoTotal(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)

	res, err := e.pagar(p.Cuotas[0].ID, "1000")
	require.NoError(t, err)
	assert.Equal(t, model.CuotaPagada, res.Cuota.Estado)
	assert.True(t, res.SaldoCuota.IsZero())
	assert.True(t, res.Cuota.TotalPagado.Equal(dec("1000")))
	assert.Equal(t, model.PrestamoActivo, res.EstadoPrestamo)
	assert.Equal(t, "2025-01-25", res.Pago.FechaPago)
	assert.Len(t, res.Pago.NumeroRecibo, 10)

	c := e.cuota(t, p.Cuotas[0].ID)
	assert.Equal(t, model.CuotaPagada, c.Estado)
	assert.True(t, c.SaldoPendiente.IsZero())
	assert.Len(t, c.Pagos, 1)
}

func TestAplicarPago_SobrepagoRechazadoSinCambios(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)

	_, err := e.pagar(p.Cuotas[0].ID, "1200")
	require.ErrorIs(t, err, apierror.ErrValidacion)

	c := e.cuota(t, p.Cuotas[0].ID)
	assert.Equal(t, model.CuotaPendiente, c.Estado)
	assert.True(t, c.SaldoPendiente.Equal(dec("1000")))
	assert.Empty(t, c.Pagos)
}

func TestAplicarPago_ParcialesAcumulan(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	id := p.Cuotas[1].ID

	res, err := e.pagar(id, "400")
	require.NoError(t, err)
	assert.Equal(t, model.CuotaParcial, res.Cuota.Estado)
	assert.True(t, res.SaldoCuota.Equal(dec("600")))

	_, err = e.pagar(id, "600.01")
	assert.ErrorIs(t, err, apierror.ErrValidacion)

	res, err = e.pagar(id, "600")
	require.NoError(t, err)
	assert.Equal(t, model.CuotaPagada, res.Cuota.Estado)
	assert.Len(t, e.cuota(t, id).Pagos, 2)
}

func TestAplicarPago_MontoInvalidoYCuotaInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)

	_, err := e.pagar(p.Cuotas[0].ID, "0")
	assert.ErrorIs(t, err, apierror.ErrValidacion)
	_, err = e.pagar(p.Cuotas[0].ID, "-5")
	assert.ErrorIs(t, err, apierror.ErrValidacion)
	_, err = e.pagar(uuid.NewString(), "10")
	assert.ErrorIs(t, err, apierror.ErrNoEncontrado)

	_, err = e.pagos.AplicarPago(context.Background(), uuid.MustParse(p.Cuotas[0].ID),
		dto.RegistrarPagoRequest{Monto: dec("10"), FechaPago: ptr("2025-02-01")}, nil)
	assert.ErrorIs(t, err, apierror.ErrValidacion, "future payment date")
}

func TestAplicarPago_UltimaCuotaSaldaElPrestamo(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)

	var res *dto.AplicarPagoResponse
	for _, c := range p.Cuotas {
		var err error
		res, err = e.pagar(c.ID, "1000")
		require.NoError(t, err)
	}
	assert.Equal(t, model.PrestamoPagado, res.EstadoPrestamo)

	got, err := e.prestamos.Obtener(context.Background(), uuid.MustParse(p.ID))
	require.NoError(t, err)
	assert.Equal(t, model.PrestamoPagado, got.Estado)
	assert.True(t, got.SaldoPendiente.IsZero())
}

func TestAplicarPago_PrestamoCancelado(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	_, err := e.prestamos.CambiarEstado(context.Background(), uuid.MustParse(p.ID), model.PrestamoCancelado)
	require.NoError(t, err)

	_, err = e.pagar(p.Cuotas[0].ID, "100")
	assert.ErrorIs(t, err, apierror.ErrValidacion)
}

// Two payments of 600 against a 1000 cuota: exactly one may win.
func TestAplicarPago_ConcurrentesSeSerializan(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	id := p.Cuotas[0].ID

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		exitos  int
		rechazo int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.pagar(id, "600")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				exitos++
			case apierror.IsClientError(err):
				rechazo++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, exitos)
	assert.Equal(t, 1, rechazo)
	c := e.cuota(t, id)
	assert.True(t, c.SaldoPendiente.Equal(dec("400")))
	assert.Equal(t, model.CuotaParcial, c.Estado)
}

func TestListarCuotas_FiltraPorEstadoYVencimiento(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.crearPrestamo(t)
	_, err := e.pagar(p.Cuotas[0].ID, "1000")
	require.NoError(t, err)

	cs, err := e.pagos.ListarCuotas(context.Background(), dto.CuotaFilter{Estado: model.CuotaPendiente, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, cs, 2)

	cs, err = e.pagos.ListarCuotas(context.Background(), dto.CuotaFilter{VenceDesde: "2025-02-01", VenceHasta: "2025-02-28", Limit: 50})
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, 2, cs[0].NumeroCuota)
	assert.Equal(t, "Ana Pérez", cs[0].Cliente)
}
