package service

import (
	"context"
	"testing"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Shared fixture ───────────────────────────────────────────────────────────
// A SQLite database with one client, one loan type and one expense type, and
// the loan services wired to a fixed clock.

var ahoraFijo = time.Date(2025, time.January, 25, 15, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

type entorno struct {
	db  *gorm.DB
	cfg *config.Config

	cuotas    repository.CuotaRepository
	prestamos PrestamoService
	pagos     PagoService
	mora      MoraService

	clienteID   uuid.UUID
	tipoID      uuid.UUID
	tipoGastoID uuid.UUID
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	ctx := context.Background()
	db, err := infra.NewDatabase("sqlite", "file::memory:")
	require.NoError(t, err)

	clientes := repository.NewClienteRepository(db)
	tiposPrestamo := repository.NewTipoPrestamoRepository(db)
	tiposGasto := repository.NewTipoGastoRepository(db)
	prestamoRepo := repository.NewPrestamoRepository(db)
	cuotaRepo := repository.NewCuotaRepository(db)

	email := "ana@example.com"
	cliente := &model.Cliente{Nombres: "Ana", Apellidos: "Pérez", Sexo: "F", EstadoCivil: "soltero",
		TipoDocumento: "cedula", NumeroDocumento: ptr("00100000011"), Email: &email}
	require.NoError(t, clientes.Create(ctx, cliente))
	tipo := &model.TipoPrestamo{Nombre: "Personal", TasaInteresPredeterminada: dec("3"),
		MontoMinimo: dec("1000"), MontoMaximo: dec("500000"), PlazoMaximoMeses: 36}
	require.NoError(t, tiposPrestamo.Create(ctx, tipo))
	gasto := &model.TipoGasto{Nombre: "Gastos legales"}
	require.NoError(t, tiposGasto.Create(ctx, gasto))

	cfg := &config.Config{MoraTasa: "0.01", MoraPeriodo: "diario", MoraDiasGracia: 3}
	reloj := func() time.Time { return ahoraFijo }

	ps := NewPrestamoService(prestamoRepo, cuotaRepo, clientes, tiposPrestamo, tiposGasto,
		repository.NewGaranteRepository(db), time.UTC).(*prestamoService)
	ps.ahora = reloj
	pg := NewPagoService(cuotaRepo, prestamoRepo, repository.NewPagoRepository(db), nil, time.UTC).(*pagoService)
	pg.ahora = reloj
	ms := NewMoraService(cuotaRepo, prestamoRepo,
		repository.NewSingletonRepository[model.PoliticaMora](db, "política de mora"), cfg, time.UTC).(*moraService)
	ms.ahora = reloj

	return &entorno{
		db: db, cfg: cfg, cuotas: cuotaRepo,
		prestamos: ps, pagos: pg, mora: ms,
		clienteID: cliente.ID, tipoID: tipo.ID, tipoGastoID: gasto.ID,
	}
}

// solicitud is a 3000, zero-rate, three-month loan due on the 15th from
// January 2025: three cuotas of 1000.
func (e *entorno) solicitud() dto.CrearPrestamoRequest {
	return dto.CrearPrestamoRequest{
		ClienteID:        e.clienteID.String(),
		TipoPrestamoID:   e.tipoID.String(),
		Monto:            dec("3000"),
		TasaInteres:      ptr(decimal.Zero),
		PeriodoTasa:      "mensual",
		ManejoGastos:     model.GastosDescontarDesembolso,
		Plazo:            3,
		FrecuenciaPago:   "mensual",
		TipoAmortizacion: "frances",
		Estado:           model.PrestamoActivo,
		FechaDesembolso:  ptr("2024-12-15"),
		FechaInicioPago:  "2025-01-15",
	}
}

func (e *entorno) crearPrestamo(t *testing.T) *dto.PrestamoResponse {
	t.Helper()
	p, err := e.prestamos.Crear(context.Background(), e.solicitud())
	require.NoError(t, err)
	require.Len(t, p.Cuotas, 3)
	return p
}

func (e *entorno) cuota(t *testing.T, id string) *model.Cuota {
	t.Helper()
	c, err := e.cuotas.FindByID(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	return c
}

func (e *entorno) pagar(id, monto string) (*dto.AplicarPagoResponse, error) {
	return e.pagos.AplicarPago(context.Background(), uuid.MustParse(id), dto.RegistrarPagoRequest{Monto: dec(monto)}, nil)
}
