//go:build integration

package router

// End-to-end run against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -run E2E -v

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

func nuevaAPIContenedores(t *testing.T) (*api, *redis.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("prestamos_test"),
		tcPostgres.WithUsername("prestamos"),
		tcPostgres.WithPassword("prestamos"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env: "test", JWTSecret: "secreto-e2e", JWTExpirationHours: 1, JWTRefreshHours: 2,
		DBDriver: "postgres", DatabaseURL: pgURL, RedisURL: rdURL,
		MoraTasa: "0.01", MoraPeriodo: "diario", MoraDiasGracia: 3, Timezone: "UTC",
		PDFStoragePath: t.TempDir(),
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)

	usuarios := repository.NewUsuarioRepository(db)
	for _, rol := range []string{model.RolAdministrador, model.RolOficial, model.RolCajero} {
		h, err := bcrypt.GenerateFromPassword([]byte("clave-"+rol), bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, usuarios.Create(ctx, &model.Usuario{
			Username: rol, Nombre: rol, PasswordHash: string(h), Rol: rol, Activo: true,
		}))
	}

	a := &api{t: t, engine: New(cfg, db, rdb, infra.NewMailer(cfg)), tokens: map[string]string{}}
	for _, rol := range []string{model.RolAdministrador, model.RolOficial, model.RolCajero} {
		a.tokens[rol] = a.login(rol, "clave-"+rol).AccessToken
	}
	return a, rdb
}

func TestE2E_PagoEncolaReciboYBloqueaSobrepago(t *testing.T) {
	a, rdb := nuevaAPIContenedores(t)
	ctx := context.Background()
	admin := a.tokens[model.RolAdministrador]

	w := a.do(http.MethodPost, "/v1/clientes", admin, map[string]any{
		"nombres": "Ana", "apellidos": "Pérez", "sexo": "F", "estado_civil": "soltero",
		"tipo_documento": "cedula", "numero_documento": "00100000011", "email": "ana@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cliente := decode[dto.ClienteResponse](t, w)

	w = a.do(http.MethodPost, "/v1/tipos-prestamo", admin, map[string]any{
		"nombre": "Personal", "tasa_interes_predeterminada": 3, "monto_minimo": 1000,
		"monto_maximo": 500000, "plazo_maximo_meses": 36,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tipo := decode[dto.TipoPrestamoResponse](t, w)

	hoy := time.Now().UTC()
	w = a.do(http.MethodPost, "/v1/prestamos", admin, map[string]any{
		"cliente_id": cliente.ID, "tipo_prestamo_id": tipo.ID, "monto": 3000, "tasa_interes": 0,
		"periodo_tasa": "mensual", "manejo_gastos": model.GastosDescontarDesembolso, "plazo": 3,
		"frecuencia_pago": "mensual", "tipo_amortizacion": "frances", "estado": model.PrestamoActivo,
		"fecha_desembolso": fecha(hoy.AddDate(0, -1, 0)), "fecha_inicio_pago": fecha(hoy),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[dto.PrestamoResponse](t, w)
	cuota := p.Cuotas[0].ID

	// two cashiers race 600 + 600 on a 1000 cuota; the row lock lets one through
	codigos := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			codigos <- a.do(http.MethodPost, "/v1/cuotas/"+cuota+"/pagos", a.tokens[model.RolCajero], map[string]any{"monto": 600}).Code
		}()
	}
	got := []int{<-codigos, <-codigos}
	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusUnprocessableEntity}, got)

	w = a.do(http.MethodGet, "/v1/cuotas/"+cuota, admin, nil)
	c := decode[dto.CuotaResponse](t, w)
	assert.Equal(t, "400", c.SaldoPendiente.String())
	assert.Equal(t, model.CuotaParcial, c.Estado)

	n, err := rdb.LLen(ctx, worker.QueueRecibos).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "the accepted payment enqueues its receipt")

	// the global configuration is cached and invalidated on write
	a.do(http.MethodGet, "/v1/configuracion/global", admin, nil)
	assert.EqualValues(t, 1, rdb.Exists(ctx, "config:global").Val())
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/configuracion/empresa", admin, map[string]any{"nombre": "Préstamos del Caribe"}).Code)
	assert.EqualValues(t, 0, rdb.Exists(ctx, "config:global").Val())

	w = a.do(http.MethodGet, "/health", "", nil)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "connected", body["redis"])
	assert.EqualValues(t, 0, body["recibos_dlq"])
}
