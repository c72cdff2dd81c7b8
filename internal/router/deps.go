package router

import (
	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/worker"

	"gorm.io/gorm"
)

type repositorios struct {
	usuarios      repository.UsuarioRepository
	clientes      repository.ClienteRepository
	prestamos     repository.PrestamoRepository
	cuotas        repository.CuotaRepository
	pagos         repository.PagoRepository
	tiposPrestamo repository.CatalogoRepository[model.TipoPrestamo]
	tiposGasto    repository.CatalogoRepository[model.TipoGasto]
	garantes      repository.CatalogoRepository[model.Garante]
	capital       repository.SingletonRepository[model.Capital]
	empresa       repository.SingletonRepository[model.EmpresaConfiguracion]
	impresora     repository.SingletonRepository[model.ImpresoraConfiguracion]
	politicas     repository.SingletonRepository[model.PoliticaMora]
}

func nuevosRepositorios(db *gorm.DB) repositorios {
	return repositorios{
		usuarios:      repository.NewUsuarioRepository(db),
		clientes:      repository.NewClienteRepository(db),
		prestamos:     repository.NewPrestamoRepository(db),
		cuotas:        repository.NewCuotaRepository(db),
		pagos:         repository.NewPagoRepository(db),
		tiposPrestamo: repository.NewTipoPrestamoRepository(db),
		tiposGasto:    repository.NewTipoGastoRepository(db),
		garantes:      repository.NewGaranteRepository(db),
		capital:       repository.NewSingletonRepository[model.Capital](db, "capital"),
		empresa:       repository.NewSingletonRepository[model.EmpresaConfiguracion](db, "configuración de empresa"),
		impresora:     repository.NewSingletonRepository[model.ImpresoraConfiguracion](db, "configuración de impresora"),
		politicas:     repository.NewSingletonRepository[model.PoliticaMora](db, "política de mora"),
	}
}

// Background holds what cmd/server runs outside the HTTP engine.
type Background struct {
	Mora     service.MoraService
	Handlers map[string]worker.Handler
}

// NewBackground builds the penalty sweep and the receipt job handler on the
// same repositories the API uses.
func NewBackground(cfg *config.Config, db *gorm.DB, mailer *infra.Mailer) *Background {
	repos := nuevosRepositorios(db)
	loc := service.Zona(cfg.Timezone)
	return &Background{
		Mora: service.NewMoraService(repos.cuotas, repos.prestamos, repos.politicas, cfg, loc),
		Handlers: map[string]worker.Handler{
			worker.JobRecibo: worker.NewReciboWorker(repos.pagos, repos.empresa, repos.impresora, mailer, cfg.PDFStoragePath),
		},
	}
}
