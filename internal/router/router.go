package router

import (
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/handler"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/middleware"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Roles allowed per route family. Portal clients only reach
// /auth/cambiar-contrasena.
var (
	admin      = []string{model.RolAdministrador}
	staff      = []string{model.RolAdministrador, model.RolOficial}
	operadores = []string{model.RolAdministrador, model.RolOficial, model.RolCajero}
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// rdb and mailer may be nil; receipts are then not mailed and the global
// configuration is read straight from the database.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origenes()...))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	loc := service.Zona(cfg.Timezone)

	// ── Repositories ─────────────────────────────────────────────────────────
	repos := nuevosRepositorios(db)

	// ── Services ─────────────────────────────────────────────────────────────
	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
	}

	authSvc := service.NewAuthService(repos.usuarios, repos.clientes, cfg)
	clienteSvc := service.NewClienteService(repos.clientes, repos.usuarios)
	catalogoSvc := service.NewCatalogoService(repos.tiposPrestamo, repos.tiposGasto, repos.garantes)
	prestamoSvc := service.NewPrestamoService(repos.prestamos, repos.cuotas, repos.clientes, repos.tiposPrestamo, repos.tiposGasto, repos.garantes, loc)
	pagoSvc := service.NewPagoService(repos.cuotas, repos.prestamos, repos.pagos, dispatcher, loc)
	moraSvc := service.NewMoraService(repos.cuotas, repos.prestamos, repos.politicas, cfg, loc)
	configSvc := service.NewConfiguracionService(repos.capital, repos.empresa, repos.impresora, repos.politicas, rdb, cfg)
	reciboSvc := service.NewReciboService(repos.pagos, repos.empresa, repos.impresora)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	catalogosH := handler.NewCatalogosHandler(catalogoSvc)
	prestamosH := handler.NewPrestamosHandler(prestamoSvc)
	pagosH := handler.NewPagosHandler(pagoSvc, reciboSvc)
	configH := handler.NewConfiguracionHandler(configSvc)
	moraH := handler.NewMoraHandler(moraSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/cambiar-contrasena", authH.CambiarContrasena)

		usuarios := v1.Group("/usuarios", middleware.RequireRole(admin...))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PATCH("/:id/activo", usuariosH.CambiarActivo)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole(staff...))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.POST("/restablecer-contrasenas", middleware.RequireRole(admin...), clientesH.RestablecerContrasenas)
		}

		// Catalogs: staff writes, every back-office role reads
		v1.GET("/tipos-prestamo", middleware.RequireRole(operadores...), catalogosH.ListarTiposPrestamo)
		v1.POST("/tipos-prestamo", middleware.RequireRole(staff...), catalogosH.CrearTipoPrestamo)
		v1.GET("/tipos-gasto", middleware.RequireRole(operadores...), catalogosH.ListarTiposGasto)
		v1.POST("/tipos-gasto", middleware.RequireRole(staff...), catalogosH.CrearTipoGasto)
		v1.GET("/garantes", middleware.RequireRole(operadores...), catalogosH.ListarGarantes)
		v1.POST("/garantes", middleware.RequireRole(staff...), catalogosH.CrearGarante)

		prestamos := v1.Group("/prestamos")
		{
			prestamos.GET("", middleware.RequireRole(operadores...), prestamosH.Listar)
			prestamos.GET("/simular", middleware.RequireRole(operadores...), prestamosH.Simular)
			prestamos.GET("/:id", middleware.RequireRole(operadores...), prestamosH.Obtener)
			prestamos.POST("", middleware.RequireRole(staff...), prestamosH.Crear)
			prestamos.PATCH("/:id/estado", middleware.RequireRole(staff...), prestamosH.CambiarEstado)
			prestamos.POST("/:id/gastos", middleware.RequireRole(staff...), prestamosH.AgregarGasto)
			prestamos.POST("/:id/requisitos", middleware.RequireRole(staff...), prestamosH.AgregarRequisito)
			prestamos.DELETE("/:id", middleware.RequireRole(admin...), prestamosH.Eliminar)
		}

		cuotas := v1.Group("/cuotas")
		{
			cuotas.GET("", middleware.RequireRole(operadores...), pagosH.ListarCuotas)
			cuotas.GET("/:id", middleware.RequireRole(operadores...), pagosH.ObtenerCuota)
			cuotas.POST("/:id/pagos", middleware.RequireRole(operadores...), pagosH.RegistrarPago)
		}

		pagos := v1.Group("/pagos", middleware.RequireRole(operadores...))
		{
			pagos.GET("", pagosH.ListarPagos)
			pagos.GET("/:id/ticket", pagosH.Ticket)
		}

		conf := v1.Group("/configuracion")
		{
			// every page and receipt of the back office renders with it
			conf.GET("/global", configH.Global)

			escritura := conf.Group("", middleware.RequireRole(admin...))
			for ruta, s := range map[string]handler.Seccion{
				"/capital":   configH.Capital(),
				"/empresa":   configH.Empresa(),
				"/impresora": configH.Impresora(),
				"/mora":      configH.Mora(),
			} {
				escritura.POST(ruta, s.Crear)
				escritura.GET(ruta, s.Obtener)
				escritura.PUT(ruta, s.Actualizar)
				escritura.DELETE(ruta, s.Eliminar)
			}
		}

		v1.POST("/mora/procesar", middleware.RequireRole(admin...), moraH.Procesar)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
