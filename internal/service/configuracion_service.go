package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	claveConfigGlobal = "config:global"
	ttlConfigGlobal   = 10 * time.Minute
)

// ConfiguracionService manages the four singleton settings. Create fails
// with 409 when the row exists; Update and Delete with 404 when it does not.
type ConfiguracionService interface {
	CrearCapital(ctx context.Context, req dto.CapitalRequest) (*dto.CapitalResponse, error)
	ObtenerCapital(ctx context.Context) (*dto.CapitalResponse, error)
	ActualizarCapital(ctx context.Context, req dto.CapitalRequest) (*dto.CapitalResponse, error)
	EliminarCapital(ctx context.Context) error

	CrearEmpresa(ctx context.Context, req dto.EmpresaRequest) (*dto.EmpresaResponse, error)
	ObtenerEmpresa(ctx context.Context) (*dto.EmpresaResponse, error)
	ActualizarEmpresa(ctx context.Context, req dto.EmpresaRequest) (*dto.EmpresaResponse, error)
	EliminarEmpresa(ctx context.Context) error

	CrearImpresora(ctx context.Context, req dto.ImpresoraRequest) (*dto.ImpresoraResponse, error)
	ObtenerImpresora(ctx context.Context) (*dto.ImpresoraResponse, error)
	ActualizarImpresora(ctx context.Context, req dto.ImpresoraRequest) (*dto.ImpresoraResponse, error)
	EliminarImpresora(ctx context.Context) error

	CrearMora(ctx context.Context, req dto.PoliticaMoraRequest) (*dto.PoliticaMoraResponse, error)
	// ObtenerMora falls back to the configured defaults when no row exists.
	ObtenerMora(ctx context.Context) (*dto.PoliticaMoraResponse, error)
	ActualizarMora(ctx context.Context, req dto.PoliticaMoraRequest) (*dto.PoliticaMoraResponse, error)
	EliminarMora(ctx context.Context) error

	// Global is the company/printer context shared by every page and receipt.
	Global(ctx context.Context) (*dto.ConfiguracionGlobalResponse, error)
}

type configuracionService struct {
	capital   repository.SingletonRepository[model.Capital]
	empresa   repository.SingletonRepository[model.EmpresaConfiguracion]
	impresora repository.SingletonRepository[model.ImpresoraConfiguracion]
	politicas repository.SingletonRepository[model.PoliticaMora]
	rdb       *redis.Client // nil disables the cache
	cfg       *config.Config
}

func NewConfiguracionService(
	capital repository.SingletonRepository[model.Capital],
	empresa repository.SingletonRepository[model.EmpresaConfiguracion],
	impresora repository.SingletonRepository[model.ImpresoraConfiguracion],
	politicas repository.SingletonRepository[model.PoliticaMora],
	rdb *redis.Client,
	cfg *config.Config,
) ConfiguracionService {
	return &configuracionService{capital: capital, empresa: empresa, impresora: impresora, politicas: politicas, rdb: rdb, cfg: cfg}
}

// actualizar loads the existing row, applies fn and saves it.
func actualizar[T any](ctx context.Context, repo repository.SingletonRepository[T], entidad string, fn func(*T) error) (*T, error) {
	actual, err := repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if actual == nil {
		return nil, apierror.NoEncontrado(entidad)
	}
	if err := fn(actual); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, actual); err != nil {
		return nil, err
	}
	return actual, nil
}

// ── Capital ──────────────────────────────────────────────────────────────────

func (s *configuracionService) CrearCapital(ctx context.Context, req dto.CapitalRequest) (*dto.CapitalResponse, error) {
	c := &model.Capital{MontoInicial: req.MontoInicial.Round(2)}
	if err := s.capital.Create(ctx, c); err != nil {
		return nil, err
	}
	return capitalToResponse(c), nil
}

func (s *configuracionService) ObtenerCapital(ctx context.Context) (*dto.CapitalResponse, error) {
	c, err := s.capital.Get(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apierror.NoEncontrado("Capital")
	}
	return capitalToResponse(c), nil
}

func (s *configuracionService) ActualizarCapital(ctx context.Context, req dto.CapitalRequest) (*dto.CapitalResponse, error) {
	c, err := actualizar(ctx, s.capital, "Capital", func(c *model.Capital) error {
		c.MontoInicial = req.MontoInicial.Round(2)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return capitalToResponse(c), nil
}

func (s *configuracionService) EliminarCapital(ctx context.Context) error {
	return s.capital.Delete(ctx)
}

func capitalToResponse(c *model.Capital) *dto.CapitalResponse {
	return &dto.CapitalResponse{ID: c.ID.String(), MontoInicial: c.MontoInicial, FechaRegistro: c.FechaRegistro.Format(time.RFC3339)}
}

// ── Empresa ──────────────────────────────────────────────────────────────────

func aplicarEmpresa(e *model.EmpresaConfiguracion, req dto.EmpresaRequest) error {
	if req.Logo != nil && *req.Logo != "" {
		switch strings.ToLower(filepath.Ext(*req.Logo)) {
		case ".png", ".jpg", ".jpeg":
		default:
			return apierror.Validacion("El logo debe ser una imagen PNG o JPEG")
		}
	}
	e.Nombre = strings.TrimSpace(req.Nombre)
	e.RNC = req.RNC
	e.Direccion = req.Direccion
	e.Telefono = req.Telefono
	e.Email = req.Email
	e.Logo = req.Logo
	return nil
}

func (s *configuracionService) CrearEmpresa(ctx context.Context, req dto.EmpresaRequest) (*dto.EmpresaResponse, error) {
	e := &model.EmpresaConfiguracion{}
	if err := aplicarEmpresa(e, req); err != nil {
		return nil, err
	}
	if err := s.empresa.Create(ctx, e); err != nil {
		return nil, err
	}
	s.invalidarGlobal(ctx)
	return empresaToResponse(e), nil
}

func (s *configuracionService) ObtenerEmpresa(ctx context.Context) (*dto.EmpresaResponse, error) {
	e, err := s.empresa.Get(ctx)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apierror.NoEncontrado("Configuración de empresa")
	}
	return empresaToResponse(e), nil
}

func (s *configuracionService) ActualizarEmpresa(ctx context.Context, req dto.EmpresaRequest) (*dto.EmpresaResponse, error) {
	e, err := actualizar(ctx, s.empresa, "Configuración de empresa", func(e *model.EmpresaConfiguracion) error {
		return aplicarEmpresa(e, req)
	})
	if err != nil {
		return nil, err
	}
	s.invalidarGlobal(ctx)
	return empresaToResponse(e), nil
}

func (s *configuracionService) EliminarEmpresa(ctx context.Context) error {
	if err := s.empresa.Delete(ctx); err != nil {
		return err
	}
	s.invalidarGlobal(ctx)
	return nil
}

func empresaToResponse(e *model.EmpresaConfiguracion) *dto.EmpresaResponse {
	return &dto.EmpresaResponse{
		ID: e.ID.String(), Nombre: e.Nombre, RNC: e.RNC, Direccion: e.Direccion,
		Telefono: e.Telefono, Email: e.Email, Logo: e.Logo,
	}
}

// ── Impresora ────────────────────────────────────────────────────────────────

func (s *configuracionService) CrearImpresora(ctx context.Context, req dto.ImpresoraRequest) (*dto.ImpresoraResponse, error) {
	i := &model.ImpresoraConfiguracion{Nombre: strings.TrimSpace(req.Nombre), AnchoPapelPx: req.AnchoPapelPx, IncluirLogo: req.IncluirLogo}
	if err := s.impresora.Create(ctx, i); err != nil {
		return nil, err
	}
	s.invalidarGlobal(ctx)
	return impresoraToResponse(i), nil
}

func (s *configuracionService) ObtenerImpresora(ctx context.Context) (*dto.ImpresoraResponse, error) {
	i, err := s.impresora.Get(ctx)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, apierror.NoEncontrado("Configuración de impresora")
	}
	return impresoraToResponse(i), nil
}

func (s *configuracionService) ActualizarImpresora(ctx context.Context, req dto.ImpresoraRequest) (*dto.ImpresoraResponse, error) {
	i, err := actualizar(ctx, s.impresora, "Configuración de impresora", func(i *model.ImpresoraConfiguracion) error {
		i.Nombre = strings.TrimSpace(req.Nombre)
		i.AnchoPapelPx = req.AnchoPapelPx
		i.IncluirLogo = req.IncluirLogo
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidarGlobal(ctx)
	return impresoraToResponse(i), nil
}

func (s *configuracionService) EliminarImpresora(ctx context.Context) error {
	if err := s.impresora.Delete(ctx); err != nil {
		return err
	}
	s.invalidarGlobal(ctx)
	return nil
}

func impresoraToResponse(i *model.ImpresoraConfiguracion) *dto.ImpresoraResponse {
	return &dto.ImpresoraResponse{ID: i.ID.String(), Nombre: i.Nombre, AnchoPapelPx: i.AnchoPapelPx, IncluirLogo: i.IncluirLogo}
}

// ── Mora ─────────────────────────────────────────────────────────────────────

func aplicarPolitica(p *model.PoliticaMora, req dto.PoliticaMoraRequest) error {
	p.Tasa = req.Tasa
	p.Periodo = req.Periodo
	p.DiasGracia = req.DiasGracia
	p.Compuesta = req.Compuesta
	p.TopePorcentaje = req.TopePorcentaje
	return p.Politica().Validar()
}

func (s *configuracionService) CrearMora(ctx context.Context, req dto.PoliticaMoraRequest) (*dto.PoliticaMoraResponse, error) {
	p := &model.PoliticaMora{}
	if err := aplicarPolitica(p, req); err != nil {
		return nil, err
	}
	if err := s.politicas.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("tasa", p.Tasa.String()).Str("periodo", p.Periodo).Msg("configuracion: politica de mora creada")
	return politicaToResponse(p, "politica_mora"), nil
}

func (s *configuracionService) ObtenerMora(ctx context.Context) (*dto.PoliticaMoraResponse, error) {
	p, err := s.politicas.Get(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		d := politicaPorDefecto(s.cfg)
		return politicaToResponse(&d, "configuracion"), nil
	}
	return politicaToResponse(p, "politica_mora"), nil
}

func (s *configuracionService) ActualizarMora(ctx context.Context, req dto.PoliticaMoraRequest) (*dto.PoliticaMoraResponse, error) {
	p, err := actualizar(ctx, s.politicas, "Política de mora", func(p *model.PoliticaMora) error {
		return aplicarPolitica(p, req)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("tasa", p.Tasa.String()).Str("periodo", p.Periodo).Msg("configuracion: politica de mora actualizada")
	return politicaToResponse(p, "politica_mora"), nil
}

func (s *configuracionService) EliminarMora(ctx context.Context) error {
	return s.politicas.Delete(ctx)
}

func politicaToResponse(p *model.PoliticaMora, origen string) *dto.PoliticaMoraResponse {
	resp := &dto.PoliticaMoraResponse{
		Tasa: p.Tasa, Periodo: p.Periodo, DiasGracia: p.DiasGracia,
		Compuesta: p.Compuesta, TopePorcentaje: p.TopePorcentaje, Origen: origen,
	}
	if origen != "configuracion" {
		resp.ID = p.ID.String()
	}
	return resp
}

// ── Global ───────────────────────────────────────────────────────────────────
// Cached in Redis; every write to empresa or impresora drops the key.

func (s *configuracionService) Global(ctx context.Context) (*dto.ConfiguracionGlobalResponse, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, claveConfigGlobal).Bytes()
		switch {
		case err == nil:
			var resp dto.ConfiguracionGlobalResponse
			if json.Unmarshal(raw, &resp) == nil {
				return &resp, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Warn().Err(err).Msg("configuracion: cache no disponible")
		}
	}

	resp := &dto.ConfiguracionGlobalResponse{}
	e, err := s.empresa.Get(ctx)
	if err != nil {
		return nil, err
	}
	if e != nil {
		resp.EmpresaConfiguracion = empresaToResponse(e)
	}
	i, err := s.impresora.Get(ctx)
	if err != nil {
		return nil, err
	}
	if i != nil {
		resp.ImpresoraConfiguracion = impresoraToResponse(i)
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, claveConfigGlobal, raw, ttlConfigGlobal).Err(); err != nil {
				log.Warn().Err(err).Msg("configuracion: no se pudo cachear")
			}
		}
	}
	return resp, nil
}

func (s *configuracionService) invalidarGlobal(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, claveConfigGlobal).Err(); err != nil {
		log.Warn().Err(err).Msg("configuracion: no se pudo invalidar la cache")
	}
}
