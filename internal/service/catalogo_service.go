package service

import (
	"context"
	"errors"
	"strings"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"gorm.io/gorm"
)

// CatalogoService manages the reference data loans are built from.
type CatalogoService interface {
	CrearTipoPrestamo(ctx context.Context, req dto.TipoPrestamoRequest) (*dto.TipoPrestamoResponse, error)
	ListarTiposPrestamo(ctx context.Context, q string) ([]dto.TipoPrestamoResponse, error)
	CrearTipoGasto(ctx context.Context, req dto.TipoGastoRequest) (*dto.TipoGastoResponse, error)
	ListarTiposGasto(ctx context.Context, q string) ([]dto.TipoGastoResponse, error)
	CrearGarante(ctx context.Context, req dto.GaranteRequest) (*dto.GaranteResponse, error)
	ListarGarantes(ctx context.Context, q string) ([]dto.GaranteResponse, error)
}

type catalogoService struct {
	tiposPrestamo repository.CatalogoRepository[model.TipoPrestamo]
	tiposGasto    repository.CatalogoRepository[model.TipoGasto]
	garantes      repository.CatalogoRepository[model.Garante]
}

func NewCatalogoService(
	tiposPrestamo repository.CatalogoRepository[model.TipoPrestamo],
	tiposGasto repository.CatalogoRepository[model.TipoGasto],
	garantes repository.CatalogoRepository[model.Garante],
) CatalogoService {
	return &catalogoService{tiposPrestamo: tiposPrestamo, tiposGasto: tiposGasto, garantes: garantes}
}

func duplicado(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Validacion("%s", msg)
	}
	return err
}

// ── Tipos de préstamo ────────────────────────────────────────────────────────

func (s *catalogoService) CrearTipoPrestamo(ctx context.Context, req dto.TipoPrestamoRequest) (*dto.TipoPrestamoResponse, error) {
	if req.MontoMaximo.LessThan(req.MontoMinimo) {
		return nil, apierror.Validacion("monto_maximo no puede ser menor que monto_minimo")
	}
	t := &model.TipoPrestamo{
		Nombre:                    strings.TrimSpace(req.Nombre),
		TasaInteresPredeterminada: req.TasaInteresPredeterminada,
		MontoMinimo:               req.MontoMinimo,
		MontoMaximo:               req.MontoMaximo,
		PlazoMaximoMeses:          req.PlazoMaximoMeses,
	}
	if err := s.tiposPrestamo.Create(ctx, t); err != nil {
		return nil, duplicado(err, "Ya existe un tipo de préstamo con ese nombre")
	}
	resp := tipoPrestamoToResponse(t)
	return &resp, nil
}

func (s *catalogoService) ListarTiposPrestamo(ctx context.Context, q string) ([]dto.TipoPrestamoResponse, error) {
	ts, err := s.tiposPrestamo.List(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoPrestamoResponse, len(ts))
	for i := range ts {
		resp[i] = tipoPrestamoToResponse(&ts[i])
	}
	return resp, nil
}

func tipoPrestamoToResponse(t *model.TipoPrestamo) dto.TipoPrestamoResponse {
	return dto.TipoPrestamoResponse{
		ID:                        t.ID.String(),
		Nombre:                    t.Nombre,
		TasaInteresPredeterminada: t.TasaInteresPredeterminada,
		MontoMinimo:               t.MontoMinimo,
		MontoMaximo:               t.MontoMaximo,
		PlazoMaximoMeses:          t.PlazoMaximoMeses,
	}
}

// ── Tipos de gasto ───────────────────────────────────────────────────────────

func (s *catalogoService) CrearTipoGasto(ctx context.Context, req dto.TipoGastoRequest) (*dto.TipoGastoResponse, error) {
	t := &model.TipoGasto{Nombre: strings.TrimSpace(req.Nombre), Descripcion: req.Descripcion}
	if err := s.tiposGasto.Create(ctx, t); err != nil {
		return nil, duplicado(err, "Ya existe un tipo de gasto con ese nombre")
	}
	return &dto.TipoGastoResponse{ID: t.ID.String(), Nombre: t.Nombre, Descripcion: t.Descripcion}, nil
}

func (s *catalogoService) ListarTiposGasto(ctx context.Context, q string) ([]dto.TipoGastoResponse, error) {
	ts, err := s.tiposGasto.List(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoGastoResponse, len(ts))
	for i, t := range ts {
		resp[i] = dto.TipoGastoResponse{ID: t.ID.String(), Nombre: t.Nombre, Descripcion: t.Descripcion}
	}
	return resp, nil
}

// ── Garantes ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearGarante(ctx context.Context, req dto.GaranteRequest) (*dto.GaranteResponse, error) {
	if req.IngresosMensuales != nil && req.IngresosMensuales.IsNegative() {
		return nil, apierror.Validacion("ingresos_mensuales no puede ser negativo")
	}
	g := &model.Garante{
		NombreCompleto:    strings.TrimSpace(req.NombreCompleto),
		Cedula:            strings.TrimSpace(req.Cedula),
		LugarTrabajo:      req.LugarTrabajo,
		IngresosMensuales: req.IngresosMensuales,
	}
	if err := s.garantes.Create(ctx, g); err != nil {
		return nil, duplicado(err, "Ya existe un garante con esa cédula")
	}
	resp := garanteToResponse(g)
	return &resp, nil
}

func (s *catalogoService) ListarGarantes(ctx context.Context, q string) ([]dto.GaranteResponse, error) {
	gs, err := s.garantes.List(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GaranteResponse, len(gs))
	for i := range gs {
		resp[i] = garanteToResponse(&gs[i])
	}
	return resp, nil
}

func garanteToResponse(g *model.Garante) dto.GaranteResponse {
	return dto.GaranteResponse{
		ID: g.ID.String(), NombreCompleto: g.NombreCompleto, Cedula: g.Cedula,
		LugarTrabajo: g.LugarTrabajo, IngresosMensuales: g.IngresosMensuales,
	}
}
