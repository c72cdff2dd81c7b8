package service

import (
	"context"
	"testing"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildConfiguracionSvc(t *testing.T) ConfiguracionService {
	t.Helper()
	db, err := infra.NewDatabase("sqlite", "file::memory:")
	require.NoError(t, err)
	cfg := &config.Config{MoraTasa: "0.001", MoraPeriodo: "diario", MoraDiasGracia: 3}
	return NewConfiguracionService(
		repository.NewSingletonRepository[model.Capital](db, "capital"),
		repository.NewSingletonRepository[model.EmpresaConfiguracion](db, "configuración de empresa"),
		repository.NewSingletonRepository[model.ImpresoraConfiguracion](db, "configuración de impresora"),
		repository.NewSingletonRepository[model.PoliticaMora](db, "política de mora"),
		nil, cfg,
	)
}

func TestGlobal_NulosSinConfiguracion(t *testing.T) {
	svc := buildConfiguracionSvc(t)
	g, err := svc.Global(context.Background())
	require.NoError(t, err)
	assert.Nil(t, g.EmpresaConfiguracion)
	assert.Nil(t, g.ImpresoraConfiguracion)
}

func TestEmpresa_SoloUnRegistro(t *testing.T) {
	svc := buildConfiguracionSvc(t)
	ctx := context.Background()

	_, err := svc.ActualizarEmpresa(ctx, dto.EmpresaRequest{Nombre: "Nada"})
	assert.ErrorIs(t, err, apierror.ErrNoEncontrado)

	_, err = svc.CrearEmpresa(ctx, dto.EmpresaRequest{Nombre: "Préstamos del Caribe", RNC: ptr("101000001")})
	require.NoError(t, err)
	_, err = svc.CrearEmpresa(ctx, dto.EmpresaRequest{Nombre: "Otra"})
	assert.ErrorIs(t, err, apierror.ErrCardinalidad)

	_, err = svc.ActualizarEmpresa(ctx, dto.EmpresaRequest{Nombre: "Préstamos del Caribe SRL"})
	require.NoError(t, err)
	g, err := svc.Global(ctx)
	require.NoError(t, err)
	require.NotNil(t, g.EmpresaConfiguracion)
	assert.Equal(t, "Préstamos del Caribe SRL", g.EmpresaConfiguracion.Nombre)
	assert.Nil(t, g.ImpresoraConfiguracion)

	require.NoError(t, svc.EliminarEmpresa(ctx))
	assert.ErrorIs(t, svc.EliminarEmpresa(ctx), apierror.ErrNoEncontrado)
}

func TestEmpresa_LogoDebeSerImagen(t *testing.T) {
	svc := buildConfiguracionSvc(t)
	_, err := svc.CrearEmpresa(context.Background(), dto.EmpresaRequest{Nombre: "X", Logo: ptr("/srv/logo.gif")})
	assert.ErrorIs(t, err, apierror.ErrValidacion)
}

func TestMora_OrigenDeLaPolitica(t *testing.T) {
	svc := buildConfiguracionSvc(t)
	ctx := context.Background()

	p, err := svc.ObtenerMora(ctx)
	require.NoError(t, err)
	assert.Equal(t, "configuracion", p.Origen)
	assert.True(t, p.Tasa.Equal(dec("0.001")))
	assert.Empty(t, p.ID)

	_, err = svc.CrearMora(ctx, dto.PoliticaMoraRequest{Tasa: dec("0.05"), Periodo: "semanal"})
	assert.ErrorIs(t, err, apierror.ErrValidacion)

	_, err = svc.CrearMora(ctx, dto.PoliticaMoraRequest{Tasa: dec("0.05"), Periodo: "mensual", DiasGracia: 5})
	require.NoError(t, err)
	p, err = svc.ObtenerMora(ctx)
	require.NoError(t, err)
	assert.Equal(t, "politica_mora", p.Origen)
	assert.Equal(t, 5, p.DiasGracia)
}

func TestCapital_CicloCompleto(t *testing.T) {
	svc := buildConfiguracionSvc(t)
	ctx := context.Background()

	_, err := svc.ObtenerCapital(ctx)
	assert.ErrorIs(t, err, apierror.ErrNoEncontrado)

	_, err = svc.CrearCapital(ctx, dto.CapitalRequest{MontoInicial: dec("250000")})
	require.NoError(t, err)
	c, err := svc.ActualizarCapital(ctx, dto.CapitalRequest{MontoInicial: dec("300000.456")})
	require.NoError(t, err)
	assert.True(t, c.MontoInicial.Equal(dec("300000.46")))
	require.NoError(t, svc.EliminarCapital(ctx))
}
