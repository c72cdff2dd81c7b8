package service

import (
	"context"
	"errors"
	"testing"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubClienteRepo is an in-memory ClienteRepository.
type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo(cs ...*model.Cliente) *stubClienteRepo {
	r := &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
	for _, c := range cs {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.clientes[c.ID] = c
	}
	return r
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error { return r.CreateTx(nil, c) }
func (r *stubClienteRepo) CreateTx(_ *gorm.DB, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}
func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}
func (r *stubClienteRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, id := range ids {
		if c, ok := r.clientes[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}
func (r *stubClienteRepo) FindByUsuarioID(_ context.Context, usuarioID uuid.UUID) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.UsuarioID != nil && *c.UsuarioID == usuarioID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubClienteRepo) FindByDocumento(_ context.Context, tipo, numero string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.TipoDocumento == tipo && c.Documento() == numero {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubClienteRepo) List(_ context.Context, _ repository.ClienteFiltro) ([]model.Cliente, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}
func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}
func (r *stubClienteRepo) SetDebeCambiarContrasenaTx(_ *gorm.DB, id uuid.UUID, valor bool) error {
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.DebeCambiarContrasena = valor
	return nil
}
func (r *stubClienteRepo) DB() *gorm.DB { return nil }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubUsuarioRepo stores hashes by id; ids in fallar reject updates.
type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
	fallar   map[uuid.UUID]bool
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario), fallar: make(map[uuid.UUID]bool)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error { return r.CreateTx(nil, u) }
func (r *stubUsuarioRepo) CreateTx(_ *gorm.DB, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}
func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}
func (r *stubUsuarioRepo) List(_ context.Context, rol string) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if rol == "" || u.Rol == rol {
			out = append(out, *u)
		}
	}
	return out, nil
}
func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}
func (r *stubUsuarioRepo) UpdatePasswordTx(_ *gorm.DB, id uuid.UUID, hash string) error {
	if r.fallar[id] {
		return errors.New("conexion perdida")
	}
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}
func (r *stubUsuarioRepo) DB() *gorm.DB { return nil }

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func hashDePrueba(p string) (string, error) { return "hash:" + p, nil }

func buildClienteSvc(cs ...*model.Cliente) (*clienteService, *stubClienteRepo, *stubUsuarioRepo) {
	clientes := newStubClienteRepo(cs...)
	usuarios := newStubUsuarioRepo()
	svc := NewClienteService(clientes, usuarios).(*clienteService)
	svc.hash = hashDePrueba
	return svc, clientes, usuarios
}

func clienteConCuenta(t *testing.T, usuarios *stubUsuarioRepo, c *model.Cliente) {
	t.Helper()
	u := &model.Usuario{Username: c.Nombres, PasswordHash: "vieja", Rol: model.RolCliente, Activo: true}
	require.NoError(t, usuarios.CreateTx(nil, u))
	c.UsuarioID = &u.ID
}

// ── RestablecerContrasenas ───────────────────────────────────────────────────

func TestRestablecer_DosDeTres(t *testing.T) {
	a := &model.Cliente{Nombres: "Ana", Apellidos: "Pérez", NumeroDocumento: ptr("001")}
	b := &model.Cliente{Nombres: "Beto", Apellidos: "Díaz", NumeroDocumento: ptr("002")}
	c := &model.Cliente{Nombres: "Carla", Apellidos: "Ruiz", NumeroDocumento: ptr("003")}
	svc, clientes, usuarios := buildClienteSvc(a, b, c)
	clienteConCuenta(t, usuarios, a)
	clienteConCuenta(t, usuarios, b)

	res, err := svc.RestablecerContrasenas(context.Background(), []uuid.UUID{a.ID, b.ID, c.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Actualizados)
	assert.Equal(t, []string{"El cliente Carla Ruiz no tiene un usuario de sistema asociado."}, res.Advertencias)
	assert.Equal(t, "Se restableció la contraseña de 2 cliente(s) a su número de documento.", res.Mensaje)

	assert.Equal(t, "hash:001", usuarios.usuarios[*a.UsuarioID].PasswordHash)
	assert.Equal(t, "hash:002", usuarios.usuarios[*b.UsuarioID].PasswordHash)
	assert.True(t, clientes.clientes[a.ID].DebeCambiarContrasena)
	assert.False(t, clientes.clientes[c.ID].DebeCambiarContrasena)
}

func TestRestablecer_AdvertenciasPorRegistro(t *testing.T) {
	sinDoc := &model.Cliente{Nombres: "Dora", Apellidos: "Lima", NumeroDocumento: ptr("  ")}
	falla := &model.Cliente{Nombres: "Eva", Apellidos: "Mora", NumeroDocumento: ptr("005")}
	svc, clientes, usuarios := buildClienteSvc(sinDoc, falla)
	clienteConCuenta(t, usuarios, sinDoc)
	clienteConCuenta(t, usuarios, falla)
	usuarios.fallar[*falla.UsuarioID] = true
	inexistente := uuid.New()

	res, err := svc.RestablecerContrasenas(context.Background(), []uuid.UUID{sinDoc.ID, falla.ID, inexistente})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Actualizados)
	assert.Empty(t, res.Mensaje)
	assert.Equal(t, []string{
		"El cliente Dora Lima no tiene un número de documento para usar como contraseña.",
		"No se pudo restablecer la contraseña del cliente Eva Mora.",
		"El cliente " + inexistente.String() + " no existe.",
	}, res.Advertencias)
	assert.Equal(t, "vieja", usuarios.usuarios[*falla.UsuarioID].PasswordHash)
	assert.False(t, clientes.clientes[falla.ID].DebeCambiarContrasena)
}

// ── Crear ────────────────────────────────────────────────────────────────────

func TestCrearCliente_ConAccesoAlPortal(t *testing.T) {
	svc, clientes, usuarios := buildClienteSvc()
	resp, err := svc.Crear(context.Background(), dto.ClienteRequest{
		Nombres: "Fabio", Apellidos: "Soto", Sexo: "M", EstadoCivil: "casado",
		TipoDocumento: "cedula", NumeroDocumento: ptr(" 40200000001 "), Username: ptr("fsoto"),
	})
	require.NoError(t, err)

	assert.True(t, resp.DebeCambiarContrasena)
	require.NotNil(t, resp.Username)
	assert.Equal(t, "fsoto", *resp.Username)
	u, err := usuarios.FindByUsername(context.Background(), "fsoto")
	require.NoError(t, err)
	assert.Equal(t, "hash:40200000001", u.PasswordHash)
	assert.Equal(t, model.RolCliente, u.Rol)
	assert.Len(t, clientes.clientes, 1)
}

func TestCrearCliente_AccesoSinDocumento(t *testing.T) {
	svc, _, _ := buildClienteSvc()
	_, err := svc.Crear(context.Background(), dto.ClienteRequest{
		Nombres: "Gina", Apellidos: "Paz", Sexo: "F", EstadoCivil: "soltero",
		TipoDocumento: "cedula", Username: ptr("gpaz"),
	})
	assert.Error(t, err)
}
