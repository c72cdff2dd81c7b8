package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, f dto.ClienteFilter) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	// RestablecerContrasenas resets each client's portal password to its
	// document number. Per-client problems become warnings; only a failure
	// to load the batch is returned as an error.
	RestablecerContrasenas(ctx context.Context, ids []uuid.UUID) (*dto.ResultadoRestablecimiento, error)
}

type clienteService struct {
	repo     repository.ClienteRepository
	usuarios repository.UsuarioRepository
	// hash is bcrypt at BcryptCost; replaceable so tests stay fast
	hash func(password string) (string, error)
}

func NewClienteService(repo repository.ClienteRepository, usuarios repository.UsuarioRepository) ClienteService {
	return &clienteService{repo: repo, usuarios: usuarios, hash: hashBcrypt}
}

func hashBcrypt(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(h), err
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{}
	if err := aplicarClienteRequest(c, req); err != nil {
		return nil, err
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Username != nil && *req.Username != "" {
			doc := c.Documento()
			if doc == "" {
				return apierror.Validacion("Se requiere numero_documento para crear el acceso del cliente")
			}
			hash, err := s.hash(doc)
			if err != nil {
				return err
			}
			u := &model.Usuario{
				Username:     *req.Username,
				Nombre:       c.NombreCompleto(),
				Email:        c.Email,
				PasswordHash: hash,
				Rol:          model.RolCliente,
				Activo:       true,
			}
			if err := s.usuarios.CreateTx(tx, u); err != nil {
				return err
			}
			c.UsuarioID = &u.ID
			c.Usuario = u
			c.DebeCambiarContrasena = true
		}
		return s.repo.CreateTx(tx, c)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Validacion("Ya existe un cliente o usuario con esos datos de identificacion")
		}
		return nil, err
	}
	log.Info().Str("cliente_id", c.ID.String()).Msg("cliente: creado")
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Cliente")
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, f dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	filtro := repository.ClienteFiltro{
		Q: strings.TrimSpace(f.Q), Sexo: f.Sexo, EstadoCivil: f.EstadoCivil,
		Limit: f.Limit, Offset: f.Offset,
	}
	var err error
	if filtro.Desde, err = parseFechaOpcional(&f.Desde, "desde"); err != nil {
		return nil, err
	}
	if filtro.Hasta, err = parseFechaOpcional(&f.Hasta, "hasta"); err != nil {
		return nil, err
	}
	if filtro.Hasta != nil {
		// inclusive upper day
		fin := filtro.Hasta.AddDate(0, 0, 1)
		filtro.Hasta = &fin
	}

	cs, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, len(cs))
	for i := range cs {
		resp[i] = clienteToResponse(&cs[i])
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Cliente")
	}
	if err := aplicarClienteRequest(c, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Validacion("Ya existe un cliente con ese documento")
		}
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

// ── RestablecerContrasenas ───────────────────────────────────────────────────

func (s *clienteService) RestablecerContrasenas(ctx context.Context, ids []uuid.UUID) (*dto.ResultadoRestablecimiento, error) {
	clientes, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]*model.Cliente, len(clientes))
	for i := range clientes {
		porID[clientes[i].ID] = &clientes[i]
	}

	res := &dto.ResultadoRestablecimiento{Advertencias: []string{}}
	for _, id := range ids {
		c, ok := porID[id]
		switch {
		case !ok:
			res.Advertencias = append(res.Advertencias, fmt.Sprintf("El cliente %s no existe.", id))
			continue
		case c.UsuarioID == nil:
			res.Advertencias = append(res.Advertencias, fmt.Sprintf("El cliente %s no tiene un usuario de sistema asociado.", c))
			continue
		case c.Documento() == "":
			res.Advertencias = append(res.Advertencias, fmt.Sprintf("El cliente %s no tiene un número de documento para usar como contraseña.", c))
			continue
		}

		if err := s.restablecer(ctx, c); err != nil {
			log.Warn().Err(err).Str("cliente_id", c.ID.String()).Msg("cliente: restablecimiento fallido")
			res.Advertencias = append(res.Advertencias, fmt.Sprintf("No se pudo restablecer la contraseña del cliente %s.", c))
			continue
		}
		res.Actualizados++
	}

	if res.Actualizados > 0 {
		res.Mensaje = fmt.Sprintf("Se restableció la contraseña de %d cliente(s) a su número de documento.", res.Actualizados)
	}
	log.Info().Int("actualizados", res.Actualizados).Int("advertencias", len(res.Advertencias)).
		Msg("cliente: contraseñas restablecidas")
	return res, nil
}

// restablecer updates one client's account and flag atomically.
func (s *clienteService) restablecer(ctx context.Context, c *model.Cliente) error {
	hash, err := s.hash(c.Documento())
	if err != nil {
		return err
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.usuarios.UpdatePasswordTx(tx, *c.UsuarioID, hash); err != nil {
			return err
		}
		return s.repo.SetDebeCambiarContrasenaTx(tx, c.ID, true)
	})
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func aplicarClienteRequest(c *model.Cliente, req dto.ClienteRequest) error {
	nacimiento, err := parseFechaOpcional(req.FechaNacimiento, "fecha_nacimiento")
	if err != nil {
		return err
	}
	ingreso, err := parseFechaOpcional(req.FechaIngresoTrabajo, "fecha_ingreso_trabajo")
	if err != nil {
		return err
	}
	if req.IngresosMensuales != nil && req.IngresosMensuales.IsNegative() {
		return apierror.Validacion("ingresos_mensuales no puede ser negativo")
	}

	c.Nombres = strings.TrimSpace(req.Nombres)
	c.Apellidos = strings.TrimSpace(req.Apellidos)
	c.Apodo = req.Apodo
	c.Sexo = req.Sexo
	c.EstadoCivil = req.EstadoCivil
	c.FechaNacimiento = nacimiento
	c.Email = req.Email
	c.Telefono = req.Telefono
	c.Direccion = req.Direccion
	c.TipoDocumento = req.TipoDocumento
	c.NumeroDocumento = nil
	if req.NumeroDocumento != nil && strings.TrimSpace(*req.NumeroDocumento) != "" {
		doc := strings.TrimSpace(*req.NumeroDocumento)
		c.NumeroDocumento = &doc
	}
	c.NombreEmpresa = req.NombreEmpresa
	c.Cargo = req.Cargo
	c.TelefonoTrabajo = req.TelefonoTrabajo
	c.IngresosMensuales = req.IngresosMensuales
	c.FechaIngresoTrabajo = ingreso
	c.TrabajoActual = req.TrabajoActual
	return nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	resp := dto.ClienteResponse{
		ID:                    c.ID.String(),
		Nombres:               c.Nombres,
		Apellidos:             c.Apellidos,
		NombreCompleto:        c.NombreCompleto(),
		Apodo:                 c.Apodo,
		Sexo:                  c.Sexo,
		EstadoCivil:           c.EstadoCivil,
		FechaNacimiento:       formatFechaOpcional(c.FechaNacimiento),
		Email:                 c.Email,
		Telefono:              c.Telefono,
		Direccion:             c.Direccion,
		TipoDocumento:         c.TipoDocumento,
		NumeroDocumento:       c.NumeroDocumento,
		NombreEmpresa:         c.NombreEmpresa,
		Cargo:                 c.Cargo,
		TelefonoTrabajo:       c.TelefonoTrabajo,
		IngresosMensuales:     c.IngresosMensuales,
		FechaIngresoTrabajo:   formatFechaOpcional(c.FechaIngresoTrabajo),
		TrabajoActual:         c.TrabajoActual,
		DebeCambiarContrasena: c.DebeCambiarContrasena,
		FechaRegistro:         formatFecha(c.FechaRegistro),
	}
	if c.Usuario != nil {
		resp.Username = &c.Usuario.Username
	}
	return resp
}
