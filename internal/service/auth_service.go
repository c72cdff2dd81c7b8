package service

import (
	"context"
	"errors"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is shared by every password hash the service writes.
const BcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// CambiarContrasena verifies the current password, stores the new one and
	// clears the forced-change flag of the linked client, if any.
	CambiarContrasena(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarContrasenaRequest) error
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, f dto.UsuarioFilter) ([]dto.UsuarioResponse, error)
	// CambiarActivo enables or disables an account; inactive accounts cannot log in.
	CambiarActivo(ctx context.Context, id uuid.UUID, activo bool) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo     repository.UsuarioRepository
	clientes repository.ClienteRepository
	cfg      *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, clientes repository.ClienteRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, clientes: clientes, cfg: cfg}
}

var errCredenciales = apierror.Permiso("credenciales invalidas")

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errCredenciales
	}
	return s.emitirTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Permiso("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Permiso("claims invalidos")
	}
	if tipo, _ := claims["tipo"].(string); tipo != tokenRefresh {
		return nil, apierror.Permiso("token mal formado")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apierror.Permiso("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apierror.Permiso("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, apierror.Permiso("usuario no encontrado o inactivo")
	}
	return s.emitirTokens(ctx, user)
}

func (s *authService) CambiarContrasena(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarContrasenaRequest) error {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return noEncontrado(err, "Usuario")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.ContrasenaActual)); err != nil {
		return apierror.Validacion("La contraseña actual no es correcta")
	}
	if req.ContrasenaNueva == req.ContrasenaActual {
		return apierror.Validacion("La nueva contraseña debe ser distinta de la actual")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.ContrasenaNueva), BcryptCost)
	if err != nil {
		return err
	}

	cliente, err := s.clientes.FindByUsuarioID(ctx, usuarioID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		cliente = nil
	case err != nil:
		return err
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdatePasswordTx(tx, usuarioID, string(hash)); err != nil {
			return err
		}
		if cliente != nil && cliente.DebeCambiarContrasena {
			if err := s.clientes.SetDebeCambiarContrasenaTx(tx, cliente.ID, false); err != nil {
				return err
			}
		}
		log.Info().Str("usuario", user.Username).Msg("auth: contraseña cambiada")
		return nil
	})
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Validacion("El usuario %q ya existe", req.Username)
		}
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, f dto.UsuarioFilter) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, f.Rol)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) CambiarActivo(ctx context.Context, id uuid.UUID, activo bool) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Usuario")
	}
	if user.Activo != activo {
		user.Activo = activo
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
		log.Info().Str("usuario", user.Username).Bool("activo", activo).Msg("auth: estado de cuenta cambiado")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) emitirTokens(ctx context.Context, user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, tokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, tokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	debeCambiar := false
	if user.Rol == model.RolCliente {
		if c, err := s.clientes.FindByUsuarioID(ctx, user.ID); err == nil {
			debeCambiar = c.DebeCambiarContrasena
		}
	}

	return &dto.LoginResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		TokenType:             "bearer",
		ExpiresIn:             s.cfg.JWTExpirationHours * 3600,
		User:                  usuarioToResponse(user),
		DebeCambiarContrasena: debeCambiar,
	}, nil
}

const (
	tokenAcceso  = "access"
	tokenRefresh = "refresh"
)

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"tipo":     tipo,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID: u.ID.String(), Username: u.Username, Nombre: u.Nombre,
		Email: u.Email, Rol: u.Rol, Activo: u.Activo,
	}
}
