package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CambiarContrasenaRequest struct {
	ContrasenaActual string `json:"contrasena_actual" validate:"required"`
	ContrasenaNueva  string `json:"contrasena_nueva"  validate:"required,min=8,max=72"`
}

type CrearUsuarioRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=150"`
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Rol      string  `json:"rol"      validate:"required,oneof=administrador oficial cajero cliente"`
}

type UsuarioFilter struct {
	Rol string `form:"rol" validate:"omitempty,oneof=administrador oficial cajero cliente"`
}

type EstadoUsuarioRequest struct {
	Activo *bool `json:"activo" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email"`
	Rol      string  `json:"rol"`
	Activo   bool    `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
	// DebeCambiarContrasena is true for portal clients whose password was reset
	DebeCambiarContrasena bool `json:"debe_cambiar_contrasena"`
}
