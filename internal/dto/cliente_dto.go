package dto

import "github.com/shopspring/decimal"

// FormatoFecha is the date layout accepted and returned by the API.
const FormatoFecha = "2006-01-02"

// ─── Filter ──────────────────────────────────────────────────────────────────

// ClienteFilter is bound from the query string of GET /v1/clientes.
type ClienteFilter struct {
	Q           string `form:"q"`
	Sexo        string `form:"sexo"         validate:"omitempty,oneof=M F O"`
	EstadoCivil string `form:"estado_civil" validate:"omitempty,oneof=soltero casado union_libre divorciado viudo"`
	Desde       string `form:"desde"        validate:"omitempty,datetime=2006-01-02"`
	Hasta       string `form:"hasta"        validate:"omitempty,datetime=2006-01-02"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
	Offset      int    `form:"offset"           validate:"min=0"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ClienteRequest is used for both POST and PUT (full replacement).
type ClienteRequest struct {
	Nombres         string  `json:"nombres"          validate:"required,min=1,max=100"`
	Apellidos       string  `json:"apellidos"        validate:"required,min=1,max=100"`
	Apodo           *string `json:"apodo"            validate:"omitempty,max=50"`
	Sexo            string  `json:"sexo"             validate:"required,oneof=M F O"`
	EstadoCivil     string  `json:"estado_civil"     validate:"required,oneof=soltero casado union_libre divorciado viudo"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`

	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  string  `json:"telefono"  validate:"max=30"`
	Direccion string  `json:"direccion"`

	TipoDocumento   string  `json:"tipo_documento"   validate:"required,oneof=cedula pasaporte rnc"`
	NumeroDocumento *string `json:"numero_documento" validate:"omitempty,max=30"`

	NombreEmpresa       *string          `json:"nombre_empresa"        validate:"omitempty,max=150"`
	Cargo               *string          `json:"cargo"                 validate:"omitempty,max=100"`
	TelefonoTrabajo     *string          `json:"telefono_trabajo"      validate:"omitempty,max=30"`
	IngresosMensuales   *decimal.Decimal `json:"ingresos_mensuales"`
	FechaIngresoTrabajo *string          `json:"fecha_ingreso_trabajo" validate:"omitempty,datetime=2006-01-02"`
	TrabajoActual       bool             `json:"trabajo_actual"`

	// Username, when set on creation, opens a portal account whose initial
	// password is the document number.
	Username *string `json:"username" validate:"omitempty,min=3,max=150"`
}

type RestablecerContrasenasRequest struct {
	ClienteIDs []string `json:"cliente_ids" validate:"required,min=1,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID                    string           `json:"id"`
	Nombres               string           `json:"nombres"`
	Apellidos             string           `json:"apellidos"`
	NombreCompleto        string           `json:"nombre_completo"`
	Apodo                 *string          `json:"apodo"`
	Sexo                  string           `json:"sexo"`
	EstadoCivil           string           `json:"estado_civil"`
	FechaNacimiento       *string          `json:"fecha_nacimiento"`
	Email                 *string          `json:"email"`
	Telefono              string           `json:"telefono"`
	Direccion             string           `json:"direccion"`
	TipoDocumento         string           `json:"tipo_documento"`
	NumeroDocumento       *string          `json:"numero_documento"`
	NombreEmpresa         *string          `json:"nombre_empresa"`
	Cargo                 *string          `json:"cargo"`
	TelefonoTrabajo       *string          `json:"telefono_trabajo"`
	IngresosMensuales     *decimal.Decimal `json:"ingresos_mensuales"`
	FechaIngresoTrabajo   *string          `json:"fecha_ingreso_trabajo"`
	TrabajoActual         bool             `json:"trabajo_actual"`
	Username              *string          `json:"username"`
	DebeCambiarContrasena bool             `json:"debe_cambiar_contrasena"`
	FechaRegistro         string           `json:"fecha_registro"`
}

// ResultadoRestablecimiento reports a batch password reset. Records that
// could not be reset show up in Advertencias; the batch itself never fails.
type ResultadoRestablecimiento struct {
	Actualizados int      `json:"actualizados"`
	Advertencias []string `json:"advertencias"`
	Mensaje      string   `json:"mensaje,omitempty"`
}
