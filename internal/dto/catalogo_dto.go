package dto

import "github.com/shopspring/decimal"

// CatalogoFilter is the query string of the catalog listings.
type CatalogoFilter struct {
	Q string `form:"q"`
}

// ─── Tipos de préstamo ───────────────────────────────────────────────────────

type TipoPrestamoRequest struct {
	Nombre                    string          `json:"nombre"                      validate:"required,min=2,max=100"`
	TasaInteresPredeterminada decimal.Decimal `json:"tasa_interes_predeterminada" validate:"min=0"`
	MontoMinimo               decimal.Decimal `json:"monto_minimo"                validate:"min=0"`
	MontoMaximo               decimal.Decimal `json:"monto_maximo"                validate:"required"`
	PlazoMaximoMeses          int             `json:"plazo_maximo_meses"          validate:"required,min=1"`
}

type TipoPrestamoResponse struct {
	ID                        string          `json:"id"`
	Nombre                    string          `json:"nombre"`
	TasaInteresPredeterminada decimal.Decimal `json:"tasa_interes_predeterminada"`
	MontoMinimo               decimal.Decimal `json:"monto_minimo"`
	MontoMaximo               decimal.Decimal `json:"monto_maximo"`
	PlazoMaximoMeses          int             `json:"plazo_maximo_meses"`
}

// ─── Tipos de gasto ──────────────────────────────────────────────────────────

type TipoGastoRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=100"`
	Descripcion *string `json:"descripcion"`
}

type TipoGastoResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
}

// ─── Garantes ────────────────────────────────────────────────────────────────

type GaranteRequest struct {
	NombreCompleto    string           `json:"nombre_completo"    validate:"required,min=2,max=200"`
	Cedula            string           `json:"cedula"             validate:"required,min=3,max=30"`
	LugarTrabajo      *string          `json:"lugar_trabajo"      validate:"omitempty,max=150"`
	IngresosMensuales *decimal.Decimal `json:"ingresos_mensuales"`
}

type GaranteResponse struct {
	ID                string           `json:"id"`
	NombreCompleto    string           `json:"nombre_completo"`
	Cedula            string           `json:"cedula"`
	LugarTrabajo      *string          `json:"lugar_trabajo"`
	IngresosMensuales *decimal.Decimal `json:"ingresos_mensuales"`
}
