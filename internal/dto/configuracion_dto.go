package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CapitalRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"required,gt=0"`
}

type EmpresaRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=1,max=150"`
	RNC       *string `json:"rnc"       validate:"omitempty,max=20"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=30"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	// Logo is a PNG/JPEG path on the server
	Logo *string `json:"logo"`
}

type ImpresoraRequest struct {
	Nombre       string `json:"nombre"         validate:"required,min=1,max=100"`
	AnchoPapelPx int    `json:"ancho_papel_px" validate:"required,min=200,max=2400"`
	IncluirLogo  bool   `json:"incluir_logo"`
}

// PoliticaMoraRequest: Tasa and TopePorcentaje are fractions (0.05 = 5%).
type PoliticaMoraRequest struct {
	Tasa           decimal.Decimal  `json:"tasa"            validate:"min=0"`
	Periodo        string           `json:"periodo"         validate:"required,oneof=diario mensual"`
	DiasGracia     int              `json:"dias_gracia"     validate:"min=0,max=365"`
	Compuesta      bool             `json:"compuesta"`
	TopePorcentaje *decimal.Decimal `json:"tope_porcentaje"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CapitalResponse struct {
	ID            string          `json:"id"`
	MontoInicial  decimal.Decimal `json:"monto_inicial"`
	FechaRegistro string          `json:"fecha_registro"`
}

type EmpresaResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	RNC       *string `json:"rnc"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	Logo      *string `json:"logo"`
}

type ImpresoraResponse struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	AnchoPapelPx int    `json:"ancho_papel_px"`
	IncluirLogo  bool   `json:"incluir_logo"`
}

type PoliticaMoraResponse struct {
	ID             string           `json:"id,omitempty"`
	Tasa           decimal.Decimal  `json:"tasa"`
	Periodo        string           `json:"periodo"`
	DiasGracia     int              `json:"dias_gracia"`
	Compuesta      bool             `json:"compuesta"`
	TopePorcentaje *decimal.Decimal `json:"tope_porcentaje"`
	// Origen is "configuracion" when no politica_mora row exists
	Origen string `json:"origen"`
}

// ConfiguracionGlobalResponse is the context every page/receipt renders with.
// Either member is null when not configured yet.
type ConfiguracionGlobalResponse struct {
	EmpresaConfiguracion   *EmpresaResponse   `json:"empresa_configuracion"`
	ImpresoraConfiguracion *ImpresoraResponse `json:"impresora_configuracion"`
}

// ─── Mora ────────────────────────────────────────────────────────────────────

type ProcesarMoraRequest struct {
	// Fecha defaults to today in the business timezone
	Fecha *string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

type ResultadoMoraResponse struct {
	Fecha           string          `json:"fecha"`
	Evaluadas       int             `json:"evaluadas"`
	Actualizadas    int             `json:"actualizadas"`
	PrestamosEnMora int             `json:"prestamos_en_mora"`
	TotalPenalidad  decimal.Decimal `json:"total_penalidad"`
	Errores         []string        `json:"errores"`
}
