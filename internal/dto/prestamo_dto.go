package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

// PrestamoFilter is bound from the query string of GET /v1/prestamos.
type PrestamoFilter struct {
	Estado         string `form:"estado"           validate:"omitempty,oneof=pendiente activo pagado en_mora cancelado"`
	Frecuencia     string `form:"frecuencia"       validate:"omitempty,oneof=diaria semanal quincenal mensual"`
	TipoPrestamoID string `form:"tipo_prestamo_id" validate:"omitempty,uuid"`
	ClienteID      string `form:"cliente_id"       validate:"omitempty,uuid"`
	Q              string `form:"q"`
	Limit          int    `form:"limit,default=50" validate:"min=1,max=500"`
	Offset         int    `form:"offset"           validate:"min=0"`
}

// SimularRequest is bound from the query string of GET /v1/prestamos/simular.
// Tasa is a percentage per PeriodoTasa.
type SimularRequest struct {
	Monto           decimal.Decimal `form:"monto"             validate:"required"`
	Tasa            decimal.Decimal `form:"tasa"`
	PeriodoTasa     string          `form:"periodo_tasa,default=mensual"     validate:"oneof=mensual anual"`
	Plazo           int             `form:"plazo"             validate:"required,min=1"`
	FrecuenciaPago  string          `form:"frecuencia_pago,default=mensual"  validate:"oneof=diaria semanal quincenal mensual"`
	Metodo          string          `form:"tipo_amortizacion,default=frances"`
	FechaInicioPago string          `form:"fecha_inicio_pago" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type GastoRequest struct {
	TipoGastoID string          `json:"tipo_gasto_id" validate:"required,uuid"`
	Monto       decimal.Decimal `json:"monto"         validate:"required,gt=0"`
}

type RequisitoRequest struct {
	Tipo          string           `json:"tipo"           validate:"required,oneof=garantia documento referencia otro"`
	Descripcion   string           `json:"descripcion"    validate:"required,min=1"`
	ValorEstimado *decimal.Decimal `json:"valor_estimado"`
}

// CrearPrestamoRequest creates a loan and its whole schedule. TasaInteres is
// a percentage per PeriodoTasa; when omitted the loan type's default applies.
type CrearPrestamoRequest struct {
	ClienteID        string           `json:"cliente_id"        validate:"required,uuid"`
	TipoPrestamoID   string           `json:"tipo_prestamo_id"  validate:"required,uuid"`
	GaranteID        *string          `json:"garante_id"        validate:"omitempty,uuid"`
	Monto            decimal.Decimal  `json:"monto"             validate:"required,gt=0"`
	TasaInteres      *decimal.Decimal `json:"tasa_interes"`
	PeriodoTasa      string           `json:"periodo_tasa"      validate:"required,oneof=mensual anual"`
	ManejoGastos     string           `json:"manejo_gastos"     validate:"required,oneof=descontar_desembolso financiar pagar_por_separado"`
	Plazo            int              `json:"plazo"             validate:"required,min=1,max=3650"`
	FrecuenciaPago   string           `json:"frecuencia_pago"   validate:"required,oneof=diaria semanal quincenal mensual"`
	TipoAmortizacion string           `json:"tipo_amortizacion" validate:"required"`
	Estado           string           `json:"estado"            validate:"omitempty,oneof=pendiente activo"`
	FechaDesembolso  *string          `json:"fecha_desembolso"  validate:"omitempty,datetime=2006-01-02"`
	FechaInicioPago  string           `json:"fecha_inicio_pago" validate:"required,datetime=2006-01-02"`

	Gastos     []GastoRequest     `json:"gastos"     validate:"omitempty,dive"`
	Requisitos []RequisitoRequest `json:"requisitos" validate:"omitempty,dive"`
}

type CambiarEstadoPrestamoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente activo pagado en_mora cancelado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CuotaResponse struct {
	ID                      string          `json:"id,omitempty"`
	PrestamoID              string          `json:"prestamo_id,omitempty"`
	NumeroCuota             int             `json:"numero_cuota"`
	FechaVencimiento        string          `json:"fecha_vencimiento"`
	MontoCuota              decimal.Decimal `json:"monto_cuota"`
	Capital                 decimal.Decimal `json:"capital"`
	Interes                 decimal.Decimal `json:"interes"`
	SaldoPendiente          decimal.Decimal `json:"saldo_pendiente"`
	Estado                  string          `json:"estado"`
	MontoPenalidadAcumulada decimal.Decimal `json:"monto_penalidad_acumulada"`
	MontoTotalAPagar        decimal.Decimal `json:"monto_total_a_pagar"`
	TotalPagado             decimal.Decimal `json:"total_pagado"`
	Cliente                 string          `json:"cliente,omitempty"`
	Pagos                   []PagoResponse  `json:"pagos,omitempty"`
}

type GastoResponse struct {
	ID            string          `json:"id"`
	TipoGastoID   string          `json:"tipo_gasto_id"`
	TipoGasto     string          `json:"tipo_gasto,omitempty"`
	Monto         decimal.Decimal `json:"monto"`
	FechaCreacion string          `json:"fecha_creacion"`
}

type RequisitoResponse struct {
	ID            string           `json:"id"`
	Tipo          string           `json:"tipo"`
	Descripcion   string           `json:"descripcion"`
	ValorEstimado *decimal.Decimal `json:"valor_estimado"`
}

type PrestamoResponse struct {
	ID               string          `json:"id"`
	ClienteID        string          `json:"cliente_id"`
	Cliente          string          `json:"cliente"`
	TipoPrestamoID   string          `json:"tipo_prestamo_id"`
	TipoPrestamo     string          `json:"tipo_prestamo"`
	GaranteID        *string         `json:"garante_id"`
	Garante          *string         `json:"garante"`
	Estado           string          `json:"estado"`
	Monto            decimal.Decimal `json:"monto"`
	MontoFinanciado  decimal.Decimal `json:"monto_financiado"`
	TasaInteres      decimal.Decimal `json:"tasa_interes"`
	PeriodoTasa      string          `json:"periodo_tasa"`
	ManejoGastos     string          `json:"manejo_gastos"`
	Plazo            int             `json:"plazo"`
	FrecuenciaPago   string          `json:"frecuencia_pago"`
	TipoAmortizacion string          `json:"tipo_amortizacion"`
	FechaDesembolso  *string         `json:"fecha_desembolso"`
	FechaInicioPago  string          `json:"fecha_inicio_pago"`
	FechaCreacion    string          `json:"fecha_creacion"`

	TotalGastosAsociados decimal.Decimal `json:"total_gastos_asociados"`
	MontoDesembolsado    decimal.Decimal `json:"monto_desembolsado"`
	// SaldoPendiente is only filled when cuotas are returned
	SaldoPendiente *decimal.Decimal `json:"saldo_pendiente,omitempty"`

	Cuotas     []CuotaResponse     `json:"cuotas,omitempty"`
	Gastos     []GastoResponse     `json:"gastos,omitempty"`
	Requisitos []RequisitoResponse `json:"requisitos,omitempty"`
}

type SimulacionResponse struct {
	CuotaPeriodica decimal.Decimal `json:"cuota_periodica"`
	TotalCapital   decimal.Decimal `json:"total_capital"`
	TotalInteres   decimal.Decimal `json:"total_interes"`
	TotalAPagar    decimal.Decimal `json:"total_a_pagar"`
	Cuotas         []CuotaResponse `json:"cuotas"`
}
