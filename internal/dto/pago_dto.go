package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

// CuotaFilter is bound from the query string of GET /v1/cuotas.
type CuotaFilter struct {
	PrestamoID string `form:"prestamo_id" validate:"omitempty,uuid"`
	Estado     string `form:"estado"      validate:"omitempty,oneof=pendiente parcial pagada vencida"`
	VenceDesde string `form:"vence_desde" validate:"omitempty,datetime=2006-01-02"`
	VenceHasta string `form:"vence_hasta" validate:"omitempty,datetime=2006-01-02"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=500"`
	Offset     int    `form:"offset"           validate:"min=0"`
}

// PagoFilter is bound from the query string of GET /v1/pagos.
type PagoFilter struct {
	CuotaID string `form:"cuota_id" validate:"omitempty,uuid"`
	Desde   string `form:"desde"    validate:"omitempty,datetime=2006-01-02"`
	Hasta   string `form:"hasta"    validate:"omitempty,datetime=2006-01-02"`
	Q       string `form:"q"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=500"`
	Offset  int    `form:"offset"           validate:"min=0"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarPagoRequest struct {
	// Monto bounds are checked by the ledger so the response names the limit
	Monto decimal.Decimal `json:"monto"      validate:"required"`
	// FechaPago defaults to now
	FechaPago *string `json:"fecha_pago" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoResponse struct {
	ID              string          `json:"id"`
	NumeroRecibo    string          `json:"numero_recibo"`
	CuotaID         string          `json:"cuota_id"`
	PrestamoID      string          `json:"prestamo_id,omitempty"`
	NumeroCuota     int             `json:"numero_cuota,omitempty"`
	Cliente         string          `json:"cliente,omitempty"`
	MontoPagado     decimal.Decimal `json:"monto_pagado"`
	FechaPago       string          `json:"fecha_pago"`
	RegistradoPorID *string         `json:"registrado_por_id,omitempty"`
}

// AplicarPagoResponse is the payment plus the cuota as it stands afterwards.
type AplicarPagoResponse struct {
	Pago           PagoResponse    `json:"pago"`
	Cuota          CuotaResponse   `json:"cuota"`
	EstadoPrestamo string          `json:"estado_prestamo"`
	SaldoCuota     decimal.Decimal `json:"saldo_cuota"`
}
