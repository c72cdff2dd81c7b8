package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de préstamo
const (
	PrestamoPendiente = "pendiente"
	PrestamoActivo    = "activo"
	PrestamoPagado    = "pagado"
	PrestamoEnMora    = "en_mora"
	PrestamoCancelado = "cancelado"
)

// Manejo de gastos
const (
	GastosDescontarDesembolso = "descontar_desembolso"
	GastosFinanciar           = "financiar"
	GastosPagarPorSeparado    = "pagar_por_separado"
)

// TipoPrestamo is a loan product template. Rates are percentages.
type TipoPrestamo struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre                    string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	TasaInteresPredeterminada decimal.Decimal `gorm:"type:decimal(9,4);not null"`
	MontoMinimo               decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoMaximo               decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PlazoMaximoMeses          int             `gorm:"not null"`
}

func (TipoPrestamo) TableName() string { return "tipos_prestamo" }

// Prestamo is the loan aggregate: it owns its Cuotas, Gastos and Requisitos.
// Estado: "pendiente" | "activo" | "pagado" | "en_mora" | "cancelado"
// PeriodoTasa: "mensual" | "anual"
// FrecuenciaPago: "diaria" | "semanal" | "quincenal" | "mensual"
// TipoAmortizacion: "frances" | "aleman" | "interes_simple"
// ManejoGastos: "descontar_desembolso" | "financiar" | "pagar_por_separado"
type Prestamo struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey"`
	ClienteID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	Cliente        *Cliente      `gorm:"foreignKey:ClienteID"`
	TipoPrestamoID uuid.UUID     `gorm:"type:uuid;not null;index"`
	TipoPrestamo   *TipoPrestamo `gorm:"foreignKey:TipoPrestamoID"`
	GaranteID      *uuid.UUID    `gorm:"type:uuid;index"`
	Garante        *Garante      `gorm:"foreignKey:GaranteID"`
	Estado         string        `gorm:"type:varchar(20);not null;index"`

	Monto decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// MontoFinanciado is the principal the cuotas amortize: Monto plus the
	// gastos given at creation when ManejoGastos is "financiar", else Monto.
	MontoFinanciado decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TasaInteres     decimal.Decimal `gorm:"type:decimal(9,4);not null"`
	PeriodoTasa     string          `gorm:"type:varchar(10);not null"`
	ManejoGastos    string          `gorm:"type:varchar(30);not null"`

	Plazo            int        `gorm:"not null"`
	FrecuenciaPago   string     `gorm:"type:varchar(15);not null;index"`
	TipoAmortizacion string     `gorm:"type:varchar(20);not null"`
	FechaDesembolso  *time.Time `gorm:"index"`
	FechaInicioPago  time.Time  `gorm:"not null"`
	FechaCreacion    time.Time  `gorm:"autoCreateTime"`

	Cuotas     []Cuota         `gorm:"foreignKey:PrestamoID;constraint:OnDelete:CASCADE"`
	Gastos     []GastoPrestamo `gorm:"foreignKey:PrestamoID;constraint:OnDelete:CASCADE"`
	Requisitos []Requisito     `gorm:"foreignKey:PrestamoID;constraint:OnDelete:CASCADE"`
}

// TotalGastosAsociados is the sum of the loan's expenses. Requires Gastos to
// be loaded.
func (p *Prestamo) TotalGastosAsociados() decimal.Decimal {
	total := decimal.Zero
	for _, g := range p.Gastos {
		total = total.Add(g.Monto)
	}
	return total
}

// MontoDesembolsado is what the borrower actually receives: the principal,
// minus expenses when they are deducted from the disbursement.
func (p *Prestamo) MontoDesembolsado() decimal.Decimal {
	if p.ManejoGastos == GastosDescontarDesembolso {
		return p.Monto.Sub(p.TotalGastosAsociados())
	}
	return p.Monto
}

// SaldoPendiente adds up the outstanding balance of every loaded cuota.
func (p *Prestamo) SaldoPendiente() decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.Cuotas {
		total = total.Add(c.SaldoPendiente)
	}
	return total
}

// TipoGasto classifies loan expenses (legal fees, insurance, appraisal...).
type TipoGasto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Descripcion *string
}

func (TipoGasto) TableName() string { return "tipos_gasto" }

// GastoPrestamo is an expense charged on a loan.
type GastoPrestamo struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PrestamoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoGastoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoGasto     *TipoGasto      `gorm:"foreignKey:TipoGastoID"`
	Monto         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FechaCreacion time.Time       `gorm:"autoCreateTime;index"`
}

func (GastoPrestamo) TableName() string { return "gastos_prestamo" }

// Garante guarantees one or more loans.
type Garante struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	NombreCompleto    string           `gorm:"type:varchar(200);not null;index"`
	Cedula            string           `gorm:"type:varchar(30);uniqueIndex;not null"`
	LugarTrabajo      *string          `gorm:"type:varchar(150)"`
	IngresosMensuales *decimal.Decimal `gorm:"type:decimal(14,2)"`
}

// Requisito is a requirement filed with a loan (collateral, document, reference).
// Tipo: "garantia" | "documento" | "referencia" | "otro"
type Requisito struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	PrestamoID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Tipo          string           `gorm:"type:varchar(20);not null;index"`
	Descripcion   string           `gorm:"not null"`
	ValorEstimado *decimal.Decimal `gorm:"type:decimal(14,2)"`
}
