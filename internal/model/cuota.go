package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de cuota
const (
	CuotaPendiente = "pendiente"
	CuotaParcial   = "parcial"
	CuotaPagada    = "pagada"
	CuotaVencida   = "vencida"
)

// Cuota is one scheduled installment of a Prestamo.
// Estado: "pendiente" | "parcial" | "pagada" | "vencida"
//
// SaldoPendiente always equals MontoTotalAPagar - TotalPagado; it is kept as a
// column so listings and filters do not need to aggregate payments.
type Cuota struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PrestamoID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cuota_prestamo_numero"`
	Prestamo                *Prestamo       `gorm:"foreignKey:PrestamoID"`
	NumeroCuota             int             `gorm:"not null;uniqueIndex:idx_cuota_prestamo_numero"`
	FechaVencimiento        time.Time       `gorm:"not null;index"`
	MontoCuota              decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Capital                 decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Interes                 decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SaldoPendiente          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Estado                  string          `gorm:"type:varchar(15);not null;index"`
	MontoPenalidadAcumulada decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// FechaCalculoMora is the last day the penalty sweep evaluated this cuota
	FechaCalculoMora *time.Time

	Pagos []Pago `gorm:"foreignKey:CuotaID;constraint:OnDelete:CASCADE"`
}

// MontoTotalAPagar is the scheduled amount plus the accumulated penalty.
func (c *Cuota) MontoTotalAPagar() decimal.Decimal {
	return c.MontoCuota.Add(c.MontoPenalidadAcumulada)
}

// TotalPagado adds up the loaded payments.
func (c *Cuota) TotalPagado() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Pagos {
		total = total.Add(p.MontoPagado)
	}
	return total
}

// Recalcular sets SaldoPendiente from totalPagado and moves the state:
// pagada at zero balance, parcial when something was paid, unchanged otherwise.
func (c *Cuota) Recalcular(totalPagado decimal.Decimal) {
	c.SaldoPendiente = c.MontoTotalAPagar().Sub(totalPagado)
	switch {
	case !c.SaldoPendiente.IsPositive():
		c.SaldoPendiente = decimal.Zero
		c.Estado = CuotaPagada
	case totalPagado.IsPositive():
		c.Estado = CuotaParcial
	}
}

func (c *Cuota) Pagada() bool { return c.Estado == CuotaPagada }

// Pago is an immutable payment applied to one Cuota.
type Pago struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CuotaID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cuota           *Cuota          `gorm:"foreignKey:CuotaID"`
	MontoPagado     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FechaPago       time.Time       `gorm:"not null;index"`
	RegistradoPorID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time
}
