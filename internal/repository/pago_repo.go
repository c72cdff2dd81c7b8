package repository

import (
	"context"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoFiltro struct {
	CuotaID *uuid.UUID
	Desde   *time.Time
	Hasta   *time.Time
	Q       string
	Limit   int
	Offset  int
}

// PagoRepository is read-only: payments are written by the ledger through
// CuotaRepository.CreatePagoTx and never updated.
type PagoRepository interface {
	// FindByID loads the pago with its cuota, loan and client for the receipt.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	List(ctx context.Context, f PagoFiltro) ([]model.Pago, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).Preload("Cuota.Prestamo.Cliente").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pagoRepo) List(ctx context.Context, f PagoFiltro) ([]model.Pago, error) {
	q := r.db.WithContext(ctx).Model(&model.Pago{}).Preload("Cuota.Prestamo.Cliente")
	if f.CuotaID != nil {
		q = q.Where("pagos.cuota_id = ?", *f.CuotaID)
	}
	if f.Desde != nil {
		q = q.Where("pagos.fecha_pago >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("pagos.fecha_pago < ?", *f.Hasta)
	}
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Joins("JOIN cuotas ON cuotas.id = pagos.cuota_id").
			Joins("JOIN prestamos ON prestamos.id = cuotas.prestamo_id").
			Joins("JOIN clientes ON clientes.id = prestamos.cliente_id").
			Where("LOWER(clientes.nombres) LIKE LOWER(?) OR LOWER(clientes.apellidos) LIKE LOWER(?) OR clientes.numero_documento LIKE ?",
				like, like, like)
	}
	var ps []model.Pago
	err := paginar(q, f.Limit, f.Offset).Order("pagos.fecha_pago DESC").Find(&ps).Error
	return ps, err
}
