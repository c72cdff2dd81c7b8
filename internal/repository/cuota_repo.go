package repository

import (
	"context"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CuotaFiltro struct {
	PrestamoID *uuid.UUID
	Estado     string
	VenceDesde *time.Time
	VenceHasta *time.Time
	Limit      int
	Offset     int
}

type CuotaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cuota, error)
	// FindForUpdateTx reads the cuota holding a row lock until tx ends.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cuota, error)
	ListPagosTx(tx *gorm.DB, cuotaID uuid.UUID) ([]model.Pago, error)
	CreatePagoTx(tx *gorm.DB, p *model.Pago) error
	// UpdateSaldoTx persists the ledger columns: saldo, estado, penalty.
	UpdateSaldoTx(tx *gorm.DB, c *model.Cuota) error
	ContarNoPagadasTx(tx *gorm.DB, prestamoID uuid.UUID) (int64, error)
	ContarVencidasTx(tx *gorm.DB, prestamoID uuid.UUID, hoy time.Time) (int64, error)
	// ListVencidasIDs returns the unpaid cuotas whose due date is before hoy.
	ListVencidasIDs(ctx context.Context, hoy time.Time) ([]uuid.UUID, error)
	List(ctx context.Context, f CuotaFiltro) ([]model.Cuota, error)
	DB() *gorm.DB
}

type cuotaRepo struct{ db *gorm.DB }

func NewCuotaRepository(db *gorm.DB) CuotaRepository { return &cuotaRepo{db: db} }

func (r *cuotaRepo) DB() *gorm.DB { return r.db }

func (r *cuotaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cuota, error) {
	var c model.Cuota
	err := r.db.WithContext(ctx).
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha_pago") }).
		Preload("Prestamo.Cliente").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cuotaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cuota, error) {
	var c model.Cuota
	q := tx
	// SQLite has no row locks; its single-connection pool serializes writers
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cuotaRepo) ListPagosTx(tx *gorm.DB, cuotaID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := tx.Where("cuota_id = ?", cuotaID).Order("fecha_pago").Find(&pagos).Error
	return pagos, err
}

func (r *cuotaRepo) CreatePagoTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *cuotaRepo) UpdateSaldoTx(tx *gorm.DB, c *model.Cuota) error {
	return tx.Model(&model.Cuota{}).Where("id = ?", c.ID).
		Updates(map[string]any{
			"saldo_pendiente":           c.SaldoPendiente,
			"estado":                    c.Estado,
			"monto_penalidad_acumulada": c.MontoPenalidadAcumulada,
			"fecha_calculo_mora":        c.FechaCalculoMora,
		}).Error
}

func (r *cuotaRepo) ContarNoPagadasTx(tx *gorm.DB, prestamoID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.Cuota{}).
		Where("prestamo_id = ? AND estado <> ?", prestamoID, model.CuotaPagada).
		Count(&n).Error
	return n, err
}

func (r *cuotaRepo) ContarVencidasTx(tx *gorm.DB, prestamoID uuid.UUID, hoy time.Time) (int64, error) {
	var n int64
	err := tx.Model(&model.Cuota{}).
		Where("prestamo_id = ? AND estado <> ? AND fecha_vencimiento < ?", prestamoID, model.CuotaPagada, hoy).
		Count(&n).Error
	return n, err
}

func (r *cuotaRepo) ListVencidasIDs(ctx context.Context, hoy time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Cuota{}).
		Where("estado <> ? AND fecha_vencimiento < ?", model.CuotaPagada, hoy).
		Order("fecha_vencimiento").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *cuotaRepo) List(ctx context.Context, f CuotaFiltro) ([]model.Cuota, error) {
	q := r.db.WithContext(ctx).Model(&model.Cuota{}).Preload("Prestamo.Cliente")
	if f.PrestamoID != nil {
		q = q.Where("prestamo_id = ?", *f.PrestamoID)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.VenceDesde != nil {
		q = q.Where("fecha_vencimiento >= ?", *f.VenceDesde)
	}
	if f.VenceHasta != nil {
		q = q.Where("fecha_vencimiento <= ?", *f.VenceHasta)
	}
	var cs []model.Cuota
	err := paginar(q, f.Limit, f.Offset).Order("fecha_vencimiento, numero_cuota").Find(&cs).Error
	return cs, err
}
