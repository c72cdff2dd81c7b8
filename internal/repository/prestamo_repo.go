package repository

import (
	"context"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrestamoFiltro struct {
	Estado         string
	Frecuencia     string
	TipoPrestamoID *uuid.UUID
	ClienteID      *uuid.UUID
	Q              string
	Limit          int
	Offset         int
}

type PrestamoRepository interface {
	// CreateTx inserts the loan together with its cuotas, gastos and requisitos.
	CreateTx(tx *gorm.DB, p *model.Prestamo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Prestamo, error)
	List(ctx context.Context, f PrestamoFiltro) ([]model.Prestamo, error)
	// EstadoTx reads only the state column.
	EstadoTx(tx *gorm.DB, id uuid.UUID) (string, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	// DeleteTx removes the loan and everything it owns, payments included.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	AddGasto(ctx context.Context, g *model.GastoPrestamo) error
	AddRequisito(ctx context.Context, r *model.Requisito) error
	DB() *gorm.DB
}

type prestamoRepo struct{ db *gorm.DB }

func NewPrestamoRepository(db *gorm.DB) PrestamoRepository { return &prestamoRepo{db: db} }

func (r *prestamoRepo) DB() *gorm.DB { return r.db }

func (r *prestamoRepo) CreateTx(tx *gorm.DB, p *model.Prestamo) error {
	// Belongs-to associations are references, never upserted from here
	return tx.Omit("Cliente", "TipoPrestamo", "Garante").Create(p).Error
}

func (r *prestamoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *prestamoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Prestamo, error) {
	var p model.Prestamo
	err := tx.
		Preload("Cliente").
		Preload("TipoPrestamo").
		Preload("Garante").
		Preload("Gastos.TipoGasto").
		Preload("Requisitos").
		Preload("Cuotas", func(db *gorm.DB) *gorm.DB { return db.Order("numero_cuota") }).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *prestamoRepo) List(ctx context.Context, f PrestamoFiltro) ([]model.Prestamo, error) {
	q := r.db.WithContext(ctx).Model(&model.Prestamo{}).
		Preload("Cliente").
		Preload("TipoPrestamo").
		Preload("Gastos")

	if f.Estado != "" {
		q = q.Where("prestamos.estado = ?", f.Estado)
	}
	if f.Frecuencia != "" {
		q = q.Where("prestamos.frecuencia_pago = ?", f.Frecuencia)
	}
	if f.TipoPrestamoID != nil {
		q = q.Where("prestamos.tipo_prestamo_id = ?", *f.TipoPrestamoID)
	}
	if f.ClienteID != nil {
		q = q.Where("prestamos.cliente_id = ?", *f.ClienteID)
	}
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Joins("JOIN clientes ON clientes.id = prestamos.cliente_id").
			Where("LOWER(clientes.nombres) LIKE LOWER(?) OR LOWER(clientes.apellidos) LIKE LOWER(?) OR clientes.numero_documento LIKE ?",
				like, like, like)
	}

	var ps []model.Prestamo
	err := paginar(q, f.Limit, f.Offset).Order("prestamos.fecha_creacion DESC").Find(&ps).Error
	return ps, err
}

func (r *prestamoRepo) EstadoTx(tx *gorm.DB, id uuid.UUID) (string, error) {
	var estados []string
	if err := tx.Model(&model.Prestamo{}).Where("id = ?", id).Limit(1).Pluck("estado", &estados).Error; err != nil {
		return "", err
	}
	if len(estados) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return estados[0], nil
}

func (r *prestamoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	res := tx.Model(&model.Prestamo{}).Where("id = ?", id).Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *prestamoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	cuotas := tx.Model(&model.Cuota{}).Select("id").Where("prestamo_id = ?", id)
	if err := tx.Where("cuota_id IN (?)", cuotas).Delete(&model.Pago{}).Error; err != nil {
		return err
	}
	for _, hijo := range []any{&model.Cuota{}, &model.GastoPrestamo{}, &model.Requisito{}} {
		if err := tx.Where("prestamo_id = ?", id).Delete(hijo).Error; err != nil {
			return err
		}
	}
	res := tx.Delete(&model.Prestamo{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *prestamoRepo) AddGasto(ctx context.Context, g *model.GastoPrestamo) error {
	return r.db.WithContext(ctx).Omit("TipoGasto").Create(g).Error
}

func (r *prestamoRepo) AddRequisito(ctx context.Context, req *model.Requisito) error {
	return r.db.WithContext(ctx).Create(req).Error
}
