package repository

import (
	"context"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoRepository serves the small reference tables (tipos de préstamo,
// tipos de gasto, garantes): create, lookup and a name search.
type CatalogoRepository[T any] interface {
	Create(ctx context.Context, v *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, q string) ([]T, error)
}

type catalogoRepo[T any] struct {
	db       *gorm.DB
	orden    string
	busqueda []string
}

func (r *catalogoRepo[T]) Create(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *catalogoRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	v := new(T)
	err := r.db.WithContext(ctx).First(v, "id = ?", id).Error
	return v, err
}

func (r *catalogoRepo[T]) List(ctx context.Context, q string) ([]T, error) {
	tx := r.db.WithContext(ctx).Model(new(T))
	if q != "" {
		like := "%" + q + "%"
		cond := r.db.Where("LOWER("+r.busqueda[0]+") LIKE LOWER(?)", like)
		for _, col := range r.busqueda[1:] {
			cond = cond.Or("LOWER("+col+") LIKE LOWER(?)", like)
		}
		tx = tx.Where(cond)
	}
	var out []T
	err := tx.Order(r.orden).Limit(limitePorDefecto * 5).Find(&out).Error
	return out, err
}

func NewTipoPrestamoRepository(db *gorm.DB) CatalogoRepository[model.TipoPrestamo] {
	return &catalogoRepo[model.TipoPrestamo]{db: db, orden: "nombre", busqueda: []string{"nombre"}}
}

func NewTipoGastoRepository(db *gorm.DB) CatalogoRepository[model.TipoGasto] {
	return &catalogoRepo[model.TipoGasto]{db: db, orden: "nombre", busqueda: []string{"nombre", "descripcion"}}
}

func NewGaranteRepository(db *gorm.DB) CatalogoRepository[model.Garante] {
	return &catalogoRepo[model.Garante]{db: db, orden: "nombre_completo", busqueda: []string{"nombre_completo", "cedula"}}
}
