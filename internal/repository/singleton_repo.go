package repository

import (
	"context"
	"errors"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"

	"gorm.io/gorm"
)

// SingletonRepository stores a table that holds at most one row
// (capital, empresa, impresora, politica de mora).
type SingletonRepository[T any] interface {
	// Create fails with apierror.ErrCardinalidad when the row already exists.
	Create(ctx context.Context, v *T) error
	// Get returns nil, nil when the row does not exist yet.
	Get(ctx context.Context) (*T, error)
	Update(ctx context.Context, v *T) error
	// Delete removes the row; apierror.ErrNoEncontrado when there is none.
	Delete(ctx context.Context) error
}

type singletonRepo[T any] struct {
	db     *gorm.DB
	nombre string
}

// NewSingletonRepository builds the repository; nombre names the entity in
// error messages.
func NewSingletonRepository[T any](db *gorm.DB, nombre string) SingletonRepository[T] {
	return &singletonRepo[T]{db: db, nombre: nombre}
}

func (r *singletonRepo[T]) Create(ctx context.Context, v *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(new(T)).Count(&n).Error; err != nil {
			return err
		}
		if n >= 1 {
			return apierror.Cardinalidad(r.nombre)
		}
		return tx.Create(v).Error
	})
	// two creates racing past the count hit the unique singleton index
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Cardinalidad(r.nombre)
	}
	return err
}

func (r *singletonRepo[T]) Get(ctx context.Context) (*T, error) {
	v := new(T)
	err := r.db.WithContext(ctx).Take(v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *singletonRepo[T]) Update(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *singletonRepo[T]) Delete(ctx context.Context) error {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.NoEncontrado(r.nombre)
	}
	return nil
}
