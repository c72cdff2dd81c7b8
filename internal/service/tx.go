package service

import (
	"context"
	"errors"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// noEncontrado translates gorm's not-found into the API taxonomy.
func noEncontrado(err error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NoEncontrado(entidad)
	}
	return err
}

func parseID(s, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apierror.Validacion("%s invalido: %q", campo, s)
	}
	return id, nil
}

// ── Dates ────────────────────────────────────────────────────────────────────
// Calendar dates (due dates, payment days) are stored as UTC midnight.

func parseFecha(s, campo string) (time.Time, error) {
	t, err := time.Parse(dto.FormatoFecha, s)
	if err != nil {
		return time.Time{}, apierror.Validacion("%s invalida: %q (formato AAAA-MM-DD)", campo, s)
	}
	return t, nil
}

func parseFechaOpcional(s *string, campo string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseFecha(*s, campo)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// diaCalendario returns the date of t in loc as UTC midnight.
func diaCalendario(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatFecha(t time.Time) string { return t.Format(dto.FormatoFecha) }

func formatFechaOpcional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatFecha(*t)
	return &s
}

// Zona loads the business timezone, falling back to UTC.
func Zona(nombre string) *time.Location {
	if nombre == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(nombre)
	if err != nil {
		return time.UTC
	}
	return loc
}
