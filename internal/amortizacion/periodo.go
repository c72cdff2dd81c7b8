package amortizacion

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frecuencia is the spacing between two consecutive installments.
type Frecuencia string

const (
	Diaria    Frecuencia = "diaria"
	Semanal   Frecuencia = "semanal"
	Quincenal Frecuencia = "quincenal"
	Mensual   Frecuencia = "mensual"
)

// Dias returns the length of one payment period in a 360-day commercial year.
func (f Frecuencia) Dias() int {
	switch f {
	case Diaria:
		return 1
	case Semanal:
		return 7
	case Quincenal:
		return 15
	case Mensual:
		return 30
	default:
		return 0
	}
}

func (f Frecuencia) Valida() bool { return f.Dias() > 0 }

// Vencimiento returns the due date of the installment that sits pasos periods
// after inicio. Monthly steps keep the day of month of inicio, clamped to the
// last day of shorter months.
func (f Frecuencia) Vencimiento(inicio time.Time, pasos int) time.Time {
	if f == Mensual {
		return sumarMeses(inicio, pasos)
	}
	return inicio.AddDate(0, 0, f.Dias()*pasos)
}

func sumarMeses(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	primero := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	ultimo := primero.AddDate(0, 1, -1).Day()
	if d > ultimo {
		d = ultimo
	}
	return time.Date(primero.Year(), primero.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// PeriodoTasa is the period a nominal interest rate is quoted for.
type PeriodoTasa string

const (
	TasaMensual PeriodoTasa = "mensual"
	TasaAnual   PeriodoTasa = "anual"
)

func (p PeriodoTasa) Dias() int {
	switch p {
	case TasaMensual:
		return 30
	case TasaAnual:
		return 360
	default:
		return 0
	}
}

func (p PeriodoTasa) Valida() bool { return p.Dias() > 0 }

var (
	cien = decimal.NewFromInt(100)
	uno  = decimal.NewFromInt(1)

	centavo = decimal.New(1, -2)
)

// TasaPorPeriodo converts a percentage quoted per periodo into the fraction
// charged on each installment of frecuencia. 3% monthly paid biweekly is 0.015.
func TasaPorPeriodo(porcentaje decimal.Decimal, periodo PeriodoTasa, f Frecuencia) decimal.Decimal {
	if !periodo.Valida() || !f.Valida() {
		return decimal.Zero
	}
	return porcentaje.Div(cien).
		Mul(decimal.NewFromInt(int64(f.Dias()))).
		Div(decimal.NewFromInt(int64(periodo.Dias())))
}

// PlazoEnMeses is the term expressed in (possibly fractional) months, used to
// check a loan against its product's maximum term.
func PlazoEnMeses(plazo int, f Frecuencia) decimal.Decimal {
	return decimal.NewFromInt(int64(plazo * f.Dias())).Div(decimal.NewFromInt(30))
}

// Redondear rounds a money amount half away from zero to cents.
func Redondear(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
