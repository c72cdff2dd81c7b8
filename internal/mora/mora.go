// Package mora computes the late-payment penalty accumulated by an overdue
// installment.
//
// The amount is a pure function of the policy, the installment's scheduled
// amount, its due date and state, and the evaluation date. It is recomputed
// from scratch on every call, never accumulated incrementally, so evaluating
// the same day twice yields the same value.
package mora

import (
	"math"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"

	"github.com/shopspring/decimal"
)

// Periodo is the unit the penalty rate is quoted in.
type Periodo string

const (
	Diario  Periodo = "diario"
	Mensual Periodo = "mensual"
)

// Politica is the institution's penalty policy.
// Tasa is a fraction per Periodo (0.05 = 5%). TopePorcentaje, when set, caps
// the penalty as a fraction of the scheduled installment amount.
type Politica struct {
	Tasa           decimal.Decimal
	Periodo        Periodo
	DiasGracia     int
	Compuesta      bool
	TopePorcentaje *decimal.Decimal
}

// Cuota is the slice of an installment the penalty depends on.
type Cuota struct {
	Monto            decimal.Decimal
	FechaVencimiento time.Time
	Pagada           bool
}

var treinta = decimal.NewFromInt(30)

func (p Politica) Validar() error {
	switch {
	case p.Tasa.IsNegative():
		return apierror.Validacion("La tasa de mora no puede ser negativa")
	case p.Periodo != Diario && p.Periodo != Mensual:
		return apierror.Validacion("Periodo de mora desconocido: %q", p.Periodo)
	case p.DiasGracia < 0:
		return apierror.Validacion("Los dias de gracia no pueden ser negativos")
	case p.TopePorcentaje != nil && p.TopePorcentaje.IsNegative():
		return apierror.Validacion("El tope de mora no puede ser negativo")
	}
	return nil
}

// DiasVencidos counts whole calendar days between the due date and hoy.
// Zero when hoy is on or before the due date.
func DiasVencidos(vencimiento, hoy time.Time) int {
	v := truncarDia(vencimiento)
	h := truncarDia(hoy.In(vencimiento.Location()))
	if !h.After(v) {
		return 0
	}
	return int(math.Round(h.Sub(v).Hours() / 24))
}

func truncarDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EnMora reports whether the installment is past due beyond the grace period.
func (p Politica) EnMora(c Cuota, hoy time.Time) bool {
	if c.Pagada {
		return false
	}
	return DiasVencidos(c.FechaVencimiento, hoy) > p.DiasGracia
}

// Calcular returns the accumulated penalty for c as of hoy, rounded to cents.
// Once the grace period is exceeded the penalty runs from the due date.
func (p Politica) Calcular(c Cuota, hoy time.Time) decimal.Decimal {
	if !p.EnMora(c, hoy) || !c.Monto.IsPositive() || !p.Tasa.IsPositive() {
		return decimal.Zero
	}

	dias := decimal.NewFromInt(int64(DiasVencidos(c.FechaVencimiento, hoy)))
	periodos := dias
	if p.Periodo == Mensual {
		periodos = dias.Div(treinta)
	}

	var penalidad decimal.Decimal
	if p.Compuesta {
		factor := math.Pow(1+p.Tasa.InexactFloat64(), periodos.InexactFloat64())
		penalidad = c.Monto.Mul(decimal.NewFromFloat(factor - 1))
	} else {
		penalidad = c.Monto.Mul(p.Tasa).Mul(periodos)
	}

	if p.TopePorcentaje != nil {
		tope := c.Monto.Mul(*p.TopePorcentaje)
		if penalidad.GreaterThan(tope) {
			penalidad = tope
		}
	}
	return penalidad.Round(2)
}
