// Package amortizacion turns a loan's principal, rate, term and frequency into
// its ordered installment schedule.
//
// The capital/interest split is delegated to a Metodo. Whatever the method,
// every amount is rounded to cents and the last installment absorbs the
// rounding remainder, so the capital portions always add up to the principal.
package amortizacion

import (
	"math"
	"sort"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"

	"github.com/shopspring/decimal"
)

// Parametros describes the loan a schedule is generated for.
// Tasa is a percentage quoted per PeriodoTasa (5 means 5%).
type Parametros struct {
	Monto           decimal.Decimal
	Tasa            decimal.Decimal
	PeriodoTasa     PeriodoTasa
	Plazo           int
	Frecuencia      Frecuencia
	Metodo          string
	FechaInicioPago time.Time
}

// Cuota is one generated installment.
type Cuota struct {
	Numero           int
	FechaVencimiento time.Time
	Capital          decimal.Decimal
	Interes          decimal.Decimal
	Monto            decimal.Decimal
	// SaldoCapital is the principal still owed after this installment.
	SaldoCapital decimal.Decimal
}

// Metodo splits one installment into capital and interest.
// saldo is the capital outstanding before the installment and tasa the
// per-installment rate as a fraction. Returned amounts are already rounded.
type Metodo interface {
	Dividir(principal, saldo, tasa decimal.Decimal, numero, plazo int) (capital, interes decimal.Decimal)
}

// Method names accepted in Parametros.Metodo.
const (
	Frances       = "frances"
	Aleman        = "aleman"
	InteresSimple = "interes_simple"
)

var metodos = map[string]Metodo{
	Frances:       frances{},
	Aleman:        aleman{},
	InteresSimple: interesSimple{},
}

// Registrar makes an additional method available under nombre.
// It is meant to be called from init functions.
func Registrar(nombre string, m Metodo) { metodos[nombre] = m }

// Metodos lists the registered method names in alphabetical order.
func Metodos() []string {
	nombres := make([]string, 0, len(metodos))
	for n := range metodos {
		nombres = append(nombres, n)
	}
	sort.Strings(nombres)
	return nombres
}

// Validar checks the inputs without generating anything.
func Validar(p Parametros) error {
	switch {
	case p.Plazo <= 0:
		return apierror.Validacion("El plazo debe ser mayor que cero")
	case !p.Monto.IsPositive():
		return apierror.Validacion("El monto debe ser mayor que cero")
	case p.Tasa.IsNegative():
		return apierror.Validacion("La tasa de interes no puede ser negativa")
	case !p.Frecuencia.Valida():
		return apierror.Validacion("Frecuencia de pago desconocida: %q", p.Frecuencia)
	case !p.PeriodoTasa.Valida():
		return apierror.Validacion("Periodo de tasa desconocido: %q", p.PeriodoTasa)
	}
	if _, ok := metodos[p.Metodo]; !ok {
		return apierror.Validacion("Tipo de amortizacion desconocido: %q", p.Metodo)
	}
	if p.FechaInicioPago.IsZero() {
		return apierror.Validacion("La fecha de inicio de pago es obligatoria")
	}
	if Redondear(p.Monto).Div(centavo).IntPart() < int64(p.Plazo) {
		return apierror.Validacion("El monto no alcanza para %d cuotas de al menos un centavo de capital", p.Plazo)
	}
	return nil
}

// Generar builds the schedule numbered 1..Plazo. Every cuota carries at
// least one cent of capital; the last one takes whatever balance is left.
func Generar(p Parametros) ([]Cuota, error) {
	if err := Validar(p); err != nil {
		return nil, err
	}
	metodo := metodos[p.Metodo]
	tasa := TasaPorPeriodo(p.Tasa, p.PeriodoTasa, p.Frecuencia)
	principal := Redondear(p.Monto)

	cuotas := make([]Cuota, 0, p.Plazo)
	saldo := principal
	for n := 1; n <= p.Plazo; n++ {
		capital, interes := metodo.Dividir(principal, saldo, tasa, n, p.Plazo)
		if n == p.Plazo {
			capital = saldo
		} else if tope := saldo.Sub(centavo.Mul(decimal.NewFromInt(int64(p.Plazo - n)))); capital.GreaterThan(tope) {
			capital = tope
		}
		if capital.LessThan(centavo) {
			capital = centavo
		}
		saldo = saldo.Sub(capital)
		cuotas = append(cuotas, Cuota{
			Numero:           n,
			FechaVencimiento: p.Frecuencia.Vencimiento(p.FechaInicioPago, n-1),
			Capital:          capital,
			Interes:          interes,
			Monto:            capital.Add(interes),
			SaldoCapital:     saldo,
		})
	}
	return cuotas, nil
}

// TotalCapital adds up the capital portions of a schedule.
func TotalCapital(cuotas []Cuota) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cuotas {
		total = total.Add(c.Capital)
	}
	return total
}

// TotalInteres adds up the interest portions of a schedule.
func TotalInteres(cuotas []Cuota) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cuotas {
		total = total.Add(c.Interes)
	}
	return total
}

// ── Methods ──────────────────────────────────────────────────────────────────

// frances: equal installments (annuity). Interest on the outstanding balance,
// capital is whatever is left of the fixed payment.
type frances struct{}

func (frances) Dividir(principal, saldo, tasa decimal.Decimal, _, plazo int) (decimal.Decimal, decimal.Decimal) {
	interes := Redondear(saldo.Mul(tasa))
	pago := CuotaFija(principal, tasa, plazo)
	return pago.Sub(interes), interes
}

// CuotaFija is the annuity payment P·i / (1 − (1+i)^−n), rounded to cents.
func CuotaFija(principal, tasa decimal.Decimal, plazo int) decimal.Decimal {
	n := decimal.NewFromInt(int64(plazo))
	if tasa.IsZero() {
		return Redondear(principal.Div(n))
	}
	i := tasa.InexactFloat64()
	factor := decimal.NewFromFloat(math.Pow(1+i, float64(plazo)))
	return Redondear(principal.Mul(tasa).Mul(factor).Div(factor.Sub(uno)))
}

// aleman: constant capital, interest on the outstanding balance, so the
// installment declines over time.
type aleman struct{}

func (aleman) Dividir(principal, saldo, tasa decimal.Decimal, _, plazo int) (decimal.Decimal, decimal.Decimal) {
	capital := Redondear(principal.Div(decimal.NewFromInt(int64(plazo))))
	return capital, Redondear(saldo.Mul(tasa))
}

// interesSimple: constant capital and flat interest on the original principal.
type interesSimple struct{}

func (interesSimple) Dividir(principal, _, tasa decimal.Decimal, _, plazo int) (decimal.Decimal, decimal.Decimal) {
	capital := Redondear(principal.Div(decimal.NewFromInt(int64(plazo))))
	return capital, Redondear(principal.Mul(tasa))
}
