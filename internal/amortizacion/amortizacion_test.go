package amortizacion

import (
	"errors"
	"testing"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fecha(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func params(metodo string) Parametros {
	return Parametros{
		Monto:           dec("120000"),
		Tasa:            dec("3"),
		PeriodoTasa:     TasaMensual,
		Plazo:           12,
		Frecuencia:      Mensual,
		Metodo:          metodo,
		FechaInicioPago: fecha(2025, time.January, 15),
	}
}

// ── Scenario: 120000 over 12 monthly installments ────────────────────────────

func TestGenerar_DoceCuotasMensuales(t *testing.T) {
	for _, m := range Metodos() {
		t.Run(m, func(t *testing.T) {
			cuotas, err := Generar(params(m))
			require.NoError(t, err)
			require.Len(t, cuotas, 12)
			for i, c := range cuotas {
				assert.Equal(t, i+1, c.Numero)
				assert.True(t, c.Monto.Equal(c.Capital.Add(c.Interes)), "cuota %d", c.Numero)
			}
			assert.True(t, dec("120000").Equal(TotalCapital(cuotas)), "capital total %s", TotalCapital(cuotas))
			assert.True(t, cuotas[11].SaldoCapital.IsZero())
		})
	}
}

func TestGenerar_CapitalSumaExactaConRedondeo(t *testing.T) {
	plazos := []int{1, 3, 7, 11, 13, 24, 36}
	montos := []string{"100", "1000.01", "33333.33", "98765.43"}
	for _, m := range Metodos() {
		for _, plazo := range plazos {
			for _, monto := range montos {
				p := params(m)
				p.Plazo = plazo
				p.Monto = dec(monto)
				p.Tasa = dec("4.75")
				cuotas, err := Generar(p)
				require.NoError(t, err)
				assert.True(t, dec(monto).Equal(TotalCapital(cuotas)),
					"%s plazo=%d monto=%s total=%s", m, plazo, monto, TotalCapital(cuotas))
			}
		}
	}
}

func TestGenerar_FrancesCuotasIguales(t *testing.T) {
	cuotas, err := Generar(params(Frances))
	require.NoError(t, err)

	// 120000 at 3% monthly over 12 → 12055.45
	esperada := dec("12055.45")
	for _, c := range cuotas[:11] {
		assert.True(t, esperada.Equal(c.Monto), "cuota %d = %s", c.Numero, c.Monto)
	}
	assert.True(t, dec("3600").Equal(cuotas[0].Interes))
	// Interest declines as capital is repaid
	assert.True(t, cuotas[11].Interes.LessThan(cuotas[0].Interes))
}

func TestGenerar_AlemanCapitalConstante(t *testing.T) {
	cuotas, err := Generar(params(Aleman))
	require.NoError(t, err)
	for _, c := range cuotas {
		assert.True(t, dec("10000").Equal(c.Capital))
	}
	assert.True(t, dec("13600").Equal(cuotas[0].Monto))
	assert.True(t, dec("10300").Equal(cuotas[11].Monto))
	for i := 1; i < len(cuotas); i++ {
		assert.True(t, cuotas[i].Monto.LessThan(cuotas[i-1].Monto))
	}
}

func TestGenerar_InteresSimplePlano(t *testing.T) {
	cuotas, err := Generar(params(InteresSimple))
	require.NoError(t, err)
	for _, c := range cuotas {
		assert.True(t, dec("3600").Equal(c.Interes))
		assert.True(t, dec("13600").Equal(c.Monto))
	}
}

func TestGenerar_TasaCero(t *testing.T) {
	p := params(Frances)
	p.Tasa = decimal.Zero
	p.Monto = dec("1000")
	p.Plazo = 3
	cuotas, err := Generar(p)
	require.NoError(t, err)
	assert.True(t, dec("333.33").Equal(cuotas[0].Capital))
	assert.True(t, dec("333.34").Equal(cuotas[2].Capital))
	assert.True(t, TotalInteres(cuotas).IsZero())
}

// ── Due dates ────────────────────────────────────────────────────────────────

func TestGenerar_FechasPorFrecuencia(t *testing.T) {
	casos := []struct {
		frecuencia Frecuencia
		segunda    time.Time
		tercera    time.Time
	}{
		{Diaria, fecha(2025, time.January, 16), fecha(2025, time.January, 17)},
		{Semanal, fecha(2025, time.January, 22), fecha(2025, time.January, 29)},
		{Quincenal, fecha(2025, time.January, 30), fecha(2025, time.February, 14)},
		{Mensual, fecha(2025, time.February, 15), fecha(2025, time.March, 15)},
	}
	for _, tc := range casos {
		t.Run(string(tc.frecuencia), func(t *testing.T) {
			p := params(Frances)
			p.Frecuencia = tc.frecuencia
			cuotas, err := Generar(p)
			require.NoError(t, err)
			assert.Equal(t, fecha(2025, time.January, 15), cuotas[0].FechaVencimiento)
			assert.Equal(t, tc.segunda, cuotas[1].FechaVencimiento)
			assert.Equal(t, tc.tercera, cuotas[2].FechaVencimiento)
		})
	}
}

func TestVencimiento_MensualAjustaFinDeMes(t *testing.T) {
	inicio := fecha(2024, time.January, 31)
	assert.Equal(t, fecha(2024, time.February, 29), Mensual.Vencimiento(inicio, 1))
	assert.Equal(t, fecha(2024, time.March, 31), Mensual.Vencimiento(inicio, 2))
	assert.Equal(t, fecha(2024, time.April, 30), Mensual.Vencimiento(inicio, 3))
	assert.Equal(t, fecha(2025, time.January, 31), Mensual.Vencimiento(inicio, 12))
}

// ── Rates ────────────────────────────────────────────────────────────────────

func TestTasaPorPeriodo(t *testing.T) {
	assert.True(t, dec("0.03").Equal(TasaPorPeriodo(dec("3"), TasaMensual, Mensual)))
	assert.True(t, dec("0.015").Equal(TasaPorPeriodo(dec("3"), TasaMensual, Quincenal)))
	assert.True(t, dec("0.02").Equal(TasaPorPeriodo(dec("24"), TasaAnual, Mensual)))
	assert.True(t, dec("0.001").Equal(TasaPorPeriodo(dec("3"), TasaMensual, Diaria)))
}

func TestPlazoEnMeses(t *testing.T) {
	assert.True(t, dec("12").Equal(PlazoEnMeses(12, Mensual)))
	assert.True(t, dec("6").Equal(PlazoEnMeses(12, Quincenal)))
}

// ── Validation ───────────────────────────────────────────────────────────────

func TestGenerar_Validaciones(t *testing.T) {
	casos := map[string]func(p *Parametros){
		"plazo cero":        func(p *Parametros) { p.Plazo = 0 },
		"plazo negativo":    func(p *Parametros) { p.Plazo = -3 },
		"monto cero":        func(p *Parametros) { p.Monto = decimal.Zero },
		"monto negativo":    func(p *Parametros) { p.Monto = dec("-1") },
		"tasa negativa":     func(p *Parametros) { p.Tasa = dec("-0.5") },
		"frecuencia":        func(p *Parametros) { p.Frecuencia = "anual" },
		"periodo tasa":      func(p *Parametros) { p.PeriodoTasa = "semanal" },
		"metodo":            func(p *Parametros) { p.Metodo = "americano" },
		"sin fecha inicial": func(p *Parametros) { p.FechaInicioPago = time.Time{} },
		"menos centavos que cuotas": func(p *Parametros) {
			p.Monto, p.Plazo, p.Metodo = dec("0.05"), 10, Aleman
		},
	}
	for nombre, mutar := range casos {
		t.Run(nombre, func(t *testing.T) {
			p := params(Frances)
			mutar(&p)
			cuotas, err := Generar(p)
			require.Error(t, err)
			assert.Nil(t, cuotas)
			assert.True(t, errors.Is(err, apierror.ErrValidacion))
		})
	}
}

// 0.15 over 10: rounding the constant share up to 0.02 would exhaust the
// balance at cuota 8 and leave two empty cuotas behind.
func TestGenerar_MontosMinimosSinCuotasVacias(t *testing.T) {
	for _, metodo := range []string{Frances, Aleman, InteresSimple} {
		t.Run(metodo, func(t *testing.T) {
			p := params(metodo)
			p.Monto, p.Plazo, p.Tasa = dec("0.15"), 10, decimal.Zero

			cuotas, err := Generar(p)
			require.NoError(t, err)
			require.Len(t, cuotas, 10)
			for _, c := range cuotas {
				assert.True(t, c.Capital.GreaterThanOrEqual(dec("0.01")), "cuota %d capital %s", c.Numero, c.Capital)
				assert.True(t, c.Monto.IsPositive(), "cuota %d", c.Numero)
			}
			assert.True(t, TotalCapital(cuotas).Equal(dec("0.15")))
			assert.True(t, cuotas[9].SaldoCapital.IsZero())
		})
	}
}
