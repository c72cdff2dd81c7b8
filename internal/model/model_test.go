package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func prestamoConGastos(manejo string) *Prestamo {
	return &Prestamo{
		Monto:        dec("50000"),
		ManejoGastos: manejo,
		Gastos: []GastoPrestamo{
			{Monto: dec("1500")},
			{Monto: dec("250.50")},
		},
	}
}

func TestPrestamo_TotalGastosAsociados(t *testing.T) {
	p := prestamoConGastos(GastosFinanciar)
	assert.True(t, dec("1750.50").Equal(p.TotalGastosAsociados()))

	p.Gastos = nil
	assert.True(t, p.TotalGastosAsociados().IsZero())
}

func TestPrestamo_MontoDesembolsado(t *testing.T) {
	assert.True(t, dec("48249.50").Equal(prestamoConGastos(GastosDescontarDesembolso).MontoDesembolsado()))
	assert.True(t, dec("50000").Equal(prestamoConGastos(GastosFinanciar).MontoDesembolsado()))
	assert.True(t, dec("50000").Equal(prestamoConGastos(GastosPagarPorSeparado).MontoDesembolsado()))
}

func TestPrestamo_DerivadosSeRecalculanAlLeer(t *testing.T) {
	p := prestamoConGastos(GastosDescontarDesembolso)
	antes := p.MontoDesembolsado()
	p.Gastos = append(p.Gastos, GastoPrestamo{Monto: dec("249.50")})
	assert.True(t, antes.Sub(dec("249.50")).Equal(p.MontoDesembolsado()))
}

func TestCuota_Recalcular(t *testing.T) {
	c := &Cuota{MontoCuota: dec("900"), MontoPenalidadAcumulada: dec("100"), Estado: CuotaPendiente}
	assert.True(t, dec("1000").Equal(c.MontoTotalAPagar()))

	c.Recalcular(decimal.Zero)
	assert.Equal(t, CuotaPendiente, c.Estado)
	assert.True(t, dec("1000").Equal(c.SaldoPendiente))

	c.Recalcular(dec("400"))
	assert.Equal(t, CuotaParcial, c.Estado)
	assert.True(t, dec("600").Equal(c.SaldoPendiente))

	c.Recalcular(dec("1000"))
	assert.Equal(t, CuotaPagada, c.Estado)
	assert.True(t, c.SaldoPendiente.IsZero())
}

func TestCuota_TotalPagadoMasSaldoIgualTotal(t *testing.T) {
	c := &Cuota{MontoCuota: dec("1234.56"), Estado: CuotaPendiente}
	for _, monto := range []string{"100", "34.56", "1000"} {
		c.Pagos = append(c.Pagos, Pago{MontoPagado: dec(monto)})
		c.Recalcular(c.TotalPagado())
		assert.True(t, c.MontoTotalAPagar().Equal(c.TotalPagado().Add(c.SaldoPendiente)))
	}
	assert.True(t, c.Pagada())
}

func TestPoliticaMora_Politica(t *testing.T) {
	p := (&PoliticaMora{Tasa: dec("0.002"), Periodo: "diario", DiasGracia: 5, Compuesta: true}).Politica()
	assert.True(t, dec("0.002").Equal(p.Tasa))
	assert.Equal(t, 5, p.DiasGracia)
	assert.True(t, p.Compuesta)
	assert.NoError(t, p.Validar())
}

func TestCliente_Documento(t *testing.T) {
	c := &Cliente{Nombres: "Ana", Apellidos: "Pérez"}
	assert.Equal(t, "", c.Documento())
	doc := " 001-1234567-8 "
	c.NumeroDocumento = &doc
	assert.Equal(t, "001-1234567-8", c.Documento())
	assert.Equal(t, "Ana Pérez", c.String())
}
