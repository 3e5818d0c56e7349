package commission

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Compute implementa el cálculo de comisión (servicio de dominio).
// Comision = PremioLiquido * Percentual / 100, redondeado a 2 decimales (half-up).
// Los rangos (premio >= 0, percentual 0-100) los valida quien llama.
func Compute(netPremium, rate decimal.Decimal) decimal.Decimal {
	return netPremium.Mul(rate).Div(hundred).Round(2)
}
