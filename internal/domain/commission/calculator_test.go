package commission_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Comisiones-api/internal/domain/commission"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_Casos(t *testing.T) {
	cases := []struct {
		name    string
		premium string
		rate    string
		want    string
	}{
		{"diez por ciento", "1000.00", "10", "100.00"},
		{"cero premio", "0", "35", "0"},
		{"cero percentual", "1234.56", "0", "0"},
		{"cien por ciento", "987.65", "100", "987.65"},
		{"redondeo hacia arriba", "100.05", "10", "10.01"},
		{"redondeo hacia abajo", "100.04", "10", "10.00"},
		{"percentual con decimales", "2500", "12.5", "312.50"},
		{"medio centavo", "0.05", "50", "0.03"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := commission.Compute(dec(tc.premium), dec(tc.rate))
			assert.True(t, dec(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

// El resultado nunca tiene más de dos decimales y coincide con round(p*r/100, 2).
func TestCompute_DosDecimales(t *testing.T) {
	for p := 0; p <= 5000; p += 137 {
		for r := 0; r <= 100; r += 7 {
			premium := decimal.New(int64(p)*101, -2)
			rate := decimal.New(int64(r)*3, -1)
			if rate.GreaterThan(decimal.NewFromInt(100)) {
				continue
			}
			got := commission.Compute(premium, rate)
			want := premium.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
			assert.True(t, want.Equal(got))
			assert.LessOrEqual(t, -got.Exponent(), int32(2))
		}
	}
}
