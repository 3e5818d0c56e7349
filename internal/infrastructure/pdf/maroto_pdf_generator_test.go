package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comisiones-api/internal/application/export"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "R$ 0,00",
		"100":        "R$ 100,00",
		"1000.5":     "R$ 1.000,50",
		"1234567.89": "R$ 1.234.567,89",
		"-25":        "-R$ 25,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateReport(t *testing.T) {
	r := &export.Report{
		Title:       "Relatório de comissões",
		GeneratedAt: time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local),
		Sales: []*entity.Sale{{
			ID:               "v1",
			InsuredName:      "Joao",
			Plate:            "ABC1234",
			SaleDate:         time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Insurer:          "Porto",
			NetPremium:       decimal.NewFromInt(1000),
			CommissionRate:   decimal.NewFromInt(10),
			CommissionAmount: decimal.NewFromInt(100),
			Status:           entity.StatusPending,
		}},
		TotalPremium:    decimal.NewFromInt(1000),
		TotalCommission: decimal.NewFromInt(100),
	}
	b, err := NewMarotoPDFGenerator().GenerateReport(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestGenerateReport_SinVentas(t *testing.T) {
	b, err := NewMarotoPDFGenerator().GenerateReport(context.Background(), &export.Report{Title: "Vazio", GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
