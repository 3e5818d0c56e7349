package export

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
)

// SalesSpreadsheet serializa la tabla de ventas a una planilla (xlsx).
type SalesSpreadsheet interface {
	WriteSales(ctx context.Context, sales []*entity.Sale) ([]byte, error)
}

// ReportGenerator genera el informe imprimible de comisiones.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, report *Report) ([]byte, error)
}

// Report datos del informe de comisiones.
type Report struct {
	Title           string
	GeneratedAt     time.Time
	Sales           []*entity.Sale
	TotalPremium    decimal.Decimal
	TotalCommission decimal.Decimal
}
