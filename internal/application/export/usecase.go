// Package export produce las instantáneas descargables de la tabla de ventas.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comisiones-api/internal/application/records"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

// ExportUseCase exporta el estado actual del RecordStore.
type ExportUseCase struct {
	store      *records.RecordStore
	sheet      SalesSpreadsheet
	report     ReportGenerator
	fileName   string
	reportName string
	log        *logger.Logger
	now        func() time.Time
}

// NewExportUseCase construye el caso de uso. report puede ser nil si el
// informe PDF no está habilitado.
func NewExportUseCase(store *records.RecordStore, sheet SalesSpreadsheet, report ReportGenerator, fileName, reportName string, log *logger.Logger) *ExportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ExportUseCase{
		store:      store,
		sheet:      sheet,
		report:     report,
		fileName:   fileName,
		reportName: reportName,
		log:        log.Component("export"),
		now:        time.Now,
	}
}

// ExportSales devuelve la planilla con todas las ventas y el nombre sugerido.
func (uc *ExportUseCase) ExportSales(ctx context.Context) ([]byte, string, error) {
	sales := uc.store.Sales()
	b, err := uc.sheet.WriteSales(ctx, sales)
	if err != nil {
		return nil, "", fmt.Errorf("export: planilla: %w", err)
	}
	uc.log.Info().Int("sales", len(sales)).Int("bytes", len(b)).Msg("planilla exportada")
	return b, uc.fileName, nil
}

// ExportReport devuelve el informe PDF de comisiones.
func (uc *ExportUseCase) ExportReport(ctx context.Context) ([]byte, string, error) {
	if uc.report == nil {
		return nil, "", fmt.Errorf("export: informe PDF no configurado")
	}
	sales := uc.store.Sales()
	r := &Report{
		Title:           "Relatório de comissões",
		GeneratedAt:     uc.now(),
		Sales:           sales,
		TotalPremium:    decimal.Zero,
		TotalCommission: decimal.Zero,
	}
	for _, s := range sales {
		r.TotalPremium = r.TotalPremium.Add(s.NetPremium)
		r.TotalCommission = r.TotalCommission.Add(s.CommissionAmount)
	}
	b, err := uc.report.GenerateReport(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("export: informe: %w", err)
	}
	uc.log.Info().Int("sales", len(sales)).Msg("informe generado")
	return b, uc.reportName, nil
}
