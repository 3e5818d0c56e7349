// Package spreadsheet implementa la exportación xlsx de la tabla de ventas con excelize.
package spreadsheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
)

// SheetName hoja única del libro exportado.
const SheetName = "vendas"

const dateFormat = "dd/mm/yyyy"

// dateColumn posición (1-based) de la columna data en el esquema de ventas.
var dateColumn = indexOf(repository.SaleColumns, "data") + 1

// ExcelizeExporter implementa export.SalesSpreadsheet.
type ExcelizeExporter struct{}

// NewExcelizeExporter construye el exportador.
func NewExcelizeExporter() *ExcelizeExporter { return &ExcelizeExporter{} }

// WriteSales genera un libro con una fila por venta, columnas en el orden del
// esquema, data como celda de fecha y montos como números.
func (e *ExcelizeExporter) WriteSales(_ context.Context, sales []*entity.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	header := make([]interface{}, 0, len(repository.SaleColumns))
	for _, c := range repository.SaleColumns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(repository.SaleColumns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}

	for i, s := range sales {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := saleRow(s)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	if len(sales) > 0 {
		format := dateFormat
		dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return nil, err
		}
		first, _ := excelize.CoordinatesToCellName(dateColumn, 2)
		last, _ := excelize.CoordinatesToCellName(dateColumn, len(sales)+1)
		if err := f.SetCellStyle(SheetName, first, last, dateStyle); err != nil {
			return nil, fmt.Errorf("xlsx: formato de fecha: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// saleRow valores en el orden de repository.SaleColumns.
func saleRow(s *entity.Sale) []interface{} {
	var date interface{} = ""
	if !s.SaleDate.IsZero() {
		date = s.SaleDate
	}
	return []interface{}{
		s.ID,
		s.InsuredName,
		s.Plate,
		date,
		s.Insurer,
		s.NetPremium.InexactFloat64(),
		s.CommissionRate.InexactFloat64(),
		s.CommissionAmount.InexactFloat64(),
		string(s.Status),
		s.Note,
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
