package repository

import (
	"context"

	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
)

// Table identifica una de las tres tablas persistidas.
type Table string

const (
	TableSales    Table = "sales"
	TablePayments Table = "payments"
	TableLogs     Table = "logs"
)

// Esquema fijo de columnas, en orden estable.
var (
	SaleColumns    = []string{"id", "segurado", "placa", "data", "seguradora", "premio_liquido", "percentual", "comissao_caio", "status", "observacao"}
	PaymentColumns = []string{"id", "id_venda", "valor_pago", "data_pagamento", "observacao"}
	LogColumns     = []string{"data_hora", "tipo_acao", "id_venda", "descricao"}
)

// Formatos de fecha persistidos.
const (
	DateLayout      = "02/01/2006"
	TimestampLayout = "02/01/2006 15:04:05"
)

// Columns devuelve una copia del esquema de la tabla.
func Columns(t Table) []string {
	var cols []string
	switch t {
	case TableSales:
		cols = SaleColumns
	case TablePayments:
		cols = PaymentColumns
	case TableLogs:
		cols = LogColumns
	}
	return append([]string(nil), cols...)
}

// TableStore define el puerto de persistencia de tabla completa:
// Load lee la tabla entera (ausente = vacía) y Persist la reescribe entera.
type TableStore interface {
	LoadSales(ctx context.Context) ([]*entity.Sale, error)
	LoadPayments(ctx context.Context) ([]*entity.Payment, error)
	LoadLogs(ctx context.Context) ([]*entity.LogEntry, error)

	PersistSales(ctx context.Context, sales []*entity.Sale) error
	PersistPayments(ctx context.Context, payments []*entity.Payment) error
	PersistLogs(ctx context.Context, logs []*entity.LogEntry) error
}

// TableTxRunner agrupa varias escrituras de tabla. En Postgres es una única
// transacción; en archivos planos las escrituras son secuenciales.
type TableTxRunner interface {
	RunTables(ctx context.Context, fn func(store TableStore) error) error
}
