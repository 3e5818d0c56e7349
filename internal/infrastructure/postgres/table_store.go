package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
)

var _ repository.TableStore = (*TableStore)(nil)

// Querier lo implementan *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// TableStore implementación de repository.TableStore (usable con pool o tx).
type TableStore struct {
	q Querier
}

// NewTableStore construye el adaptador. Pasar pool o tx (Querier).
func NewTableStore(q Querier) *TableStore {
	return &TableStore{q: q}
}

// LoadSales lee vendas en el orden persistido.
func (s *TableStore) LoadSales(ctx context.Context) ([]*entity.Sale, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, segurado, placa, data, seguradora, premio_liquido, percentual, comissao_caio, status, observacao
		FROM vendas ORDER BY posicao`)
	if err != nil {
		return loadErr[*entity.Sale](repository.TableSales, err)
	}
	defer rows.Close()

	out := []*entity.Sale{}
	for rows.Next() {
		var (
			v      entity.Sale
			date   *time.Time
			status string
		)
		if err := rows.Scan(&v.ID, &v.InsuredName, &v.Plate, &date, &v.Insurer,
			&v.NetPremium, &v.CommissionRate, &v.CommissionAmount, &status, &v.Note); err != nil {
			return loadErr[*entity.Sale](repository.TableSales, err)
		}
		if date != nil {
			v.SaleDate = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		}
		v.Status = entity.ParseSaleStatus(status)
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return loadErr[*entity.Sale](repository.TableSales, err)
	}
	return out, nil
}

// LoadPayments lee pagamentos en el orden persistido.
func (s *TableStore) LoadPayments(ctx context.Context) ([]*entity.Payment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, id_venda, valor_pago, data_pagamento, observacao
		FROM pagamentos ORDER BY posicao`)
	if err != nil {
		return loadErr[*entity.Payment](repository.TablePayments, err)
	}
	defer rows.Close()

	out := []*entity.Payment{}
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.AmountPaid, &p.PaymentDate, &p.Note); err != nil {
			return loadErr[*entity.Payment](repository.TablePayments, err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return loadErr[*entity.Payment](repository.TablePayments, err)
	}
	return out, nil
}

// LoadLogs lee logs en el orden persistido.
func (s *TableStore) LoadLogs(ctx context.Context) ([]*entity.LogEntry, error) {
	rows, err := s.q.Query(ctx, `
		SELECT data_hora, tipo_acao, id_venda, descricao
		FROM logs ORDER BY posicao`)
	if err != nil {
		return loadErr[*entity.LogEntry](repository.TableLogs, err)
	}
	defer rows.Close()

	out := []*entity.LogEntry{}
	for rows.Next() {
		var (
			l      entity.LogEntry
			ts     *time.Time
			action string
		)
		if err := rows.Scan(&ts, &action, &l.SaleID, &l.Description); err != nil {
			return loadErr[*entity.LogEntry](repository.TableLogs, err)
		}
		if ts != nil {
			l.Timestamp = ts.Local()
		}
		l.Action = entity.ParseActionKind(action)
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return loadErr[*entity.LogEntry](repository.TableLogs, err)
	}
	return out, nil
}

// PersistSales reemplaza el contenido completo de vendas.
func (s *TableStore) PersistSales(ctx context.Context, sales []*entity.Sale) error {
	rows := make([][]any, 0, len(sales))
	for i, v := range sales {
		var date any
		if !v.SaleDate.IsZero() {
			date = v.SaleDate
		}
		rows = append(rows, []any{i, v.ID, v.InsuredName, v.Plate, date, v.Insurer,
			v.NetPremium, v.CommissionRate, v.CommissionAmount, string(v.Status), v.Note})
	}
	return s.replace(ctx, repository.TableSales, "vendas", rows)
}

// PersistPayments reemplaza el contenido completo de pagamentos.
func (s *TableStore) PersistPayments(ctx context.Context, payments []*entity.Payment) error {
	rows := make([][]any, 0, len(payments))
	for i, p := range payments {
		rows = append(rows, []any{i, p.ID, p.SaleID, p.AmountPaid, p.PaymentDate, p.Note})
	}
	return s.replace(ctx, repository.TablePayments, "pagamentos", rows)
}

// PersistLogs reemplaza el contenido completo de logs.
func (s *TableStore) PersistLogs(ctx context.Context, logs []*entity.LogEntry) error {
	rows := make([][]any, 0, len(logs))
	for i, l := range logs {
		var ts any
		if !l.Timestamp.IsZero() {
			ts = l.Timestamp
		}
		rows = append(rows, []any{i, ts, string(l.Action), l.SaleID, l.Description})
	}
	return s.replace(ctx, repository.TableLogs, "logs", rows)
}

// replace borra la tabla y copia las filas; dentro de RunTables es atómico.
func (s *TableStore) replace(ctx context.Context, t repository.Table, name string, rows [][]any) error {
	if _, err := s.q.Exec(ctx, "DELETE FROM "+pgx.Identifier{name}.Sanitize()); err != nil {
		return &domain.PersistenceError{Table: string(t), Op: "persist", Err: fmt.Errorf("vaciar %s: %w", name, err)}
	}
	if len(rows) == 0 {
		return nil
	}
	cols := append([]string{"posicao"}, repository.Columns(t)...)
	if _, err := s.q.CopyFrom(ctx, pgx.Identifier{name}, cols, pgx.CopyFromRows(rows)); err != nil {
		return &domain.PersistenceError{Table: string(t), Op: "persist", Err: fmt.Errorf("copiar %s: %w", name, err)}
	}
	return nil
}

// loadErr: tabla inexistente equivale a tabla vacía, no a un error.
func loadErr[T any](t repository.Table, err error) ([]T, error) {
	if isUndefinedTable(err) {
		return []T{}, nil
	}
	return nil, &domain.PersistenceError{Table: string(t), Op: "load", Err: err}
}

