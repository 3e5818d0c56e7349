// Package csvstore implementa el almacenamiento de tablas completas en
// archivos CSV planos (un archivo por tabla, siempre con cabecera).
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
)

// LockFileName archivo de bloqueo que garantiza un único escritor por directorio.
const LockFileName = ".comisiones.lock"

var (
	_ repository.TableStore    = (*Store)(nil)
	_ repository.TableTxRunner = (*Store)(nil)
)

// Options rutas de los archivos. Los nombres vacíos toman los valores por defecto.
type Options struct {
	Dir          string
	SalesFile    string
	PaymentsFile string
	LogsFile     string
}

// Store implementación de TableStore sobre archivos CSV.
type Store struct {
	files map[repository.Table]string
	lock  *flock.Flock
}

// Open prepara el directorio y toma el bloqueo exclusivo.
// Si otra instancia ya lo tiene, devuelve domain.ErrStoreLocked.
func Open(opts Options) (*Store, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("bloqueo de datos: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreLocked, dir)
	}
	return &Store{
		files: map[repository.Table]string{
			repository.TableSales:    filepath.Join(dir, orDefault(opts.SalesFile, "vendas.csv")),
			repository.TablePayments: filepath.Join(dir, orDefault(opts.PaymentsFile, "pagamentos.csv")),
			repository.TableLogs:     filepath.Join(dir, orDefault(opts.LogsFile, "logs.csv")),
		},
		lock: lock,
	}, nil
}

// Close libera el bloqueo.
func (s *Store) Close() error {
	return s.lock.Unlock()
}

// Path devuelve la ruta del archivo de la tabla.
func (s *Store) Path(t repository.Table) string { return s.files[t] }

// RunTables en archivos planos no hay transacción: fn escribe tabla por tabla.
func (s *Store) RunTables(_ context.Context, fn func(store repository.TableStore) error) error {
	return fn(s)
}

// LoadSales lee la tabla de ventas.
func (s *Store) LoadSales(_ context.Context) ([]*entity.Sale, error) {
	out := []*entity.Sale{}
	err := s.read(repository.TableSales, func(r record) error {
		sale, err := saleFromRecord(r)
		if err != nil {
			return err
		}
		out = append(out, sale)
		return nil
	})
	return out, err
}

// LoadPayments lee la tabla de pagos.
func (s *Store) LoadPayments(_ context.Context) ([]*entity.Payment, error) {
	out := []*entity.Payment{}
	err := s.read(repository.TablePayments, func(r record) error {
		p, err := paymentFromRecord(r)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// LoadLogs lee la tabla de logs.
func (s *Store) LoadLogs(_ context.Context) ([]*entity.LogEntry, error) {
	out := []*entity.LogEntry{}
	err := s.read(repository.TableLogs, func(r record) error {
		l, err := logFromRecord(r)
		if err != nil {
			return err
		}
		out = append(out, l)
		return nil
	})
	return out, err
}

// PersistSales reescribe la tabla de ventas completa.
func (s *Store) PersistSales(_ context.Context, sales []*entity.Sale) error {
	rows := make([][]string, 0, len(sales))
	for _, v := range sales {
		rows = append(rows, saleToRow(v))
	}
	return s.write(repository.TableSales, rows)
}

// PersistPayments reescribe la tabla de pagos completa.
func (s *Store) PersistPayments(_ context.Context, payments []*entity.Payment) error {
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, paymentToRow(p))
	}
	return s.write(repository.TablePayments, rows)
}

// PersistLogs reescribe la tabla de logs completa.
func (s *Store) PersistLogs(_ context.Context, logs []*entity.LogEntry) error {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, logToRow(l))
	}
	return s.write(repository.TableLogs, rows)
}

// read recorre las filas de la tabla. Archivo ausente o vacío = tabla vacía.
func (s *Store) read(t repository.Table, fn func(record) error) error {
	f, err := os.Open(s.files[t])
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &domain.PersistenceError{Table: string(t), Op: "load", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &domain.PersistenceError{Table: string(t), Op: "load", Err: err}
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range repository.Columns(t) {
		if _, ok := index[col]; !ok {
			return &domain.PersistenceError{Table: string(t), Op: "load", Err: fmt.Errorf("falta la columna %q", col)}
		}
	}

	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return &domain.PersistenceError{Table: string(t), Op: "load", Err: err}
		}
		if err := fn(record{index: index, row: row}); err != nil {
			return &domain.PersistenceError{Table: string(t), Op: "load", Err: fmt.Errorf("línea %d: %w", line, err)}
		}
	}
}

// write escribe cabecera + filas en un temporal y lo renombra sobre el destino.
func (s *Store) write(t repository.Table, rows [][]string) error {
	path := s.files[t]
	wrap := func(err error) error {
		return &domain.PersistenceError{Table: string(t), Op: "persist", Err: err}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return wrap(err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(repository.Columns(t)); err != nil {
		tmp.Close()
		return wrap(err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return wrap(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return wrap(err)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
