// Package records es el único dueño en proceso de las tres colecciones
// (ventas, pagos y logs). Cada mutación se aplica sobre una copia de trabajo,
// se persiste tabla completa y solo entonces reemplaza el estado en memoria.
package records

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

// RecordStore colecciones en memoria respaldadas por un TableStore.
type RecordStore struct {
	mu     sync.RWMutex
	tables repository.TableStore
	runner repository.TableTxRunner
	log    *logger.Logger

	sales    []*entity.Sale
	payments []*entity.Payment
	logs     []*entity.LogEntry
}

// NewRecordStore construye el store. Llamar Load antes de usarlo.
func NewRecordStore(tables repository.TableStore, runner repository.TableTxRunner, log *logger.Logger) *RecordStore {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordStore{
		tables:   tables,
		runner:   runner,
		log:      log.Component("records"),
		sales:    []*entity.Sale{},
		payments: []*entity.Payment{},
		logs:     []*entity.LogEntry{},
	}
}

// Load lee las tres tablas. Si alguna falla, el estado anterior se conserva.
func (s *RecordStore) Load(ctx context.Context) error {
	sales, err := s.tables.LoadSales(ctx)
	if err != nil {
		return err
	}
	payments, err := s.tables.LoadPayments(ctx)
	if err != nil {
		return err
	}
	logs, err := s.tables.LoadLogs(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sales, s.payments, s.logs = sales, payments, logs
	s.mu.Unlock()

	s.log.Info().
		Int("sales", len(sales)).
		Int("payments", len(payments)).
		Int("logs", len(logs)).
		Msg("tablas cargadas")
	return nil
}

// Sales copia de la colección de ventas, en orden de registro.
func (s *RecordStore) Sales() []*entity.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Sale, 0, len(s.sales))
	for _, v := range s.sales {
		out = append(out, v.Clone())
	}
	return out
}

// Payments copia de la colección de pagos.
func (s *RecordStore) Payments() []*entity.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		c := *p
		out = append(out, &c)
	}
	return out
}

// Logs copia de la colección de logs, en orden de inserción.
func (s *RecordStore) Logs() []*entity.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.LogEntry, 0, len(s.logs))
	for _, l := range s.logs {
		c := *l
		out = append(out, &c)
	}
	return out
}

// FindSale busca una venta por ID.
func (s *RecordStore) FindSale(id string) (*entity.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.sales {
		if v.ID == id {
			return v.Clone(), true
		}
	}
	return nil, false
}

// PaymentsForSale pagos cuyo id_venda coincide.
func (s *RecordStore) PaymentsForSale(saleID string) []*entity.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*entity.Payment{}
	for _, p := range s.payments {
		if p.SaleID == saleID {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}

// Apply ejecuta fn sobre una copia de trabajo y persiste las tablas marcadas.
// Si fn o la persistencia fallan, el estado en memoria no cambia.
func (s *RecordStore) Apply(ctx context.Context, fn func(m *Mutation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &Mutation{
		sales:    append([]*entity.Sale(nil), s.sales...),
		payments: append([]*entity.Payment(nil), s.payments...),
		logs:     append([]*entity.LogEntry(nil), s.logs...),
		dirty:    map[repository.Table]bool{},
	}
	if err := fn(m); err != nil {
		return err
	}
	if len(m.dirty) == 0 {
		return nil
	}

	touched := m.touched()
	err := s.runner.RunTables(ctx, func(ts repository.TableStore) error {
		for _, t := range touched {
			var err error
			switch t {
			case repository.TableSales:
				err = ts.PersistSales(ctx, m.sales)
			case repository.TablePayments:
				err = ts.PersistPayments(ctx, m.payments)
			case repository.TableLogs:
				err = ts.PersistLogs(ctx, m.logs)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = &domain.PersistenceError{Table: joinTables(touched), Op: "persist", Err: err}
		}
		s.log.Error().Err(err).Str("tables", joinTables(touched)).Msg("persistencia fallida, cambios descartados")
		return err
	}

	s.sales, s.payments, s.logs = m.sales, m.payments, m.logs
	return nil
}

func joinTables(ts []repository.Table) string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, string(t))
	}
	return strings.Join(names, ",")
}
