package records

import (
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
)

// Mutation copia de trabajo de las colecciones dentro de RecordStore.Apply.
// Cada operación marca como sucia la tabla que toca.
type Mutation struct {
	sales    []*entity.Sale
	payments []*entity.Payment
	logs     []*entity.LogEntry
	dirty    map[repository.Table]bool
}

// FindSale busca una venta en la copia de trabajo.
func (m *Mutation) FindSale(id string) (*entity.Sale, bool) {
	for _, v := range m.sales {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// AppendSale agrega una venta al final.
func (m *Mutation) AppendSale(sale *entity.Sale) {
	m.sales = append(m.sales, sale)
	m.dirty[repository.TableSales] = true
}

// RemoveSale quita la venta con ese ID y la devuelve.
func (m *Mutation) RemoveSale(id string) (*entity.Sale, bool) {
	for i, v := range m.sales {
		if v.ID == id {
			m.sales = append(m.sales[:i:i], m.sales[i+1:]...)
			m.dirty[repository.TableSales] = true
			return v, true
		}
	}
	return nil, false
}

// RemovePaymentsFor quita todos los pagos de la venta (cascada) y devuelve cuántos.
// La tabla de pagos se reescribe aunque no haya coincidencias.
func (m *Mutation) RemovePaymentsFor(saleID string) int {
	kept := make([]*entity.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		if p.SaleID != saleID {
			kept = append(kept, p)
		}
	}
	removed := len(m.payments) - len(kept)
	m.payments = kept
	m.dirty[repository.TablePayments] = true
	return removed
}

// AppendLog agrega una entrada de auditoría.
func (m *Mutation) AppendLog(entry *entity.LogEntry) {
	m.logs = append(m.logs, entry)
	m.dirty[repository.TableLogs] = true
}

// touched tablas sucias en orden fijo: ventas, pagos, logs.
func (m *Mutation) touched() []repository.Table {
	out := make([]repository.Table, 0, 3)
	for _, t := range []repository.Table{repository.TableSales, repository.TablePayments, repository.TableLogs} {
		if m.dirty[t] {
			out = append(out, t)
		}
	}
	return out
}
