package records_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comisiones-api/internal/application/records"
	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
	"github.com/jhoicas/Comisiones-api/internal/infrastructure/csvstore"
)

// failingLogs simula un disco que rechaza la escritura de logs.
type failingLogs struct {
	*csvstore.Store
}

func (f failingLogs) PersistLogs(context.Context, []*entity.LogEntry) error {
	return &domain.PersistenceError{Table: "logs", Op: "persist", Err: errors.New("disco lleno")}
}

func (f failingLogs) RunTables(_ context.Context, fn func(repository.TableStore) error) error {
	return fn(f)
}

func newCSV(t *testing.T) *csvstore.Store {
	t.Helper()
	s, err := csvstore.Open(csvstore.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sale(id, name string) *entity.Sale {
	return &entity.Sale{
		ID:               id,
		InsuredName:      name,
		SaleDate:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		NetPremium:       decimal.NewFromInt(100),
		CommissionRate:   decimal.NewFromInt(10),
		CommissionAmount: decimal.NewFromInt(10),
		Status:           entity.StatusPending,
	}
}

func TestLoad_TablasAusentes(t *testing.T) {
	csv := newCSV(t)
	store := records.NewRecordStore(csv, csv, nil)

	require.NoError(t, store.Load(context.Background()))
	assert.Empty(t, store.Sales())
	assert.Empty(t, store.Payments())
	assert.Empty(t, store.Logs())
}

func TestApply_PersisteSoloTablasTocadas(t *testing.T) {
	csv := newCSV(t)
	ctx := context.Background()
	store := records.NewRecordStore(csv, csv, nil)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.Apply(ctx, func(m *records.Mutation) error {
		m.AppendSale(sale("s1", "Ana"))
		return nil
	}))

	persisted, err := csv.LoadSales(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "s1", persisted[0].ID)

	assert.NoFileExists(t, csv.Path(repository.TableLogs), "logs no fue tocado")
	assert.NoFileExists(t, csv.Path(repository.TablePayments))
}

func TestApply_FalloDePersistenciaNoCambiaMemoria(t *testing.T) {
	csv := newCSV(t)
	ctx := context.Background()
	broken := failingLogs{csv}
	store := records.NewRecordStore(broken, broken, nil)
	require.NoError(t, store.Load(ctx))

	err := store.Apply(ctx, func(m *records.Mutation) error {
		m.AppendSale(sale("s1", "Ana"))
		m.AppendLog(&entity.LogEntry{Action: entity.ActionRegistration, SaleID: "s1"})
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, store.Sales(), "la venta no debe quedar en memoria")
	assert.Empty(t, store.Logs())
}

func TestApply_ErrorDeFnAbortaSinEscribir(t *testing.T) {
	csv := newCSV(t)
	ctx := context.Background()
	store := records.NewRecordStore(csv, csv, nil)
	require.NoError(t, store.Load(ctx))

	sentinel := errors.New("abortar")
	err := store.Apply(ctx, func(m *records.Mutation) error {
		m.AppendSale(sale("s1", "Ana"))
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, store.Sales())
	assert.NoFileExists(t, csv.Path(repository.TableSales))
}

func TestMutation_RemoveSaleYCascada(t *testing.T) {
	csv := newCSV(t)
	ctx := context.Background()
	require.NoError(t, csv.PersistSales(ctx, []*entity.Sale{sale("s1", "Ana"), sale("s2", "Bia"), sale("s3", "Caio")}))
	require.NoError(t, csv.PersistPayments(ctx, []*entity.Payment{
		{ID: "p1", SaleID: "s2", AmountPaid: decimal.NewFromInt(5)},
		{ID: "p2", SaleID: "s1", AmountPaid: decimal.NewFromInt(6)},
		{ID: "p3", SaleID: "s2", AmountPaid: decimal.NewFromInt(7)},
	}))
	store := records.NewRecordStore(csv, csv, nil)
	require.NoError(t, store.Load(ctx))
	before := store.Sales()

	var removed int
	require.NoError(t, store.Apply(ctx, func(m *records.Mutation) error {
		_, ok := m.RemoveSale("s2")
		require.True(t, ok)
		removed = m.RemovePaymentsFor("s2")
		return nil
	}))

	assert.Equal(t, 2, removed)
	sales := store.Sales()
	require.Len(t, sales, 2)
	assert.Equal(t, "s1", sales[0].ID)
	assert.Equal(t, "s3", sales[1].ID)
	assert.Len(t, before, 3, "las copias entregadas antes no cambian")

	payments := store.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, "p2", payments[0].ID)
	assert.Empty(t, store.PaymentsForSale("s2"))
	assert.Len(t, store.PaymentsForSale("s1"), 1)
}

func TestFindSale_DevuelveCopia(t *testing.T) {
	csv := newCSV(t)
	ctx := context.Background()
	store := records.NewRecordStore(csv, csv, nil)
	require.NoError(t, store.Load(ctx))
	require.NoError(t, store.Apply(ctx, func(m *records.Mutation) error {
		m.AppendSale(sale("s1", "Ana"))
		return nil
	}))

	got, ok := store.FindSale("s1")
	require.True(t, ok)
	got.InsuredName = "modificado"

	again, _ := store.FindSale("s1")
	assert.Equal(t, "Ana", again.InsuredName)

	_, ok = store.FindSale("nope")
	assert.False(t, ok)
}
