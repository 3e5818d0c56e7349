package sales_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comisiones-api/internal/application/dto"
	"github.com/jhoicas/Comisiones-api/internal/application/records"
	"github.com/jhoicas/Comisiones-api/internal/application/sales"
	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/infrastructure/csvstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	csv   *csvstore.Store
	store *records.RecordStore
	uc    *sales.SaleUseCase
	clock time.Time
}

func (f *fixture) now() time.Time { return f.clock }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	csv, err := csvstore.Open(csvstore.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = csv.Close() })

	store := records.NewRecordStore(csv, csv, nil)
	require.NoError(t, store.Load(context.Background()))

	f := &fixture{csv: csv, store: store, clock: time.Date(2024, 5, 10, 14, 30, 0, 0, time.Local)}
	f.uc = sales.NewSaleUseCase(store, nil, sales.WithClock(f.now), sales.WithConfirmTTL(time.Minute))
	return f
}

func joao() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		InsuredName:    "João",
		Plate:          "ABC1234",
		SaleDate:       "10/05/2024",
		Insurer:        "Porto Seguro",
		NetPremium:     decimal.RequireFromString("1000.00"),
		CommissionRate: decimal.NewFromInt(10),
		Note:           "primeira venda",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaComisionYRegistraLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.True(t, decimal.RequireFromString("100.00").Equal(out.CommissionAmount))
	assert.Equal(t, "Pending", out.Status)
	assert.Equal(t, "10/05/2024", out.SaleDate)

	logs := f.store.Logs()
	require.Len(t, logs, 1, "exactamente una entrada Registration")
	assert.Equal(t, entity.ActionRegistration, logs[0].Action)
	assert.Equal(t, out.ID, logs[0].SaleID)
	assert.Equal(t, "Sale registered for João", logs[0].Description)

	// Persistido en disco: ventas y logs.
	persisted, err := f.csv.LoadSales(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, out.ID, persisted[0].ID)
	assert.True(t, decimal.NewFromInt(100).Equal(persisted[0].CommissionAmount))

	persistedLogs, err := f.csv.LoadLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, persistedLogs, 1)
}

func TestCreate_IDsUnicos(t *testing.T) {
	f := newFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		out, err := f.uc.Create(context.Background(), joao())
		require.NoError(t, err)
		assert.False(t, seen[out.ID])
		seen[out.ID] = true
	}
	assert.Len(t, f.store.Sales(), 20)
}

func TestCreate_NombreVacioEsErrorDeValidacion(t *testing.T) {
	f := newFixture(t)
	in := joao()
	in.InsuredName = "   "

	out, err := f.uc.Create(context.Background(), in)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["insured_name"])

	assert.Empty(t, f.store.Sales(), "no se persiste nada")
	assert.Empty(t, f.store.Logs())
}

func TestCreate_CamposLibresSeGuardanTalCual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plate := " ABC 1234 " + strings.Repeat("X", 20)
	insurer := "  " + strings.Repeat("Seguradora ", 25)
	name := strings.Repeat("N", 250)

	in := joao()
	in.InsuredName = name
	in.Plate = plate
	in.Insurer = insurer

	out, err := f.uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, plate, out.Plate)
	assert.Equal(t, insurer, out.Insurer)
	assert.Equal(t, name, out.InsuredName)

	padded := joao()
	padded.Plate = " ABC 1234 "
	_, err = f.uc.Create(ctx, padded)
	require.NoError(t, err)

	persisted, err := f.csv.LoadSales(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.Equal(t, plate, persisted[0].Plate)
	assert.Equal(t, insurer, persisted[0].Insurer)
	assert.Equal(t, " ABC 1234 ", persisted[1].Plate)
}

func TestCreate_RangosNumericos(t *testing.T) {
	f := newFixture(t)

	in := joao()
	in.CommissionRate = decimal.RequireFromString("100.01")
	_, err := f.uc.Create(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lte", verr.Fields["commission_rate"])

	in = joao()
	in.NetPremium = decimal.RequireFromString("-1")
	_, err = f.uc.Create(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gte", verr.Fields["net_premium"])

	in = joao()
	in.NetPremium = decimal.Zero
	in.CommissionRate = decimal.NewFromInt(100)
	out, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err, "los extremos son válidos")
	assert.True(t, out.CommissionAmount.IsZero())
}

func TestCreate_FechaVaciaUsaHoyYFechaInvalida(t *testing.T) {
	f := newFixture(t)

	in := joao()
	in.SaleDate = ""
	out, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "10/05/2024", out.SaleDate)

	in.SaleDate = "2024-02-29"
	out, err = f.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "29/02/2024", out.SaleDate)

	in.SaleDate = "31/02/2024"
	_, err = f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exclusión en dos pasos
// ──────────────────────────────────────────────────────────────────────────────

func seedPayments(t *testing.T, f *fixture, saleIDs ...string) {
	t.Helper()
	ctx := context.Background()
	payments := make([]*entity.Payment, 0, len(saleIDs))
	for i, id := range saleIDs {
		payments = append(payments, &entity.Payment{
			ID:         "p" + string(rune('a'+i)),
			SaleID:     id,
			AmountPaid: decimal.NewFromInt(int64(10 * (i + 1))),
		})
	}
	require.NoError(t, f.csv.PersistPayments(ctx, payments))
	require.NoError(t, f.store.Load(ctx))
}

func TestDelete_CascadaYLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)
	in := joao()
	in.InsuredName = "Maria"
	b, err := f.uc.Create(ctx, in)
	require.NoError(t, err)
	seedPayments(t, f, a.ID, b.ID, a.ID)

	salesBefore := len(f.store.Sales())
	logsBefore := len(f.store.Logs())

	confirm, err := f.uc.RequestDelete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "João", confirm.InsuredName)
	assert.Len(t, f.store.Sales(), salesBefore, "la solicitud sola no elimina")

	res, err := f.uc.ConfirmDelete(ctx, confirm.Token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, res.SaleID)
	assert.Equal(t, 2, res.PaymentsRemoved)

	assert.Len(t, f.store.Sales(), salesBefore-1)
	_, found := f.store.FindSale(a.ID)
	assert.False(t, found)

	payments := f.store.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, b.ID, payments[0].SaleID)

	logs := f.store.Logs()
	require.Len(t, logs, logsBefore+1)
	last := logs[len(logs)-1]
	assert.Equal(t, entity.ActionDeletion, last.Action)
	assert.Equal(t, a.ID, last.SaleID)
	assert.Equal(t, "Sale deleted (João)", last.Description)

	// Las tres tablas quedaron persistidas.
	diskSales, err := f.csv.LoadSales(ctx)
	require.NoError(t, err)
	assert.Len(t, diskSales, 1)
	diskPayments, err := f.csv.LoadPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, diskPayments, 1)
	diskLogs, err := f.csv.LoadLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, diskLogs, 3)
}

func TestRequestDelete_VentaInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)

	_, err = f.uc.RequestDelete(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.store.Sales(), 1)
	assert.Len(t, f.store.Logs(), 1)
}

func TestConfirmDelete_DosVecesEsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)

	first, err := f.uc.RequestDelete(ctx, out.ID)
	require.NoError(t, err)
	second, err := f.uc.RequestDelete(ctx, out.ID)
	require.NoError(t, err)

	_, err = f.uc.ConfirmDelete(ctx, first.Token)
	require.NoError(t, err)

	salesBefore, paymentsBefore, logsBefore := len(f.store.Sales()), len(f.store.Payments()), len(f.store.Logs())
	_, err = f.uc.ConfirmDelete(ctx, second.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.store.Sales(), salesBefore)
	assert.Len(t, f.store.Payments(), paymentsBefore)
	assert.Len(t, f.store.Logs(), logsBefore, "sin entrada de log extra")
}

func TestConfirmDelete_TokenDeUnSoloUso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)

	c, err := f.uc.RequestDelete(ctx, out.ID)
	require.NoError(t, err)
	_, err = f.uc.ConfirmDelete(ctx, c.Token)
	require.NoError(t, err)

	_, err = f.uc.ConfirmDelete(ctx, c.Token)
	assert.ErrorIs(t, err, domain.ErrConfirmationNotFound)
}

func TestConfirmDelete_TokenExpirado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)

	c, err := f.uc.RequestDelete(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Add(time.Minute), c.ExpiresAt)

	f.clock = f.clock.Add(time.Minute)
	_, err = f.uc.ConfirmDelete(ctx, c.Token)
	assert.ErrorIs(t, err, domain.ErrConfirmationExpired)
	assert.Len(t, f.store.Sales(), 1, "la venta sigue ahí")
}

func TestCancelDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)

	c, err := f.uc.RequestDelete(ctx, out.ID)
	require.NoError(t, err)
	require.NoError(t, f.uc.CancelDelete(c.Token))
	assert.ErrorIs(t, f.uc.CancelDelete(c.Token), domain.ErrConfirmationNotFound)

	_, err = f.uc.ConfirmDelete(ctx, c.Token)
	assert.ErrorIs(t, err, domain.ErrConfirmationNotFound)
	assert.Len(t, f.store.Sales(), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_DetalleConPagos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)
	seedPayments(t, f, out.ID, "otra")

	detail, err := f.uc.Get(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "João", detail.InsuredName)
	require.Len(t, detail.Payments, 1)
	assert.Equal(t, out.ID, detail.Payments[0].SaleID)

	_, err = f.uc.Get(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogs_OrdenDescendente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Hour)
	in := joao()
	in.InsuredName = "Maria"
	_, err = f.uc.Create(ctx, in)
	require.NoError(t, err)
	c, err := f.uc.RequestDelete(ctx, a.ID)
	require.NoError(t, err)
	_, err = f.uc.ConfirmDelete(ctx, c.Token)
	require.NoError(t, err)

	logs, total := f.uc.Logs(ctx, dto.PageRequest{})
	require.Len(t, logs, 3)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Sale deleted (João)", logs[0].Description, "misma hora: la última insertada primero")
	assert.Equal(t, "Sale registered for Maria", logs[1].Description)
	assert.Equal(t, "Sale registered for João", logs[2].Description)

	page, total := f.uc.Logs(ctx, dto.PageRequest{Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Sale registered for Maria", page[0].Description)

	empty, total := f.uc.Logs(ctx, dto.PageRequest{Offset: 10})
	assert.Empty(t, empty)
	assert.Equal(t, 3, total)
}

func TestLogs_SinLimiteDevuelveTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 130; i++ {
		f.clock = f.clock.Add(time.Second)
		_, err := f.uc.Create(ctx, joao())
		require.NoError(t, err)
	}

	all, total := f.uc.Logs(ctx, dto.PageRequest{})
	assert.Len(t, all, 130)
	assert.Equal(t, 130, total)

	some, total := f.uc.Logs(ctx, dto.PageRequest{Limit: 50})
	assert.Len(t, some, 50)
	assert.Equal(t, 130, total)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, joao())
	require.NoError(t, err)
	in := joao()
	in.NetPremium = decimal.RequireFromString("250.50")
	in.CommissionRate = decimal.NewFromInt(20)
	_, err = f.uc.Create(ctx, in)
	require.NoError(t, err)

	s := f.uc.Summary(ctx)
	assert.Equal(t, 2, s.Quantity)
	assert.Equal(t, 2, s.Pending)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(s.TotalPremium))
	assert.True(t, decimal.RequireFromString("150.10").Equal(s.TotalCommission))
	assert.Len(t, f.uc.List(ctx), 2)
}
