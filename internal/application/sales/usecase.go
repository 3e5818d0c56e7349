// Package sales orquesta el ciclo de vida de las ventas: registro con cálculo
// de comisión, exclusión confirmada en dos pasos con cascada a pagos, y la
// entrada de auditoría de cada mutación.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comisiones-api/internal/application/dto"
	"github.com/jhoicas/Comisiones-api/internal/application/records"
	"github.com/jhoicas/Comisiones-api/internal/application/validation"
	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/internal/domain/commission"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

// DefaultConfirmTTL vigencia de un token de exclusión si no se configura.
const DefaultConfirmTTL = 2 * time.Minute

// Option ajusta el caso de uso.
type Option func(*SaleUseCase)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *SaleUseCase) { uc.now = now }
}

// WithConfirmTTL vigencia de la confirmación de exclusión.
func WithConfirmTTL(ttl time.Duration) Option {
	return func(uc *SaleUseCase) {
		if ttl > 0 {
			uc.confirm = newConfirmations(ttl)
		}
	}
}

// SaleUseCase casos de uso de ventas sobre el RecordStore.
type SaleUseCase struct {
	store   *records.RecordStore
	confirm *confirmations
	log     *logger.Logger
	now     func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(store *records.RecordStore, log *logger.Logger, opts ...Option) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	uc := &SaleUseCase{
		store:   store,
		confirm: newConfirmations(DefaultConfirmTTL),
		log:     log.Component("sales"),
		now:     time.Now,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Create registra una venta: comisión calculada, estado Pending y entrada
// Registration en el log. Persiste ventas y logs.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	// Nombre solo con espacios cuenta como ausente; el resto se guarda tal cual.
	check := in
	check.InsuredName = strings.TrimSpace(in.InsuredName)
	if err := validation.Struct(check); err != nil {
		return nil, err
	}
	now := uc.now()
	saleDate, err := parseSaleDate(in.SaleDate, now)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:               uuid.New().String(),
		InsuredName:      in.InsuredName,
		Plate:            in.Plate,
		SaleDate:         saleDate,
		Insurer:          in.Insurer,
		NetPremium:       in.NetPremium,
		CommissionRate:   in.CommissionRate,
		CommissionAmount: commission.Compute(in.NetPremium, in.CommissionRate),
		Status:           entity.StatusPending,
		Note:             in.Note,
	}
	entry := &entity.LogEntry{
		Timestamp:   now.Truncate(time.Second),
		Action:      entity.ActionRegistration,
		SaleID:      sale.ID,
		Description: fmt.Sprintf("Sale registered for %s", sale.InsuredName),
	}

	err = uc.store.Apply(ctx, func(m *records.Mutation) error {
		m.AppendSale(sale)
		m.AppendLog(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("commission", sale.CommissionAmount.StringFixed(2)).
		Msg("venta registrada")
	return toSaleResponse(sale), nil
}

// RequestDelete primer paso de la exclusión: devuelve un token de confirmación.
func (uc *SaleUseCase) RequestDelete(_ context.Context, saleID string) (*dto.DeleteConfirmation, error) {
	sale, ok := uc.store.FindSale(saleID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	token, p := uc.confirm.issue(sale.ID, sale.InsuredName, uc.now())
	uc.log.Debug().Str("sale_id", sale.ID).Time("expires_at", p.expiresAt).Msg("exclusión solicitada")
	return &dto.DeleteConfirmation{
		Token:       token,
		SaleID:      sale.ID,
		InsuredName: sale.InsuredName,
		ExpiresAt:   p.expiresAt,
	}, nil
}

// ConfirmDelete segundo paso: consume el token y elimina la venta.
func (uc *SaleUseCase) ConfirmDelete(ctx context.Context, token string) (*dto.DeleteResult, error) {
	p, err := uc.confirm.take(token, uc.now())
	if err != nil {
		return nil, err
	}
	return uc.delete(ctx, p.saleID)
}

// CancelDelete descarta una solicitud pendiente.
func (uc *SaleUseCase) CancelDelete(token string) error {
	return uc.confirm.cancel(token)
}

// delete elimina la venta, sus pagos (cascada) y agrega la entrada Deletion.
// Persiste ventas, pagos y logs.
func (uc *SaleUseCase) delete(ctx context.Context, saleID string) (*dto.DeleteResult, error) {
	var result dto.DeleteResult
	err := uc.store.Apply(ctx, func(m *records.Mutation) error {
		sale, ok := m.RemoveSale(saleID)
		if !ok {
			return domain.ErrNotFound
		}
		result.SaleID = sale.ID
		result.InsuredName = sale.InsuredName
		result.PaymentsRemoved = m.RemovePaymentsFor(sale.ID)
		m.AppendLog(&entity.LogEntry{
			Timestamp:   uc.now().Truncate(time.Second),
			Action:      entity.ActionDeletion,
			SaleID:      sale.ID,
			Description: fmt.Sprintf("Sale deleted (%s)", sale.InsuredName),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn().Str("sale_id", saleID).Msg("exclusión de venta inexistente")
		}
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", result.SaleID).
		Int("payments_removed", result.PaymentsRemoved).
		Msg("venta excluida")
	return &result, nil
}

// List ventas en orden de registro.
func (uc *SaleUseCase) List(_ context.Context) []*dto.SaleResponse {
	list := uc.store.Sales()
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out
}

// Get detalle de la venta con sus pagos.
func (uc *SaleUseCase) Get(_ context.Context, saleID string) (*dto.SaleDetailResponse, error) {
	sale, ok := uc.store.FindSale(saleID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	payments := uc.store.PaymentsForSale(saleID)
	out := &dto.SaleDetailResponse{
		SaleResponse: *toSaleResponse(sale),
		Payments:     make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			ID:          p.ID,
			SaleID:      p.SaleID,
			AmountPaid:  p.AmountPaid,
			PaymentDate: p.PaymentDate,
			Note:        p.Note,
		})
	}
	return out, nil
}

// Logs entradas de auditoría de la más reciente a la más antigua.
// Con marcas iguales, la insertada después va primero.
func (uc *SaleUseCase) Logs(_ context.Context, page dto.PageRequest) ([]*dto.LogEntryResponse, int) {
	page.DefaultPage()
	entries := uc.store.Logs()
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	total := len(entries)
	if page.Offset >= total {
		return []*dto.LogEntryResponse{}, total
	}
	entries = entries[page.Offset:]
	if page.Limit > 0 && len(entries) > page.Limit {
		entries = entries[:page.Limit]
	}
	out := make([]*dto.LogEntryResponse, 0, len(entries))
	for _, l := range entries {
		out = append(out, &dto.LogEntryResponse{
			Timestamp:   l.Timestamp,
			Action:      string(l.Action),
			SaleID:      l.SaleID,
			Description: l.Description,
		})
	}
	return out, total
}

// Summary totales del tablero: cantidad, premio neto y comisión.
func (uc *SaleUseCase) Summary(_ context.Context) *dto.SummaryResponse {
	out := &dto.SummaryResponse{TotalPremium: decimal.Zero, TotalCommission: decimal.Zero}
	for _, s := range uc.store.Sales() {
		out.Quantity++
		out.TotalPremium = out.TotalPremium.Add(s.NetPremium)
		out.TotalCommission = out.TotalCommission.Add(s.CommissionAmount)
		if s.Status == entity.StatusPending {
			out.Pending++
		}
	}
	return out
}

// parseSaleDate acepta dd/mm/yyyy o yyyy-mm-dd; vacío = hoy.
func parseSaleDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range []string{repository.DateLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewValidationError("sale_date", "dd/mm/yyyy")
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	date := ""
	if !s.SaleDate.IsZero() {
		date = s.SaleDate.Format(repository.DateLayout)
	}
	return &dto.SaleResponse{
		ID:               s.ID,
		InsuredName:      s.InsuredName,
		Plate:            s.Plate,
		SaleDate:         date,
		Insurer:          s.Insurer,
		NetPremium:       s.NetPremium,
		CommissionRate:   s.CommissionRate,
		CommissionAmount: s.CommissionAmount,
		Status:           string(s.Status),
		Note:             s.Note,
	}
}
