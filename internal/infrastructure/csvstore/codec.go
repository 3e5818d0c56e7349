package csvstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
)

// Formatos aceptados al leer marcas de tiempo: el canónico y el que dejaban
// versiones anteriores (ISO con microsegundos).
var timestampLayouts = []string{
	repository.TimestampLayout,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// record da acceso por nombre de columna a una fila leída.
type record struct {
	index map[string]int
	row   []string
}

func (r record) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return r.row[i]
}

func saleToRow(s *entity.Sale) []string {
	return []string{
		s.ID,
		s.InsuredName,
		s.Plate,
		formatDate(s.SaleDate),
		s.Insurer,
		s.NetPremium.String(),
		s.CommissionRate.String(),
		s.CommissionAmount.String(),
		string(s.Status),
		s.Note,
	}
}

func saleFromRecord(r record) (*entity.Sale, error) {
	date, err := parseDate(r.get("data"))
	if err != nil {
		return nil, err
	}
	premium, err := parseDecimal("premio_liquido", r.get("premio_liquido"))
	if err != nil {
		return nil, err
	}
	rate, err := parseDecimal("percentual", r.get("percentual"))
	if err != nil {
		return nil, err
	}
	amount, err := parseDecimal("comissao_caio", r.get("comissao_caio"))
	if err != nil {
		return nil, err
	}
	return &entity.Sale{
		ID:               r.get("id"),
		InsuredName:      r.get("segurado"),
		Plate:            r.get("placa"),
		SaleDate:         date,
		Insurer:          r.get("seguradora"),
		NetPremium:       premium,
		CommissionRate:   rate,
		CommissionAmount: amount,
		Status:           entity.ParseSaleStatus(r.get("status")),
		Note:             r.get("observacao"),
	}, nil
}

func paymentToRow(p *entity.Payment) []string {
	return []string{p.ID, p.SaleID, p.AmountPaid.String(), p.PaymentDate, p.Note}
}

func paymentFromRecord(r record) (*entity.Payment, error) {
	amount, err := parseDecimal("valor_pago", r.get("valor_pago"))
	if err != nil {
		return nil, err
	}
	return &entity.Payment{
		ID:          r.get("id"),
		SaleID:      r.get("id_venda"),
		AmountPaid:  amount,
		PaymentDate: r.get("data_pagamento"),
		Note:        r.get("observacao"),
	}, nil
}

func logToRow(l *entity.LogEntry) []string {
	ts := ""
	if !l.Timestamp.IsZero() {
		ts = l.Timestamp.Format(repository.TimestampLayout)
	}
	return []string{ts, string(l.Action), l.SaleID, l.Description}
}

func logFromRecord(r record) (*entity.LogEntry, error) {
	ts, err := parseTimestamp(r.get("data_hora"))
	if err != nil {
		return nil, err
	}
	return &entity.LogEntry{
		Timestamp:   ts,
		Action:      entity.ParseActionKind(r.get("tipo_acao")),
		SaleID:      r.get("id_venda"),
		Description: r.get("descricao"),
	}, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(repository.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(repository.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("columna data: %q no es dd/mm/yyyy", s)
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("columna data_hora: formato desconocido %q", s)
}

func parseDecimal(col, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("columna %s: %q no es numérico", col, s)
	}
	return d, nil
}
