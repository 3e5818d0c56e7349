package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest entrada del formulario de nueva venta.
// SaleDate en dd/mm/yyyy; vacío = fecha de hoy.
type CreateSaleRequest struct {
	InsuredName    string          `json:"insured_name" validate:"required"`
	Plate          string          `json:"plate"`
	SaleDate       string          `json:"sale_date"`
	Insurer        string          `json:"insurer"`
	NetPremium     decimal.Decimal `json:"net_premium" validate:"gte=0"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"gte=0,lte=100"`
	Note           string          `json:"note"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID               string          `json:"id"`
	InsuredName      string          `json:"insured_name"`
	Plate            string          `json:"plate"`
	SaleDate         string          `json:"sale_date"`
	Insurer          string          `json:"insurer"`
	NetPremium       decimal.Decimal `json:"net_premium"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status"`
	Note             string          `json:"note"`
}

// PaymentResponse salida de un pago asociado.
type PaymentResponse struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentDate string          `json:"payment_date"`
	Note        string          `json:"note"`
}

// SaleDetailResponse vista expandida: venta + pagos.
type SaleDetailResponse struct {
	SaleResponse
	Payments []PaymentResponse `json:"payments"`
}

// DeleteConfirmation primer paso de la exclusión: token de un solo uso.
type DeleteConfirmation struct {
	Token       string    `json:"token"`
	SaleID      string    `json:"sale_id"`
	InsuredName string    `json:"insured_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// DeleteResult resultado de la exclusión confirmada.
type DeleteResult struct {
	SaleID          string `json:"sale_id"`
	InsuredName     string `json:"insured_name"`
	PaymentsRemoved int    `json:"payments_removed"`
}

// SummaryResponse totales del tablero.
type SummaryResponse struct {
	Quantity        int             `json:"quantity"`
	TotalPremium    decimal.Decimal `json:"total_premium"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	Pending         int             `json:"pending"`
}
