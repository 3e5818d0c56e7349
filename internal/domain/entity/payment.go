package entity

import "github.com/shopspring/decimal"

// Payment pago aplicado a una venta. SaleID es clave de búsqueda, no propiedad.
type Payment struct {
	ID          string
	SaleID      string
	AmountPaid  decimal.Decimal
	PaymentDate string // texto libre tal como se persiste
	Note        string
}
