package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta. Enum abierto: valores desconocidos leídos
// del almacenamiento se conservan tal cual.
type SaleStatus string

// Estados conocidos. Hoy solo se asigna Pending.
const (
	StatusPending SaleStatus = "Pending"
)

// ParseSaleStatus normaliza valores heredados ("Pendente") al estado canónico.
func ParseSaleStatus(s string) SaleStatus {
	switch s {
	case "Pendente", "pending", "Pending":
		return StatusPending
	default:
		return SaleStatus(s)
	}
}

// Sale representa una venta de póliza de seguro sujeta a comisión.
type Sale struct {
	ID               string
	InsuredName      string
	Plate            string
	SaleDate         time.Time // solo fecha, medianoche UTC
	Insurer          string
	NetPremium       decimal.Decimal
	CommissionRate   decimal.Decimal // porcentaje 0-100
	CommissionAmount decimal.Decimal // NetPremium * CommissionRate / 100, 2 decimales
	Status           SaleStatus
	Note             string
}

// Clone devuelve una copia independiente.
func (s *Sale) Clone() *Sale {
	c := *s
	return &c
}
