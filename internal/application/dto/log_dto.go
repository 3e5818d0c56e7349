package dto

import "time"

// LogEntryResponse entrada de auditoría.
type LogEntryResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	SaleID      string    `json:"sale_id"`
	Description string    `json:"description"`
}
