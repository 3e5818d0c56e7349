package entity

import "time"

// ActionKind tipo de acción auditada.
type ActionKind string

const (
	ActionRegistration ActionKind = "Registration"
	ActionDeletion     ActionKind = "Deletion"
)

// ParseActionKind acepta también los valores heredados en portugués.
func ParseActionKind(s string) ActionKind {
	switch s {
	case "Cadastro":
		return ActionRegistration
	case "Exclusão":
		return ActionDeletion
	default:
		return ActionKind(s)
	}
}

// LogEntry registro de auditoría inmutable (solo se agrega).
type LogEntry struct {
	Timestamp   time.Time
	Action      ActionKind
	SaleID      string
	Description string
}
