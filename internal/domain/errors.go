package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("venta no encontrada")
	ErrValidation           = errors.New("entrada inválida")
	ErrPersistence          = errors.New("error de persistencia")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrConfirmationNotFound = errors.New("confirmación de exclusión inexistente")
	ErrConfirmationExpired  = errors.New("confirmación de exclusión expirada")
	ErrStoreLocked          = errors.New("el almacenamiento está en uso por otra instancia")
)

// ValidationError detalla los campos rechazados (campo -> regla).
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye el error con un único campo.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for f, r := range e.Fields {
		parts = append(parts, f+"="+r)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PersistenceError envuelve fallos del almacenamiento de una tabla.
// La operación queda abortada; el estado en memoria no se actualiza.
type PersistenceError struct {
	Table string
	Op    string // load | persist
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrPersistence, e.Op, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
