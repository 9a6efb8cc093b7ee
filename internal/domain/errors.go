package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInvalidState      = errors.New("transición inválida para el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto de concurrencia")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// ValidationError agrupa errores de validación por campo. Envuelve ErrInvalidInput
// para que los handlers puedan mapearlo con errors.Is sin perder el detalle.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError con un solo campo.
func NewValidationError(field, detail string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: detail}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError señala la primera línea cuya cantidad excede el stock
// disponible al momento de la verificación atómica. Envuelve ErrInsufficientStock.
type InsufficientStockError struct {
	ItemID    string
	SKU       string
	Name      string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (%s): solicitado %d, disponible %d",
		e.Name, e.SKU, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
