package domain

import "fmt"

// Client-facing messages.
const (
	MsgMissingFields    = "Faltan datos requeridos o el detalle no es válido."
	MsgInvalidStatus    = "Estado no válido."
	MsgInvalidDate      = "La fecha debe tener el formato YYYY-MM-DD."
	MsgOrderNotFound    = "Orden no encontrada."
	MsgOrderNotPending  = "Solo se puede eliminar una orden en estado pendiente."
	MsgPersistenceError = "Error interno del servidor."
)

// ValidationError reports missing or invalid input. It maps to a client error.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that the referenced order does not exist.
type NotFoundError struct {
	Number string
}

func NewNotFoundError(number string) *NotFoundError {
	return &NotFoundError{Number: number}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %q not found", e.Number)
}

// PersistenceError wraps any failure surfaced by the store.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Message returns the underlying store message, or a generic one when none is available.
func (e *PersistenceError) Message() string {
	if e.Err == nil || e.Err.Error() == "" {
		return MsgPersistenceError
	}
	return e.Err.Error()
}
