package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso agregan contexto con fmt.Errorf("%w: ...") y la capa HTTP
// decide el status con errors.Is.
var (
	ErrValidation        = errors.New("datos inválidos")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual del documento")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyDocument     = errors.New("el documento no tiene líneas")
	ErrUnauthorized      = errors.New("no autorizado")
)
