package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores del motor de orçamentos. Cada uno tiene su propia política de propagación:
// ErrValidation bloquea el commit y deja el borrador en edición, ErrLookup se absorbe
// dentro de AddService, ErrPersistence se informa al usuario conservando el borrador y
// ErrRemoval indica un borrado de venta incompleto.
var (
	ErrValidation   = errors.New("orçamento inválido")
	ErrLookup       = errors.New("consulta de catálogo fallida")
	ErrPersistence  = errors.New("no se pudo guardar el orçamento")
	ErrRemoval      = errors.New("no se pudo eliminar el orçamento")
	ErrDraftClosed  = errors.New("el borrador ya fue guardado o descartado")
	ErrLineNotFound = errors.New("línea inexistente")
)
