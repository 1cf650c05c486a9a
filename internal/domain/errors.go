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

	// ErrDiscountExceedsSubtotal solo con BILLING_REJECT_NEGATIVE_TOTALS; por defecto
	// el total negativo se acepta y se muestra.
	ErrDiscountExceedsSubtotal = errors.New("el descuento supera el subtotal")
)
