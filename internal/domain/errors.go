package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNoFieldsToUpdate   = errors.New("sin campos para actualizar")
	ErrUserAlreadyExists  = errors.New("el usuario ya está registrado")
)

// LineError identifica la línea (posición 1-based) de un documento que hizo
// fallar la operación completa.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// StockNotFoundError señala que una salida referencia un registro de stock
// inexistente para la clave (nombre, serie).
type StockNotFoundError struct {
	Name         string
	SerialNumber *string
}

func (e *StockNotFoundError) Error() string {
	return fmt.Sprintf("equipo %q (serie %s) no existe en el inventario", e.Name, serialLabel(e.SerialNumber))
}

func (e *StockNotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError señala que una salida excede la cantidad disponible.
// Reporta la cantidad disponible al momento de la verificación.
type InsufficientStockError struct {
	Name         string
	SerialNumber *string
	Available    decimal.Decimal
	Requested    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %q (serie %s): disponible %s, solicitado %s",
		e.Name, serialLabel(e.SerialNumber), e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

func serialLabel(s *string) string {
	if s == nil {
		return "sin serie"
	}
	return *s
}
