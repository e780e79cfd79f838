package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de movimiento.
const (
	MovementKindReceipt = "receipt" // entrada: incrementa stock
	MovementKindIssue   = "issue"   // salida: descuenta stock
)

// ValidMovementKind indica si el tipo es uno de los soportados.
func ValidMovementKind(kind string) bool {
	return kind == MovementKindReceipt || kind == MovementKindIssue
}

// MovementDocument es la cabecera de una factura/nota de movimiento. Una vez
// aplicados sus efectos sobre el stock el documento es inmutable salvo los
// metadatos de cabecera (fecha y participantes).
type MovementDocument struct {
	ID         string
	Number     string // número externo; no se garantiza único
	Kind       string
	Date       time.Time
	IssuedBy   string // quien entrega
	ReceivedBy string // quien recibe
	DisplaySeq int64  // consecutivo visible, asignado desde una secuencia atómica
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MovementLine es una línea de un documento, propiedad exclusiva de su
// cabecera (se elimina en cascada). La cantidad queda fija en la creación.
type MovementLine struct {
	ID           string
	MovementID   string
	Position     int // posición 1-based dentro del documento
	Name         string
	SerialNumber *string
	Unit         string
	Quantity     decimal.Decimal // > 0
	RefKey       string
	CreatedAt    time.Time
}

// LineRefKey deriva la clave de correlación línea -> registro de stock.
// Es una relación débil: la clave puede apuntar a un registro ya eliminado
// (cantidad llegó a cero) y eso no es un error.
func LineRefKey(movementID string, position int) string {
	return fmt.Sprintf("doc-%s-%d", movementID, position)
}
