package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la existencia actual de un equipo TSO, identificado
// por la clave (Name, SerialNumber). Un registro sin serie es una clave
// distinta de cualquier serie concreta, nunca un comodín.
//
// El registro se crea con la primera entrada que referencia una clave nueva y
// se elimina cuando una salida deja la cantidad exactamente en cero; una
// entrada posterior lo recrea desde cero.
type StockRecord struct {
	ID           string
	Category     string
	Name         string
	SerialNumber *string
	Unit         string
	Quantity     decimal.Decimal // invariante: >= 0
	RefKey       string          // clave de correlación de la última línea que tocó el registro
	Location     string
	Notes        string
	DisplayID    int
	DateAdded    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeSerial unifica la representación opcional de la serie en el borde:
// nil, cadena vacía y espacios en blanco se tratan como "sin serie" (nil).
func NormalizeSerial(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SameSerial compara dos series opcionales: nil solo coincide con nil.
func SameSerial(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
