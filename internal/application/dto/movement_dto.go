package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// MovementLineRequest línea del body de POST /api/invoices.
type MovementLineRequest struct {
	Name         string          `json:"name"`
	SerialNumber *string         `json:"serial_number,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// CreateMovementRequest body de POST /api/invoices.
// Date acepta "2006-01-02" o RFC 3339; DisplaySeq en cero delega el
// consecutivo a la secuencia del servidor.
type CreateMovementRequest struct {
	Number     string                `json:"number"`
	Kind       string                `json:"kind"`
	Date       string                `json:"date"`
	Issuer     string                `json:"issuer,omitempty"`
	Receiver   string                `json:"receiver,omitempty"`
	DisplaySeq int64                 `json:"display_seq,omitempty"`
	Items      []MovementLineRequest `json:"items"`
}

// UpdateMovementRequest body de PUT /api/invoices/:id. Solo fecha y
// participantes son editables; cualquier otro campo se ignora.
type UpdateMovementRequest struct {
	Date     *string `json:"date,omitempty"`
	Issuer   *string `json:"issuer,omitempty"`
	Receiver *string `json:"receiver,omitempty"`
}

// MovementLineResponse proyección de una línea creada.
type MovementLineResponse struct {
	ID           string          `json:"id"`
	Position     int             `json:"position"`
	Name         string          `json:"name"`
	SerialNumber *string         `json:"serial_number,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	RefKey       string          `json:"ref_key"`
}

// MovementResponse proyección de un documento con sus líneas.
type MovementResponse struct {
	ID         string                 `json:"id"`
	Number     string                 `json:"number"`
	Kind       string                 `json:"kind"`
	Date       time.Time              `json:"date"`
	Issuer     string                 `json:"issuer,omitempty"`
	Receiver   string                 `json:"receiver,omitempty"`
	DisplaySeq int64                  `json:"display_seq"`
	Items      []MovementLineResponse `json:"items"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ToMovementResponse arma la proyección a partir de las entidades.
func ToMovementResponse(doc *entity.MovementDocument, lines []*entity.MovementLine) *MovementResponse {
	items := make([]MovementLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, MovementLineResponse{
			ID:           l.ID,
			Position:     l.Position,
			Name:         l.Name,
			SerialNumber: l.SerialNumber,
			Unit:         l.Unit,
			Quantity:     l.Quantity,
			RefKey:       l.RefKey,
		})
	}
	return &MovementResponse{
		ID:         doc.ID,
		Number:     doc.Number,
		Kind:       doc.Kind,
		Date:       doc.Date,
		Issuer:     doc.IssuedBy,
		Receiver:   doc.ReceivedBy,
		DisplaySeq: doc.DisplaySeq,
		Items:      items,
		CreatedAt:  doc.CreatedAt,
	}
}

// ParseDate interpreta la fecha del body: primero "2006-01-02" (formato del
// frontend), luego RFC 3339. Cadena vacía devuelve el zero value.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
