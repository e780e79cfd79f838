package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// stockSnapshot es la vista de un registro de stock que queda en auditoría.
type stockSnapshot struct {
	Name         string          `json:"name"`
	SerialNumber *string         `json:"serial_number"`
	Quantity     decimal.Decimal `json:"quantity"`
}

func snapshotStock(rec *entity.StockRecord) *stockSnapshot {
	return &stockSnapshot{
		Name:         rec.Name,
		SerialNumber: rec.SerialNumber,
		Quantity:     rec.Quantity,
	}
}

// documentSnapshot es la vista de cabecera que queda en auditoría al crear o
// eliminar un documento.
type documentSnapshot struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	Kind       string    `json:"kind"`
	Date       time.Time `json:"date"`
	Issuer     string    `json:"issuer,omitempty"`
	Receiver   string    `json:"receiver,omitempty"`
	DisplaySeq int64     `json:"display_seq"`
	ItemsCount int       `json:"items_count"`
}

func snapshotDocument(doc *entity.MovementDocument, itemsCount int) *documentSnapshot {
	return &documentSnapshot{
		ID:         doc.ID,
		Number:     doc.Number,
		Kind:       doc.Kind,
		Date:       doc.Date,
		Issuer:     doc.IssuedBy,
		Receiver:   doc.ReceivedBy,
		DisplaySeq: doc.DisplaySeq,
		ItemsCount: itemsCount,
	}
}

// headerSnapshot es la vista usada por la actualización de cabecera (sin
// conteo de líneas, con ambos timestamps del documento).
type headerSnapshot struct {
	ID       string    `json:"id"`
	Number   string    `json:"number"`
	Kind     string    `json:"kind"`
	Date     time.Time `json:"date"`
	Issuer   string    `json:"issuer,omitempty"`
	Receiver string    `json:"receiver,omitempty"`
}

func snapshotHeader(doc *entity.MovementDocument) *headerSnapshot {
	return &headerSnapshot{
		ID:       doc.ID,
		Number:   doc.Number,
		Kind:     doc.Kind,
		Date:     doc.Date,
		Issuer:   doc.IssuedBy,
		Receiver: doc.ReceivedBy,
	}
}

// auditEntry arma una entrada de auditoría serializando los snapshots. Un
// snapshot nil queda como valor nulo (create sin anterior, delete sin
// posterior).
func auditEntry(ent, action string, oldV, newV any, userID string, now time.Time) *entity.AuditEntry {
	e := &entity.AuditEntry{
		ID:        uuid.New().String(),
		Entity:    ent,
		Action:    action,
		CreatedAt: now,
	}
	if userID != "" {
		e.UserID = &userID
	}
	if oldV != nil {
		e.OldValue, _ = json.Marshal(oldV)
	}
	if newV != nil {
		e.NewValue, _ = json.Marshal(newV)
	}
	return e
}
