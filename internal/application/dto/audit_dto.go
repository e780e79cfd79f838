package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// AuditQueryRequest filtros de GET /api/logs.
type AuditQueryRequest struct {
	Entity    string `query:"entity"`
	Action    string `query:"action"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Limit     int    `query:"limit"`
}

// AuditEntryResponse proyección de una entrada del log.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Entity    string          `json:"entity"`
	Action    string          `json:"action"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	UserID    *string         `json:"user_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToAuditEntryResponse arma la proyección a partir de la entidad.
func ToAuditEntryResponse(e *entity.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID,
		Entity:    e.Entity,
		Action:    e.Action,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		UserID:    e.UserID,
		Timestamp: e.CreatedAt,
	}
}
