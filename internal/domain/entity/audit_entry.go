package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditables.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// Entidades auditadas.
const (
	AuditEntityStock    = "stock_record"
	AuditEntityMovement = "movement"
	AuditEntityUser     = "user"
)

// AuditEntry es un registro append-only de una mutación: snapshot anterior y
// posterior en JSON (nil cuando no aplica: create no tiene anterior, delete no
// tiene posterior).
type AuditEntry struct {
	ID        string
	Entity    string
	Action    string
	OldValue  json.RawMessage
	NewValue  json.RawMessage
	UserID    *string
	CreatedAt time.Time
}
