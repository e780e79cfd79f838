package repository

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// AuditFilter criterios de consulta sobre el log de auditoría.
type AuditFilter struct {
	Entity string
	Action string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// AuditRepository define el puerto del log de auditoría. Un adaptador atado a
// una transacción comparte la unidad de trabajo del caller: si este hace
// rollback, la entrada también se descarta.
type AuditRepository interface {
	Create(e *entity.AuditEntry) error
	List(f AuditFilter) ([]*entity.AuditEntry, error)
}
