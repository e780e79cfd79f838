package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del log de auditoría sobre PostgreSQL. Atado a una
// tx comparte la unidad de trabajo del caller; sobre el pool escribe
// independiente.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta una entrada (append-only; no hay update ni delete).
func (r *AuditRepo) Create(e *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (id, entity, action, old_value, new_value, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var oldV, newV any
	if len(e.OldValue) > 0 {
		oldV = []byte(e.OldValue)
	}
	if len(e.NewValue) > 0 {
		newV = []byte(e.NewValue)
	}
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Entity, e.Action, oldV, newV, e.UserID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List devuelve las entradas más recientes según el filtro.
func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, entity, action, old_value, new_value, user_id, created_at
		FROM audit_entries WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Entity != "" {
		query += fmt.Sprintf(" AND entity = $%d", pos)
		args = append(args, f.Entity)
		pos++
	}
	if f.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", pos)
		args = append(args, f.Action)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, f.Limit)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var oldV, newV []byte
		if err := rows.Scan(&e.ID, &e.Entity, &e.Action, &oldV, &newV, &e.UserID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.OldValue = oldV
		e.NewValue = newV
		list = append(list, &e)
	}
	return list, rows.Err()
}
