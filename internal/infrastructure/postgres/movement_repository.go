package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable
// con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste la cabecera de un documento.
func (r *MovementRepo) Create(doc *entity.MovementDocument) error {
	query := `
		INSERT INTO movements (id, number, kind, date, issued_by, received_by, display_seq, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Number, doc.Kind, doc.Date,
		nullable(doc.IssuedBy), nullable(doc.ReceivedBy),
		doc.DisplaySeq, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// CreateLine persiste una línea atada a su documento.
func (r *MovementRepo) CreateLine(line *entity.MovementLine) error {
	query := `
		INSERT INTO movement_lines (id, movement_id, position, name, serial_number, unit, quantity, ref_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.MovementID, line.Position, line.Name, line.SerialNumber,
		nullable(line.Unit), line.Quantity, line.RefKey, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement line: %w", err)
	}
	return nil
}

const movementColumns = `id, number, kind, date, issued_by, received_by, display_seq, created_at, updated_at`

func scanMovement(row pgx.Row) (*entity.MovementDocument, error) {
	var m entity.MovementDocument
	var issuedBy, receivedBy *string
	err := row.Scan(&m.ID, &m.Number, &m.Kind, &m.Date, &issuedBy, &receivedBy,
		&m.DisplaySeq, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if issuedBy != nil {
		m.IssuedBy = *issuedBy
	}
	if receivedBy != nil {
		m.ReceivedBy = *receivedBy
	}
	return &m, nil
}

// GetByID obtiene la cabecera por ID. Devuelve nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.MovementDocument, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListLines devuelve las líneas de un documento en su orden original.
func (r *MovementRepo) ListLines(movementID string) ([]*entity.MovementLine, error) {
	query := `
		SELECT id, movement_id, position, name, serial_number, unit, quantity, ref_key, created_at
		FROM movement_lines WHERE movement_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		var unit *string
		if err := rows.Scan(&l.ID, &l.MovementID, &l.Position, &l.Name, &l.SerialNumber,
			&unit, &l.Quantity, &l.RefKey, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		if unit != nil {
			l.Unit = *unit
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List devuelve cabeceras ordenadas por fecha descendente.
func (r *MovementRepo) List(limit, offset int) ([]*entity.MovementDocument, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements ORDER BY date DESC, display_seq DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementDocument
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateHeader escribe los campos editables de la cabecera.
func (r *MovementRepo) UpdateHeader(doc *entity.MovementDocument) error {
	query := `
		UPDATE movements
		SET date = $2, issued_by = $3, received_by = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Date, nullable(doc.IssuedBy), nullable(doc.ReceivedBy), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement header: %w", err)
	}
	return nil
}

// DeleteLines elimina todas las líneas de un documento.
func (r *MovementRepo) DeleteLines(movementID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movement_lines WHERE movement_id = $1`, movementID)
	if err != nil {
		return fmt.Errorf("delete movement lines: %w", err)
	}
	return nil
}

// Delete elimina la cabecera.
func (r *MovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// NextDisplaySeq toma el siguiente valor de la secuencia dedicada. A
// diferencia del max+1 leído-y-escrito, nextval es atómico bajo concurrencia.
func (r *MovementRepo) NextDisplaySeq() (int64, error) {
	var seq int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('movements_display_seq')`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next display seq: %w", err)
	}
	return seq, nil
}
