package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx). La clave (name, serial_number) está protegida por un
// índice único NULLS NOT DISTINCT: serie NULL es un valor de clave propio.
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockColumns = `id, category, name, serial_number, unit, quantity, ref_key, location, notes, display_id, date_added, created_at, updated_at`

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	var category, unit, refKey, location, notes *string
	var displayID *int
	err := row.Scan(
		&s.ID, &category, &s.Name, &s.SerialNumber, &unit, &s.Quantity,
		&refKey, &location, &notes, &displayID, &s.DateAdded, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		s.Category = *category
	}
	if unit != nil {
		s.Unit = *unit
	}
	if refKey != nil {
		s.RefKey = *refKey
	}
	if location != nil {
		s.Location = *location
	}
	if notes != nil {
		s.Notes = *notes
	}
	if displayID != nil {
		s.DisplayID = *displayID
	}
	return &s, nil
}

// List devuelve todos los registros ordenados por consecutivo visible.
func (r *StockRecordRepo) List() ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records ORDER BY display_id NULLS LAST, name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetByID obtiene un registro por ID. Devuelve nil si no existe.
func (r *StockRecordRepo) GetByID(id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE id = $1`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate resuelve por clave exacta y bloquea la fila (SELECT FOR
// UPDATE). IS NOT DISTINCT FROM hace que serie NULL solo coincida con NULL.
// Devuelve nil si no existe.
func (r *StockRecordRepo) GetForUpdate(name string, serial *string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records
		WHERE name = $1 AND serial_number IS NOT DISTINCT FROM $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, name, serial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// EnsureForUpdate inserta un registro en cero si la clave no existe y
// devuelve la fila bloqueada. Dos entradas concurrentes sobre una clave nueva
// se resuelven en el índice único: una inserta, la otra cae en DO NOTHING y
// bloquea la fila ganadora.
func (r *StockRecordRepo) EnsureForUpdate(name string, serial *string, unit string) (*entity.StockRecord, bool, error) {
	insert := `
		INSERT INTO stock_records (id, name, serial_number, unit, quantity, date_added, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, now(), now(), now())
		ON CONFLICT (name, serial_number) DO NOTHING`
	var unitArg *string
	if unit != "" {
		unitArg = &unit
	}
	tag, err := r.q.Exec(context.Background(), insert, uuid.New().String(), name, serial, unitArg)
	if err != nil {
		return nil, false, fmt.Errorf("ensure stock: %w", err)
	}
	created := tag.RowsAffected() == 1

	rec, err := r.GetForUpdate(name, serial)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		// La fila desapareció entre el insert y el lock; el caller decide.
		return nil, false, domain.ErrConflict
	}
	return rec, created, nil
}

// Create persiste un registro nuevo (alta manual). Clave duplicada devuelve
// domain.ErrDuplicate.
func (r *StockRecordRepo) Create(rec *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (id, category, name, serial_number, unit, quantity, ref_key, location, notes, display_id, date_added, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, nullable(rec.Category), rec.Name, rec.SerialNumber, nullable(rec.Unit),
		rec.Quantity, nullable(rec.RefKey), nullable(rec.Location), nullable(rec.Notes),
		nullableInt(rec.DisplayID), rec.DateAdded, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Update escribe todos los campos mutables del registro.
func (r *StockRecordRepo) Update(rec *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET category = $2, name = $3, serial_number = $4, unit = $5, quantity = $6,
		    ref_key = $7, location = $8, notes = $9, display_id = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, nullable(rec.Category), rec.Name, rec.SerialNumber, nullable(rec.Unit),
		rec.Quantity, nullable(rec.RefKey), nullable(rec.Location), nullable(rec.Notes),
		nullableInt(rec.DisplayID), rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete elimina el registro.
func (r *StockRecordRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
