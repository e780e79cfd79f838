package repository

import "github.com/jhoicas/activos-api/internal/domain/entity"

// StockRecordRepository define el puerto de persistencia para registros de
// stock. Las variantes ForUpdate bloquean la fila (SELECT FOR UPDATE) y deben
// usarse dentro de una transacción.
type StockRecordRepository interface {
	List() ([]*entity.StockRecord, error)
	GetByID(id string) (*entity.StockRecord, error)
	// GetForUpdate resuelve por clave exacta (name, serial); serie nil solo
	// coincide con serie nil. Devuelve nil si no existe.
	GetForUpdate(name string, serial *string) (*entity.StockRecord, error)
	// EnsureForUpdate es el find-or-create a prueba de carreras: inserta un
	// registro en cero si la clave no existe (ON CONFLICT DO NOTHING) y
	// devuelve la fila bloqueada. created indica si el registro es nuevo.
	EnsureForUpdate(name string, serial *string, unit string) (rec *entity.StockRecord, created bool, err error)
	Create(rec *entity.StockRecord) error
	Update(rec *entity.StockRecord) error
	Delete(id string) error
}
