package repository

import "github.com/jhoicas/activos-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia para documentos de
// movimiento y sus líneas.
type MovementRepository interface {
	Create(doc *entity.MovementDocument) error
	CreateLine(line *entity.MovementLine) error
	GetByID(id string) (*entity.MovementDocument, error)
	ListLines(movementID string) ([]*entity.MovementLine, error)
	List(limit, offset int) ([]*entity.MovementDocument, error)
	UpdateHeader(doc *entity.MovementDocument) error
	DeleteLines(movementID string) error
	Delete(id string) error
	// NextDisplaySeq devuelve el siguiente consecutivo visible desde una
	// secuencia atómica (no max+1, que pierde bajo concurrencia).
	NextDisplaySeq() (int64, error)
}
