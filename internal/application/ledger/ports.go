package ledger

import (
	"context"

	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza el todo-o-nada del motor: si fn
// devuelve error se descarta cada cambio hecho dentro de la llamada, incluidas
// las entradas de auditoría.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRecordRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// MovementPDFGenerator genera la representación imprimible de un documento
// de movimiento con sus renglones.
type MovementPDFGenerator interface {
	GenerateMovementPDF(ctx context.Context, doc *entity.MovementDocument, lines []*entity.MovementLine) ([]byte, error)
}
