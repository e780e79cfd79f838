package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

// DeleteMovement elimina un documento revirtiendo su efecto sobre el stock.
// Solo las salidas tienen reversa: cada línea devuelve su cantidad al registro
// que hoy representa la clave (nombre, serie), creándolo si ya no existe. La
// reversa no usa la clave de correlación original: reengancha por nombre y
// serie, que puede ser un lote distinto al descontado. Eliminar una entrada
// no tiene efecto de inventario.
func (uc *UseCase) DeleteMovement(ctx context.Context, userID, id string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRecordRepository,
		auditRepo repository.AuditRepository,
	) error {
		doc, err := movRepo.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		lines, err := movRepo.ListLines(id)
		if err != nil {
			return err
		}

		if doc.Kind == entity.MovementKindIssue {
			for _, line := range lines {
				if err := uc.returnToStock(stockRepo, auditRepo, line, userID, now); err != nil {
					return err
				}
			}
		}

		if err := movRepo.DeleteLines(id); err != nil {
			return err
		}
		if err := movRepo.Delete(id); err != nil {
			return err
		}

		return auditRepo.Create(auditEntry(
			entity.AuditEntityMovement, entity.AuditActionDelete,
			snapshotDocument(doc, len(lines)), nil, userID, now,
		))
	})
}

// returnToStock devuelve la cantidad de una línea de salida al inventario
// (espejo del incremento de una entrada).
func (uc *UseCase) returnToStock(
	stockRepo repository.StockRecordRepository,
	auditRepo repository.AuditRepository,
	line *entity.MovementLine,
	userID string, now time.Time,
) error {
	rec, created, err := stockRepo.EnsureForUpdate(line.Name, line.SerialNumber, line.Unit)
	if err != nil {
		return err
	}

	var oldV any
	action := entity.AuditActionCreate
	if !created {
		oldV = snapshotStock(rec)
		action = entity.AuditActionUpdate
	}

	rec.Quantity = rec.Quantity.Add(line.Quantity)
	if rec.Unit == "" {
		rec.Unit = line.Unit
	}
	rec.UpdatedAt = now
	if err := stockRepo.Update(rec); err != nil {
		return err
	}

	return auditRepo.Create(auditEntry(
		entity.AuditEntityStock, action, oldV, snapshotStock(rec), userID, now,
	))
}
