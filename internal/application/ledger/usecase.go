package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

// UseCase es el motor del libro de inventario: aplica documentos de
// movimiento (entradas y salidas) sobre los registros de stock de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y auditoría de cada
// mutación dentro de la misma unidad de trabajo.
type UseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository // lecturas fuera de transacción
}

// NewUseCase construye el motor.
func NewUseCase(txRunner TxRunner, movements repository.MovementRepository) *UseCase {
	return &UseCase{txRunner: txRunner, movements: movements}
}

// ApplyMovement crea el documento con sus líneas y aplica los deltas de stock
// en una sola transacción. Cualquier fallo de validación o de stock en
// cualquier línea descarta todo: cabecera, líneas, deltas ya aplicados y
// entradas de auditoría.
func (uc *UseCase) ApplyMovement(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if in.Number == "" || !entity.ValidMovementKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil || date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for i, item := range in.Items {
		if item.Name == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, &domain.LineError{Line: i + 1, Err: domain.ErrInvalidInput}
		}
	}

	now := time.Now()
	doc := &entity.MovementDocument{
		ID:         uuid.New().String(),
		Number:     in.Number,
		Kind:       in.Kind,
		Date:       date,
		IssuedBy:   in.Issuer,
		ReceivedBy: in.Receiver,
		DisplaySeq: in.DisplaySeq,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var resp *dto.MovementResponse
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRecordRepository,
		auditRepo repository.AuditRepository,
	) error {
		// La cabecera primero: las líneas referencian su identidad.
		if doc.DisplaySeq <= 0 {
			seq, err := movRepo.NextDisplaySeq()
			if err != nil {
				return err
			}
			doc.DisplaySeq = seq
		}
		if err := movRepo.Create(doc); err != nil {
			return err
		}

		lines := make([]*entity.MovementLine, 0, len(in.Items))
		for i, item := range in.Items {
			pos := i + 1
			line := &entity.MovementLine{
				ID:           uuid.New().String(),
				MovementID:   doc.ID,
				Position:     pos,
				Name:         item.Name,
				SerialNumber: entity.NormalizeSerial(item.SerialNumber),
				Unit:         item.Unit,
				Quantity:     item.Quantity,
				RefKey:       entity.LineRefKey(doc.ID, pos),
				CreatedAt:    now,
			}
			if err := movRepo.CreateLine(line); err != nil {
				return fmt.Errorf("línea %d: %w", pos, err)
			}

			var err error
			switch doc.Kind {
			case entity.MovementKindReceipt:
				err = uc.applyReceipt(stockRepo, auditRepo, line, userID, now)
			case entity.MovementKindIssue:
				err = uc.applyIssue(stockRepo, auditRepo, line, userID, now)
			}
			if err != nil {
				return &domain.LineError{Line: pos, Err: err}
			}
			lines = append(lines, line)
		}

		// Una sola entrada por el documento, después de todas las líneas.
		if err := auditRepo.Create(auditEntry(
			entity.AuditEntityMovement, entity.AuditActionCreate,
			nil, snapshotDocument(doc, len(lines)), userID, now,
		)); err != nil {
			return err
		}

		resp = dto.ToMovementResponse(doc, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// applyReceipt incrementa el stock de la clave de la línea, creando el
// registro en cero si no existe (find-or-create a prueba de carreras).
func (uc *UseCase) applyReceipt(
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
	rec.RefKey = line.RefKey
	if rec.Unit == "" {
		rec.Unit = line.Unit
	}
	if created {
		rec.DisplayID = line.Position
	}
	rec.UpdatedAt = now
	if err := stockRepo.Update(rec); err != nil {
		return err
	}

	return auditRepo.Create(auditEntry(
		entity.AuditEntityStock, action, oldV, snapshotStock(rec), userID, now,
	))
}

// applyIssue verifica disponibilidad y descuenta, con la fila bloqueada para
// que chequeo y decremento sean atómicos frente a salidas concurrentes. Si la
// cantidad queda exactamente en cero el registro se elimina; la entrada de
// auditoría igualmente refleja el valor final antes de la eliminación.
func (uc *UseCase) applyIssue(
	stockRepo repository.StockRecordRepository,
	auditRepo repository.AuditRepository,
	line *entity.MovementLine,
	userID string, now time.Time,
) error {
	rec, err := stockRepo.GetForUpdate(line.Name, line.SerialNumber)
	if err != nil {
		return err
	}
	if rec == nil {
		return &domain.StockNotFoundError{Name: line.Name, SerialNumber: line.SerialNumber}
	}
	if rec.Quantity.LessThan(line.Quantity) {
		return &domain.InsufficientStockError{
			Name:         line.Name,
			SerialNumber: line.SerialNumber,
			Available:    rec.Quantity,
			Requested:    line.Quantity,
		}
	}

	oldV := snapshotStock(rec)
	rec.Quantity = rec.Quantity.Sub(line.Quantity)
	rec.UpdatedAt = now

	if rec.Quantity.IsZero() {
		if err := stockRepo.Delete(rec.ID); err != nil {
			return err
		}
	} else {
		if err := stockRepo.Update(rec); err != nil {
			return err
		}
	}

	return auditRepo.Create(auditEntry(
		entity.AuditEntityStock, entity.AuditActionUpdate, oldV, snapshotStock(rec), userID, now,
	))
}
