// Package stock implementa el CRUD manual de equipos TSO sobre los registros
// de stock, con auditoría de cada mutación en la misma transacción. Las
// cantidades que resultan de documentos de movimiento las administra el motor
// del libro (application/ledger); este paquete cubre el alta y la corrección
// manual.
package stock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/application/ledger"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

// UseCase CRUD de registros de stock.
type UseCase struct {
	txRunner ledger.TxRunner
	stocks   repository.StockRecordRepository // lecturas fuera de transacción
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ledger.TxRunner, stocks repository.StockRecordRepository) *UseCase {
	return &UseCase{txRunner: txRunner, stocks: stocks}
}

// List devuelve todos los registros ordenados por consecutivo visible.
func (uc *UseCase) List(ctx context.Context) ([]*dto.StockRecordResponse, error) {
	recs, err := uc.stocks.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.ToStockRecordResponse(r))
	}
	return out, nil
}

// Create da de alta un equipo manualmente. La clave (nombre, serie) debe ser
// nueva; la cantidad no puede ser negativa.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateStockRecordRequest) (*dto.StockRecordResponse, error) {
	if in.Name == "" || in.Quantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	rec := &entity.StockRecord{
		ID:           uuid.New().String(),
		Category:     in.Category,
		Name:         in.Name,
		SerialNumber: entity.NormalizeSerial(in.SerialNumber),
		Unit:         in.Unit,
		Quantity:     in.Quantity,
		Location:     in.Location,
		Notes:        in.Notes,
		DisplayID:    in.DisplayID,
		DateAdded:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockRecordRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := stockRepo.Create(rec); err != nil {
			return err
		}
		return auditRepo.Create(auditFor(entity.AuditActionCreate, nil, rec, userID, now))
	})
	if err != nil {
		return nil, err
	}
	return dto.ToStockRecordResponse(rec), nil
}

// Update corrige campos de un registro existente. Campos nil no cambian; la
// cantidad resultante no puede ser negativa.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.UpdateStockRecordRequest) (*dto.StockRecordResponse, error) {
	if in.Quantity != nil && in.Quantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var rec *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockRecordRepository,
		auditRepo repository.AuditRepository,
	) error {
		var err error
		rec, err = stockRepo.GetByID(id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		old := *rec

		if in.Category != nil {
			rec.Category = *in.Category
		}
		if in.Name != nil {
			rec.Name = *in.Name
		}
		if in.SerialNumber != nil {
			rec.SerialNumber = entity.NormalizeSerial(in.SerialNumber)
		}
		if in.Unit != nil {
			rec.Unit = *in.Unit
		}
		if in.Quantity != nil {
			rec.Quantity = *in.Quantity
		}
		if in.Location != nil {
			rec.Location = *in.Location
		}
		if in.Notes != nil {
			rec.Notes = *in.Notes
		}
		if in.DisplayID != nil {
			rec.DisplayID = *in.DisplayID
		}
		rec.UpdatedAt = now

		if err := stockRepo.Update(rec); err != nil {
			return err
		}
		return auditRepo.Create(auditFor(entity.AuditActionUpdate, &old, rec, userID, now))
	})
	if err != nil {
		return nil, err
	}
	return dto.ToStockRecordResponse(rec), nil
}

// Delete elimina un registro manualmente.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockRecordRepository,
		auditRepo repository.AuditRepository,
	) error {
		rec, err := stockRepo.GetByID(id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if err := stockRepo.Delete(id); err != nil {
			return err
		}
		return auditRepo.Create(auditFor(entity.AuditActionDelete, rec, nil, userID, now))
	})
}

// auditFor serializa los snapshots completos del registro para la entrada.
func auditFor(action string, oldRec, newRec *entity.StockRecord, userID string, now time.Time) *entity.AuditEntry {
	e := &entity.AuditEntry{
		ID:        uuid.New().String(),
		Entity:    entity.AuditEntityStock,
		Action:    action,
		CreatedAt: now,
	}
	if userID != "" {
		e.UserID = &userID
	}
	if oldRec != nil {
		e.OldValue, _ = json.Marshal(dto.ToStockRecordResponse(oldRec))
	}
	if newRec != nil {
		e.NewValue, _ = json.Marshal(dto.ToStockRecordResponse(newRec))
	}
	return e
}
