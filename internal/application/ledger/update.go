package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

// UpdateHeader edita los metadatos mutables de la cabecera: fecha y
// participantes. El resto del documento es inmutable una vez aplicados sus
// efectos de stock; cualquier otro campo del patch se ignora. Sin efecto de
// inventario.
func (uc *UseCase) UpdateHeader(ctx context.Context, userID, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if in.Date == nil && in.Issuer == nil && in.Receiver == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}
	var newDate time.Time
	if in.Date != nil {
		d, err := dto.ParseDate(*in.Date)
		if err != nil || d.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		newDate = d
	}

	now := time.Now()
	var doc *entity.MovementDocument
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.StockRecordRepository,
		auditRepo repository.AuditRepository,
	) error {
		var err error
		doc, err = movRepo.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}

		oldV := snapshotHeader(doc)
		if in.Date != nil {
			doc.Date = newDate
		}
		if in.Issuer != nil {
			doc.IssuedBy = *in.Issuer
		}
		if in.Receiver != nil {
			doc.ReceivedBy = *in.Receiver
		}
		doc.UpdatedAt = now
		if err := movRepo.UpdateHeader(doc); err != nil {
			return err
		}

		return auditRepo.Create(auditEntry(
			entity.AuditEntityMovement, entity.AuditActionUpdate,
			oldV, snapshotHeader(doc), userID, now,
		))
	})
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponse(doc, nil), nil
}

// Get devuelve un documento con sus líneas (lectura, sin transacción).
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.MovementResponse, error) {
	doc, err := uc.movements.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.movements.ListLines(id)
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponse(doc, lines), nil
}

// GetDocument devuelve las entidades crudas del documento y sus líneas, para
// consumidores que necesitan más que la proyección JSON (p. ej. el comprobante
// PDF).
func (uc *UseCase) GetDocument(ctx context.Context, id string) (*entity.MovementDocument, []*entity.MovementLine, error) {
	doc, err := uc.movements.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.movements.ListLines(id)
	if err != nil {
		return nil, nil, err
	}
	return doc, lines, nil
}

// List devuelve los documentos más recientes con sus líneas.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.MovementResponse, error) {
	page.DefaultPage()
	docs, err := uc.movements.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(docs))
	for _, doc := range docs {
		lines, err := uc.movements.ListLines(doc.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ToMovementResponse(doc, lines))
	}
	return out, nil
}
