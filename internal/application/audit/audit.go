// Package audit expone la consulta del log de auditoría y un grabador
// fuera-de-banda para eventos que no participan de una transacción.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
	"github.com/jhoicas/activos-api/pkg/logger"
)

const defaultQueryLimit = 100

// Recorder escribe entradas fuera de cualquier transacción. Un fallo del log
// nunca aborta la operación principal del caller: se reporta y se traga. Las
// mutaciones transaccionales no pasan por aquí, escriben con el repositorio
// atado a su tx (y ahí un fallo sí revierte todo).
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewRecorder construye el grabador fuera-de-banda.
func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record serializa los snapshots y persiste la entrada; los errores se
// registran con nivel warn y no se propagan.
func (r *Recorder) Record(ent, action string, oldV, newV any, userID string) {
	e := &entity.AuditEntry{
		ID:        uuid.New().String(),
		Entity:    ent,
		Action:    action,
		CreatedAt: time.Now(),
	}
	if userID != "" {
		e.UserID = &userID
	}
	if oldV != nil {
		e.OldValue, _ = json.Marshal(oldV)
	}
	if newV != nil {
		e.NewValue, _ = json.Marshal(newV)
	}
	if err := r.repo.Create(e); err != nil {
		r.log.Warn().Err(err).
			Str("entity", ent).
			Str("action", action).
			Msg("no se pudo registrar la entrada de auditoría")
	}
}

// QueryUseCase consulta de solo lectura sobre el log.
type QueryUseCase struct {
	repo repository.AuditRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(repo repository.AuditRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// List devuelve las entradas más recientes según los filtros (entidad, acción
// y rango de fechas).
func (uc *QueryUseCase) List(ctx context.Context, in dto.AuditQueryRequest) ([]dto.AuditEntryResponse, error) {
	f := repository.AuditFilter{
		Entity: in.Entity,
		Action: in.Action,
		Limit:  in.Limit,
	}
	if f.Limit <= 0 {
		f.Limit = defaultQueryLimit
	}
	if t, err := dto.ParseDate(in.StartDate); err == nil && !t.IsZero() {
		f.From = &t
	}
	if t, err := dto.ParseDate(in.EndDate); err == nil && !t.IsZero() {
		f.To = &t
	}

	entries, err := uc.repo.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToAuditEntryResponse(e))
	}
	return out, nil
}
