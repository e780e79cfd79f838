package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// CreateStockRecordRequest body de POST /api/tso (alta manual de equipo).
type CreateStockRecordRequest struct {
	Category     string          `json:"category,omitempty"`
	Name         string          `json:"name"`
	SerialNumber *string         `json:"serial_number,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Location     string          `json:"location,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	DisplayID    int             `json:"display_id,omitempty"`
}

// UpdateStockRecordRequest body de PUT /api/tso/:id. Campos en nil no cambian.
type UpdateStockRecordRequest struct {
	Category     *string          `json:"category,omitempty"`
	Name         *string          `json:"name,omitempty"`
	SerialNumber *string          `json:"serial_number,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Location     *string          `json:"location,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	DisplayID    *int             `json:"display_id,omitempty"`
}

// StockRecordResponse proyección de un registro de stock.
type StockRecordResponse struct {
	ID           string          `json:"id"`
	DisplayID    int             `json:"display_id,omitempty"`
	Category     string          `json:"category,omitempty"`
	Name         string          `json:"name"`
	SerialNumber *string         `json:"serial_number,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Location     string          `json:"location,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	DateAdded    time.Time       `json:"date_added"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToStockRecordResponse arma la proyección a partir de la entidad.
func ToStockRecordResponse(r *entity.StockRecord) *StockRecordResponse {
	return &StockRecordResponse{
		ID:           r.ID,
		DisplayID:    r.DisplayID,
		Category:     r.Category,
		Name:         r.Name,
		SerialNumber: r.SerialNumber,
		Unit:         r.Unit,
		Quantity:     r.Quantity,
		Location:     r.Location,
		Notes:        r.Notes,
		DateAdded:    r.DateAdded,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
