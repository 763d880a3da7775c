package response

import (
	"time"

	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          entities.OrderID `json:"id"`
	Number      string           `json:"number"`
	Customer    string           `json:"customer"`
	Total       decimal.Decimal  `json:"total"`
	Status      entities.Status  `json:"status"`
	StatusLabel string           `json:"statusLabel"`
	StatusColor string           `json:"statusColor"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func NewOrderFromEntity(e *entities.Order) *Order {
	return &Order{
		ID:          e.ID,
		Number:      e.Number,
		Customer:    e.Customer,
		Total:       e.Total,
		Status:      e.Status,
		StatusLabel: e.Status.Label(),
		StatusColor: e.Status.Color(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type ChangeStatus struct {
	Success      bool   `json:"success"`
	UpdatedOrder *Order `json:"updatedOrder"`
}

type Transitions struct {
	OrderID     entities.OrderID    `json:"orderId"`
	Department  entities.Department `json:"department"`
	Tab         string              `json:"tab"`
	Transitions []entities.Status   `json:"transitions"`
}

type HistoryItem struct {
	FromStatus          entities.Status     `json:"fromStatus"`
	ToStatus            entities.Status     `json:"toStatus"`
	ChangedByDepartment entities.Department `json:"changedByDepartment"`
	ChangedBy           string              `json:"changedBy"`
	Notes               string              `json:"notes,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
}

func NewHistoryItemFromEntity(e *entities.StatusHistoryItem) *HistoryItem {
	return &HistoryItem{
		FromStatus:          e.FromStatus,
		ToStatus:            e.ToStatus,
		ChangedByDepartment: e.ChangedByDepartment,
		ChangedBy:           e.ChangedBy,
		Notes:               e.Notes,
		CreatedAt:           e.CreatedAt,
	}
}
