package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatusChanged is published after a transition has been committed.
type StatusChanged struct {
	ID         uuid.UUID  `json:"id"`
	OrderID    OrderID    `json:"orderId"`
	FromStatus Status     `json:"fromStatus"`
	ToStatus   Status     `json:"toStatus"`
	Department Department `json:"department"`
	ChangedBy  string     `json:"changedBy,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

func NewStatusChanged(item *StatusHistoryItem) *StatusChanged {
	return &StatusChanged{
		ID:         uuid.New(),
		OrderID:    item.OrderID,
		FromStatus: item.FromStatus,
		ToStatus:   item.ToStatus,
		Department: item.ChangedByDepartment,
		ChangedBy:  item.ChangedBy,
		Notes:      item.Notes,
		OccurredAt: item.CreatedAt,
	}
}

// RoutingKey lets consumers bind per department or per target status,
// e.g. "order.status.warehouse.*" or "order.status.*.completed".
func (e *StatusChanged) RoutingKey() string {
	return fmt.Sprintf("order.status.%s.%s", e.Department, e.ToStatus)
}
