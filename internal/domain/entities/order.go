package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderID int64

// Order is read and written by the status service only through its status.
// Everything else about it is owned by the storefront.
type Order struct {
	ID        OrderID
	Number    string
	Customer  string
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusHistoryItem is an immutable record of a committed transition.
type StatusHistoryItem struct {
	ID                  int64
	OrderID             OrderID
	FromStatus          Status
	ToStatus            Status
	ChangedByDepartment Department
	ChangedBy           string
	Notes               string
	CreatedAt           time.Time
}

// NewStatusHistoryItem creates a history record for the move from -> to.
func NewStatusHistoryItem(
	id OrderID, from, to Status, dept Department, changedBy, notes string,
) *StatusHistoryItem {
	return &StatusHistoryItem{
		OrderID:             id,
		FromStatus:          from,
		ToStatus:            to,
		ChangedByDepartment: dept,
		ChangedBy:           changedBy,
		Notes:               notes,
	}
}
