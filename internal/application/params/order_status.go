package params

import (
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
)

type ChangeStatus struct {
	OrderID    entities.OrderID
	NewStatus  entities.Status
	Department entities.Department
	Notes      string
	Actor      *staff.Staff
}

func NewChangeStatus(
	id entities.OrderID, next entities.Status, dept entities.Department, notes string, actor *staff.Staff,
) *ChangeStatus {
	return &ChangeStatus{OrderID: id, NewStatus: next, Department: dept, Notes: notes, Actor: actor}
}

type Review struct {
	OrderID entities.OrderID
	Action  entities.ReviewAction
	Notes   string
	Actor   *staff.Staff
}

func NewReview(id entities.OrderID, action entities.ReviewAction, notes string, actor *staff.Staff) *Review {
	return &Review{OrderID: id, Action: action, Notes: notes, Actor: actor}
}
