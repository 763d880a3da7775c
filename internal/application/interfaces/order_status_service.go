package interfaces

import (
	"context"

	"github.com/KretovDmitry/order-workflow/internal/application/params"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
)

// OrderStatusService represents all order status actions.
type OrderStatusService interface {
	GetValidTransitions(context.Context, entities.OrderID, entities.Department) ([]entities.Status, error)
	ChangeStatus(context.Context, *params.ChangeStatus) (*entities.Order, error)
	Review(context.Context, *params.Review) (*entities.Order, error)
	GetHistory(context.Context, entities.OrderID) ([]*entities.StatusHistoryItem, error)
	GetDepartmentOrders(context.Context, entities.Department) ([]*entities.Order, error)
}

// EventPublisher delivers committed transitions to other services.
type EventPublisher interface {
	Publish(context.Context, *entities.StatusChanged) error
	Close() error
}
