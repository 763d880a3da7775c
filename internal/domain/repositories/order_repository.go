package repositories

import (
	"context"

	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
)

type OrderRepository interface {
	// GetOrderForUpdate locks the order row until the surrounding
	// transaction ends.
	GetOrderForUpdate(context.Context, entities.OrderID) (*entities.Order, error)
	GetOrderByID(context.Context, entities.OrderID) (*entities.Order, error)
	// UpdateStatus moves the order to the next status only if it still has
	// the expected one.
	UpdateStatus(ctx context.Context, id entities.OrderID, expected, next entities.Status) (*entities.Order, error)
	GetOrdersByStatuses(context.Context, []entities.Status) ([]*entities.Order, error)
}

type HistoryRepository interface {
	SaveHistoryItem(context.Context, *entities.StatusHistoryItem) error
	// GetHistory returns records ordered by creation time ascending.
	GetHistory(context.Context, entities.OrderID) ([]*entities.StatusHistoryItem, error)
}
