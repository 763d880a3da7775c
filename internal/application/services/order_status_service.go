package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/application/interfaces"
	"github.com/KretovDmitry/order-workflow/internal/application/params"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
	"github.com/KretovDmitry/order-workflow/internal/domain/repositories"
	"github.com/KretovDmitry/order-workflow/internal/domain/workflow"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
)

// TxManager runs fn in a transaction carried by ctx.
// *manager.Manager of go-transaction-manager satisfies it.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type OrderStatusService struct {
	orders    repositories.OrderRepository
	history   repositories.HistoryRepository
	publisher interfaces.EventPublisher
	trm       TxManager
	logger    logger.Logger
}

func NewOrderStatusService(
	orders repositories.OrderRepository,
	history repositories.HistoryRepository,
	publisher interfaces.EventPublisher,
	trm TxManager,
	logger logger.Logger,
) (*OrderStatusService, error) {
	if orders == nil {
		return nil, errors.New("nil dependency: order repository")
	}
	if history == nil {
		return nil, errors.New("nil dependency: history repository")
	}
	if publisher == nil {
		return nil, errors.New("nil dependency: event publisher")
	}
	if trm == nil {
		return nil, errors.New("nil dependency: transaction manager")
	}
	if logger == nil {
		return nil, errors.New("nil dependency: logger")
	}
	return &OrderStatusService{
		orders:    orders,
		history:   history,
		publisher: publisher,
		trm:       trm,
		logger:    logger,
	}, nil
}

var _ interfaces.OrderStatusService = (*OrderStatusService)(nil)

// Get statuses the department may move the order to.
func (s *OrderStatusService) GetValidTransitions(
	ctx context.Context, id entities.OrderID, dept entities.Department,
) ([]entities.Status, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return workflow.ValidTransitions(dept, order.Status), nil
}

// Move the order to the requested status on behalf of the department.
func (s *OrderStatusService) ChangeStatus(ctx context.Context, p *params.ChangeStatus) (*entities.Order, error) {
	if err := authorize(p.Actor, p.Department); err != nil {
		return nil, err
	}

	plan := func(entities.Status) ([]entities.Status, error) {
		return []entities.Status{p.NewStatus}, nil
	}

	return s.commit(ctx, p.OrderID, p.Department, p.Actor.Login, p.Notes, plan)
}

// Approve or reject the payment of the order.
//
// Approving an uploaded payment passes through financial_reviewing, so the
// history never skips the review stage.
func (s *OrderStatusService) Review(ctx context.Context, p *params.Review) (*entities.Order, error) {
	if err := authorize(p.Actor, entities.Financial); err != nil {
		return nil, err
	}

	plan := func(current entities.Status) ([]entities.Status, error) {
		outcome, ok := workflow.ReviewOutcome(current, p.Action)
		if !ok {
			return nil, fmt.Errorf("%w: order %d is %s", errs.ErrAlreadyProcessed, p.OrderID, current)
		}
		if current == entities.PaymentUploaded && !workflow.CanTransition(entities.Financial, current, outcome) {
			return []entities.Status{entities.FinancialReviewing, outcome}, nil
		}
		return []entities.Status{outcome}, nil
	}

	return s.commit(ctx, p.OrderID, entities.Financial, p.Actor.Login, p.Notes, plan)
}

// Get committed transitions of the order, oldest first.
func (s *OrderStatusService) GetHistory(ctx context.Context, id entities.OrderID) ([]*entities.StatusHistoryItem, error) {
	if _, err := s.orders.GetOrderByID(ctx, id); err != nil {
		return nil, err
	}

	return s.history.GetHistory(ctx, id)
}

// Get orders listed on the department's tab.
func (s *OrderStatusService) GetDepartmentOrders(ctx context.Context, dept entities.Department) ([]*entities.Order, error) {
	if !dept.IsValid() {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownDepartment, dept)
	}

	return s.orders.GetOrdersByStatuses(ctx, workflow.Queue(dept))
}

// commit locks the order, applies every status of the plan as a separate
// checked transition and records history, all in one transaction. Events are
// published only after the transaction is committed.
func (s *OrderStatusService) commit(
	ctx context.Context,
	id entities.OrderID,
	dept entities.Department,
	changedBy, notes string,
	plan func(current entities.Status) ([]entities.Status, error),
) (*entities.Order, error) {
	var (
		order *entities.Order
		items []*entities.StatusHistoryItem
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		items = items[:0]

		current, err := s.orders.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}

		steps, err := plan(current.Status)
		if err != nil {
			return err
		}

		from := current.Status
		for _, next := range steps {
			if !workflow.CanTransition(dept, from, next) {
				return fmt.Errorf("%w: %s may not move order %d from %s to %s",
					errs.ErrInvalidTransition, dept, id, from, next)
			}

			if order, err = s.orders.UpdateStatus(ctx, id, from, next); err != nil {
				return err
			}

			item := entities.NewStatusHistoryItem(id, from, next, dept, changedBy, notes)
			if err = s.history.SaveHistoryItem(ctx, item); err != nil {
				return err
			}

			items = append(items, item)
			from = next
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		s.logger.With(ctx,
			"order_id", id,
			"department", dept.String(),
			"changed_by", changedBy,
		).Infof("order status changed %s -> %s", item.FromStatus, item.ToStatus)

		if err = s.publisher.Publish(ctx, entities.NewStatusChanged(item)); err != nil {
			s.logger.With(ctx, "order_id", id).Errorf("publish status event: %s", err)
		}
	}

	return order, nil
}

// authorize checks that the actor works in the department it acts for.
func authorize(actor *staff.Staff, dept entities.Department) error {
	if !dept.IsValid() {
		return fmt.Errorf("%w: %q", errs.ErrUnknownDepartment, dept)
	}
	if actor == nil {
		return fmt.Errorf("%w: anonymous actor", errs.ErrForbidden)
	}
	if actor.Department != dept {
		return fmt.Errorf("%w: %s staff may not act for %s", errs.ErrForbidden, actor.Department, dept)
	}
	return nil
}
