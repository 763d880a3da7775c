package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/application/params"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	financier  = &staff.Staff{ID: 1, Login: "fin", Department: entities.Financial}
	storekeep  = &staff.Staff{ID: 2, Login: "store", Department: entities.Warehouse}
	dispatcher = &staff.Staff{ID: 3, Login: "road", Department: entities.Logistics}
)

func order(id entities.OrderID, status entities.Status) entities.Order {
	return entities.Order{
		ID:       id,
		Number:   "CH-1001",
		Customer: "Acme Coatings",
		Total:    decimal.RequireFromString("1520.50"),
		Status:   status,
	}
}

func newTestService(t *testing.T, store *mockStore, pub *mockPublisher) *OrderStatusService {
	t.Helper()

	l, _ := logger.NewForTest()
	s, err := NewOrderStatusService(store, store, pub, &mockTxManager{store: store}, l)
	require.NoError(t, err, "failed to init service")
	return s
}

func TestNewOrderStatusServiceNilDependencies(t *testing.T) {
	store := newMockStore()
	l, _ := logger.NewForTest()

	_, err := NewOrderStatusService(store, store, &mockPublisher{}, nil, l)
	assert.EqualError(t, err, "nil dependency: transaction manager")

	_, err = NewOrderStatusService(nil, store, &mockPublisher{}, &mockTxManager{store: store}, l)
	assert.EqualError(t, err, "nil dependency: order repository")

	_, err = NewOrderStatusService(store, store, &mockPublisher{}, &mockTxManager{store: store}, nil)
	assert.EqualError(t, err, "nil dependency: logger")
}

func TestChangeStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    entities.Status
		params     *params.ChangeStatus
		wantStatus entities.Status
		wantErr    error
	}{
		{
			name:       "financial starts review",
			current:    entities.PaymentUploaded,
			params:     params.NewChangeStatus(1, entities.FinancialReviewing, entities.Financial, "", financier),
			wantStatus: entities.FinancialReviewing,
		},
		{
			name:       "warehouse takes approved order",
			current:    entities.FinancialApproved,
			params:     params.NewChangeStatus(1, entities.WarehouseProcessing, entities.Warehouse, "picking", storekeep),
			wantStatus: entities.WarehouseProcessing,
		},
		{
			name:       "logistics completes delivered order",
			current:    entities.LogisticsDelivered,
			params:     params.NewChangeStatus(1, entities.Completed, entities.Logistics, "", dispatcher),
			wantStatus: entities.Completed,
		},
		{
			name:       "review stage may not be skipped",
			current:    entities.PaymentUploaded,
			params:     params.NewChangeStatus(1, entities.FinancialApproved, entities.Financial, "", financier),
			wantStatus: entities.PaymentUploaded,
			wantErr:    errs.ErrInvalidTransition,
		},
		{
			name:       "wrong department for the status",
			current:    entities.FinancialApproved,
			params:     params.NewChangeStatus(1, entities.LogisticsAssigned, entities.Logistics, "", dispatcher),
			wantStatus: entities.FinancialApproved,
			wantErr:    errs.ErrInvalidTransition,
		},
		{
			name:       "terminal status",
			current:    entities.Completed,
			params:     params.NewChangeStatus(1, entities.Cancelled, entities.Logistics, "", dispatcher),
			wantStatus: entities.Completed,
			wantErr:    errs.ErrInvalidTransition,
		},
		{
			name:       "unknown target status fails closed",
			current:    entities.LogisticsDispatched,
			params:     params.NewChangeStatus(1, entities.Status("lost"), entities.Logistics, "", dispatcher),
			wantStatus: entities.LogisticsDispatched,
			wantErr:    errs.ErrInvalidTransition,
		},
		{
			name:       "staff acting for another department",
			current:    entities.FinancialApproved,
			params:     params.NewChangeStatus(1, entities.WarehouseProcessing, entities.Warehouse, "", financier),
			wantStatus: entities.FinancialApproved,
			wantErr:    errs.ErrForbidden,
		},
		{
			name:       "anonymous actor",
			current:    entities.FinancialApproved,
			params:     params.NewChangeStatus(1, entities.WarehouseProcessing, entities.Warehouse, "", nil),
			wantStatus: entities.FinancialApproved,
			wantErr:    errs.ErrForbidden,
		},
		{
			name:       "unknown department",
			current:    entities.PaymentUploaded,
			params:     params.NewChangeStatus(1, entities.FinancialReviewing, entities.Department("finance-review"), "", financier),
			wantStatus: entities.PaymentUploaded,
			wantErr:    errs.ErrUnknownDepartment,
		},
		{
			name:    "order not found",
			current: entities.PaymentUploaded,
			params:  params.NewChangeStatus(2, entities.FinancialReviewing, entities.Financial, "", financier),
			// Order 1 stays untouched.
			wantStatus: entities.PaymentUploaded,
			wantErr:    errs.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMockStore(order(1, tt.current))
			pub := &mockPublisher{}
			s := newTestService(t, store, pub)

			got, err := s.ChangeStatus(context.Background(), tt.params)

			assert.Equal(t, tt.wantStatus, store.status(1), "stored status mismatch")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Empty(t, store.history, "no history on failure")
				assert.Empty(t, pub.events, "no events on failure")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)

			require.Len(t, store.history, 1)
			item := store.history[0]
			assert.Equal(t, tt.current, item.FromStatus)
			assert.Equal(t, tt.wantStatus, item.ToStatus)
			assert.Equal(t, tt.params.Department, item.ChangedByDepartment)
			assert.Equal(t, tt.params.Actor.Login, item.ChangedBy)
			assert.Equal(t, tt.params.Notes, item.Notes)

			require.Len(t, pub.events, 1)
			assert.Equal(t, tt.wantStatus, pub.events[0].ToStatus)
		})
	}
}

func TestChangeStatusRepositoryError(t *testing.T) {
	store := newMockStore(order(500, entities.PaymentUploaded))
	s := newTestService(t, store, &mockPublisher{})

	_, err := s.ChangeStatus(context.Background(),
		params.NewChangeStatus(500, entities.FinancialReviewing, entities.Financial, "", financier))
	assert.EqualError(t, err, "don't panic!")
}

func TestChangeStatusPublishFailureDoesNotFail(t *testing.T) {
	store := newMockStore(order(1, entities.LogisticsDispatched))
	l, logs := logger.NewForTest()
	s, err := NewOrderStatusService(store, store,
		&mockPublisher{err: errors.New("broker down")}, &mockTxManager{store: store}, l)
	require.NoError(t, err)

	got, err := s.ChangeStatus(context.Background(),
		params.NewChangeStatus(1, entities.LogisticsDelivered, entities.Logistics, "", dispatcher))
	require.NoError(t, err)
	assert.Equal(t, entities.LogisticsDelivered, got.Status)

	assert.Equal(t, 1, logs.FilterMessage("publish status event: broker down").Len())
}

func TestChangeStatusRace(t *testing.T) {
	store := newMockStore(order(1, entities.FinancialApproved))
	s := newTestService(t, store, &mockPublisher{})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for _, next := range []entities.Status{entities.WarehouseNotified, entities.WarehouseProcessing} {
		next := next
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.ChangeStatus(context.Background(),
					params.NewChangeStatus(1, next, entities.Warehouse, "", storekeep))

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, errs.ErrInvalidTransition):
					rejected++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
	}
	wg.Wait()

	// Neither warehouse target leads to the other,
	// so exactly one request may win.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 9, rejected)
	assert.Len(t, store.history, 1)
}

func TestReview(t *testing.T) {
	tests := []struct {
		name        string
		current     entities.Status
		action      entities.ReviewAction
		actor       *staff.Staff
		wantStatus  entities.Status
		wantHistory []entities.Status
		wantErr     error
	}{
		{
			name:        "approve while reviewing",
			current:     entities.FinancialReviewing,
			action:      entities.Approve,
			actor:       financier,
			wantStatus:  entities.FinancialApproved,
			wantHistory: []entities.Status{entities.FinancialApproved},
		},
		{
			name:        "reject while reviewing",
			current:     entities.FinancialReviewing,
			action:      entities.Reject,
			actor:       financier,
			wantStatus:  entities.FinancialRejected,
			wantHistory: []entities.Status{entities.FinancialRejected},
		},
		{
			name:        "approve uploaded payment passes through review",
			current:     entities.PaymentUploaded,
			action:      entities.Approve,
			actor:       financier,
			wantStatus:  entities.FinancialApproved,
			wantHistory: []entities.Status{entities.FinancialReviewing, entities.FinancialApproved},
		},
		{
			name:        "reject uploaded payment",
			current:     entities.PaymentUploaded,
			action:      entities.Reject,
			actor:       financier,
			wantStatus:  entities.FinancialRejected,
			wantHistory: []entities.Status{entities.FinancialRejected},
		},
		{
			name:       "already processed",
			current:    entities.FinancialApproved,
			action:     entities.Approve,
			actor:      financier,
			wantStatus: entities.FinancialApproved,
			wantErr:    errs.ErrAlreadyProcessed,
		},
		{
			name:       "not awaiting payment review",
			current:    entities.PendingPayment,
			action:     entities.Reject,
			actor:      financier,
			wantStatus: entities.PendingPayment,
			wantErr:    errs.ErrAlreadyProcessed,
		},
		{
			name:       "warehouse may not review",
			current:    entities.FinancialReviewing,
			action:     entities.Approve,
			actor:      storekeep,
			wantStatus: entities.FinancialReviewing,
			wantErr:    errs.ErrForbidden,
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMockStore(order(1, tt.current))
			pub := &mockPublisher{}
			s := newTestService(t, store, pub)

			got, err := s.Review(context.Background(), params.NewReview(1, tt.action, "checked", tt.actor))

			assert.Equal(t, tt.wantStatus, store.status(1), "stored status mismatch")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.history)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)

			history := make([]entities.Status, len(store.history))
			for i, item := range store.history {
				history[i] = item.ToStatus
				assert.Equal(t, entities.Financial, item.ChangedByDepartment)
			}
			assert.Equal(t, tt.wantHistory, history)
			assert.Len(t, pub.events, len(tt.wantHistory))
		})
	}
}

func TestGetValidTransitions(t *testing.T) {
	store := newMockStore(order(1, entities.WarehouseProcessing))
	s := newTestService(t, store, &mockPublisher{})

	got, err := s.GetValidTransitions(context.Background(), 1, entities.Warehouse)
	require.NoError(t, err)
	assert.Equal(t, []entities.Status{entities.WarehouseApproved, entities.WarehouseRejected}, got)

	got, err = s.GetValidTransitions(context.Background(), 1, entities.Logistics)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.GetValidTransitions(context.Background(), 2, entities.Warehouse)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetHistory(t *testing.T) {
	store := newMockStore(order(1, entities.LogisticsAssigned))
	s := newTestService(t, store, &mockPublisher{})

	for _, next := range []entities.Status{entities.LogisticsProcessing, entities.LogisticsDispatched} {
		_, err := s.ChangeStatus(context.Background(),
			params.NewChangeStatus(1, next, entities.Logistics, "", dispatcher))
		require.NoError(t, err)
	}

	history, err := s.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entities.LogisticsAssigned, history[0].FromStatus)
	assert.Equal(t, entities.LogisticsDispatched, history[1].ToStatus)
	assert.False(t, history[1].CreatedAt.Before(history[0].CreatedAt))

	_, err = s.GetHistory(context.Background(), 2)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetDepartmentOrders(t *testing.T) {
	store := newMockStore(
		order(1, entities.FinancialApproved),
		order(2, entities.WarehouseProcessing),
		order(3, entities.LogisticsAssigned),
		order(4, entities.PaymentUploaded),
	)
	s := newTestService(t, store, &mockPublisher{})

	orders, err := s.GetDepartmentOrders(context.Background(), entities.Warehouse)
	require.NoError(t, err)

	ids := make([]entities.OrderID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	assert.ElementsMatch(t, []entities.OrderID{1, 2}, ids)

	_, err = s.GetDepartmentOrders(context.Background(), entities.Department("finance-review"))
	assert.ErrorIs(t, err, errs.ErrUnknownDepartment)
}
