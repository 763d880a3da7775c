package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
)

// Lock in case of t.Parallel call.
type mockStore struct {
	orders  map[entities.OrderID]entities.Order
	history []entities.StatusHistoryItem
	mu      sync.RWMutex
}

func newMockStore(orders ...entities.Order) *mockStore {
	m := &mockStore{orders: make(map[entities.OrderID]entities.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockStore) GetOrderByID(_ context.Context, id entities.OrderID) (*entities.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &o, nil
}

func (m *mockStore) GetOrderForUpdate(ctx context.Context, id entities.OrderID) (*entities.Order, error) {
	if id == 500 {
		return nil, errors.New("don't panic!")
	}
	return m.GetOrderByID(ctx, id)
}

func (m *mockStore) UpdateStatus(
	_ context.Context, id entities.OrderID, expected, next entities.Status,
) (*entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != expected {
		return nil, errs.ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	m.orders[id] = o
	return &o, nil
}

func (m *mockStore) GetOrdersByStatuses(_ context.Context, statuses []entities.Status) ([]*entities.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*entities.Order, 0)
	for _, s := range statuses {
		for id := range m.orders {
			if o := m.orders[id]; o.Status == s {
				out = append(out, &o)
			}
		}
	}
	return out, nil
}

func (m *mockStore) SaveHistoryItem(_ context.Context, item *entities.StatusHistoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = int64(len(m.history) + 1)
	item.CreatedAt = time.Now()
	m.history = append(m.history, *item)
	return nil
}

func (m *mockStore) GetHistory(_ context.Context, id entities.OrderID) ([]*entities.StatusHistoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*entities.StatusHistoryItem, 0)
	for i := range m.history {
		if item := m.history[i]; item.OrderID == id {
			out = append(out, &item)
		}
	}
	return out, nil
}

func (m *mockStore) status(id entities.OrderID) entities.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id].Status
}

// mockTxManager rolls the store back when fn fails.
type mockTxManager struct {
	store *mockStore
	mu    sync.Mutex
}

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.mu.RLock()
	orders := make(map[entities.OrderID]entities.Order, len(m.store.orders))
	for k, v := range m.store.orders {
		orders[k] = v
	}
	history := append([]entities.StatusHistoryItem(nil), m.store.history...)
	m.store.mu.RUnlock()

	if err := fn(ctx); err != nil {
		m.store.mu.Lock()
		m.store.orders = orders
		m.store.history = history
		m.store.mu.Unlock()
		return err
	}
	return nil
}

type mockPublisher struct {
	events []*entities.StatusChanged
	err    error
	mu     sync.Mutex
}

func (m *mockPublisher) Publish(_ context.Context, e *entities.StatusChanged) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockStaffRepository struct {
	items []staff.Staff
	mu    sync.RWMutex
}

func (m *mockStaffRepository) GetStaffByID(_ context.Context, id staff.ID) (*staff.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockStaffRepository) GetStaffByLogin(_ context.Context, login string) (*staff.Staff, error) {
	if login == "panic" {
		return nil, errors.New("don't panic!")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.Login == login {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockStaffRepository) CreateStaff(
	_ context.Context, login, password string, dept entities.Department,
) (staff.ID, error) {
	if login == "panic" {
		return -1, errors.New("don't panic!")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var maxID staff.ID
	for _, item := range m.items {
		if item.Login == login {
			return -1, errs.ErrDataConflict
		}
		maxID = max(maxID, item.ID)
	}
	m.items = append(m.items, staff.Staff{
		ID:         maxID + 1,
		Login:      login,
		Password:   password,
		Department: dept,
		CreatedAt:  time.Now(),
	})
	return maxID + 1, nil
}
