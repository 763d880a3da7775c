package rest

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/application/params"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
	"github.com/shopspring/decimal"
)

// Lock in case of t.Parallel call.
type mockOrderStatusService struct {
	err         error
	lastChange  *params.ChangeStatus
	lastReview  *params.Review
	lastDept    entities.Department
	transitions []entities.Status
	history     []*entities.StatusHistoryItem
	orders      []*entities.Order
	mu          sync.RWMutex
}

func testOrder(status entities.Status) *entities.Order {
	return &entities.Order{
		ID:       7,
		Number:   "CH-1007",
		Customer: "Acme Coatings",
		Total:    decimal.RequireFromString("99.90"),
		Status:   status,
	}
}

func (m *mockOrderStatusService) GetValidTransitions(
	_ context.Context, id entities.OrderID, dept entities.Department,
) ([]entities.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDept = dept
	if m.err != nil {
		return nil, m.err
	}
	return m.transitions, nil
}

func (m *mockOrderStatusService) ChangeStatus(_ context.Context, p *params.ChangeStatus) (*entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastChange = p
	if m.err != nil {
		return nil, m.err
	}
	return testOrder(p.NewStatus), nil
}

func (m *mockOrderStatusService) Review(_ context.Context, p *params.Review) (*entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReview = p
	if m.err != nil {
		return nil, m.err
	}
	if p.Action == entities.Approve {
		return testOrder(entities.FinancialApproved), nil
	}
	return testOrder(entities.FinancialRejected), nil
}

func (m *mockOrderStatusService) GetHistory(
	_ context.Context, _ entities.OrderID,
) ([]*entities.StatusHistoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

func (m *mockOrderStatusService) GetDepartmentOrders(
	_ context.Context, dept entities.Department,
) ([]*entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDept = dept
	if m.err != nil {
		return nil, m.err
	}
	return m.orders, nil
}

type mockAuthService struct{}

func (mockAuthService) Register(
	_ context.Context, login, _ string, dept entities.Department,
) (*staff.Staff, error) {
	switch login {
	case "taken":
		return nil, errs.ErrDataConflict
	case "panic":
		return nil, errors.New("don't panic!")
	}
	return &staff.Staff{ID: 1, Login: login, Department: dept}, nil
}

func (mockAuthService) Login(_ context.Context, login, password string) (*staff.Staff, error) {
	if login == "panic" {
		return nil, errors.New("don't panic!")
	}
	if password != "password" {
		return nil, errs.ErrInvalidCredentials
	}
	return &staff.Staff{ID: 1, Login: login, Department: entities.Warehouse}, nil
}

func (mockAuthService) BuildAuthToken(s *staff.Staff) (string, error) {
	return "Bearer " + s.Login, nil
}

func (mockAuthService) GetStaffFromToken(context.Context, string) (*staff.Staff, error) {
	return nil, errs.ErrInvalidCredentials
}

// withStaff puts the member into every request context.
func withStaff(member *staff.Staff) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if member != nil {
				r = r.WithContext(staff.NewContext(r.Context(), member))
			}
			next.ServeHTTP(w, r)
		})
	}
}
