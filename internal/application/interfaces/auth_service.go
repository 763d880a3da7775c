package interfaces

import (
	"context"

	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
)

// AuthService represents all staff authentication actions.
type AuthService interface {
	Register(ctx context.Context, login, password string, dept entities.Department) (*staff.Staff, error)
	Login(ctx context.Context, login, password string) (*staff.Staff, error)
	BuildAuthToken(*staff.Staff) (string, error)
	GetStaffFromToken(ctx context.Context, token string) (*staff.Staff, error)
}
