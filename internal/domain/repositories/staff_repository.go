package repositories

import (
	"context"

	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
)

type StaffRepository interface {
	GetStaffByID(context.Context, staff.ID) (*staff.Staff, error)
	GetStaffByLogin(context.Context, string) (*staff.Staff, error)
	CreateStaff(ctx context.Context, login, password string, dept entities.Department) (staff.ID, error)
}
