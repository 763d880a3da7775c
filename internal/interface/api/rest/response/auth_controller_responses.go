package response

import (
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
)

type Staff struct {
	ID         staff.ID            `json:"id"`
	Login      string              `json:"login"`
	Department entities.Department `json:"department"`
}

func NewStaffFromEntity(e *staff.Staff) *Staff {
	return &Staff{
		ID:         e.ID,
		Login:      e.Login,
		Department: e.Department,
	}
}
