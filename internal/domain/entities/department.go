package entities

import (
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
)

// Department is a unit of staff allowed to move orders
// among the statuses it owns.
type Department string

const (
	Financial Department = "financial"
	Warehouse Department = "warehouse"
	Logistics Department = "logistics"
)

// Departments returns all departments in workflow order.
func Departments() []Department {
	return []Department{Financial, Warehouse, Logistics}
}

// ParseDepartment converts a wire value into a Department.
func ParseDepartment(s string) (Department, error) {
	d := Department(s)
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrUnknownDepartment, s)
	}
	return d, nil
}

// IsValid reports whether d belongs to the closed department set.
func (d Department) IsValid() bool {
	switch d {
	case Financial, Warehouse, Logistics:
		return true
	}
	return false
}

func (d Department) String() string {
	return string(d)
}
