// Package tab maps console tabs onto departments.
//
// A tab is a routing identity only. Several tabs may share one department's
// rule set, so the workflow package never sees tab names.
package tab

import (
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
)

type Tab string

const (
	Financial     Tab = "financial"
	FinanceReview Tab = "finance-review"
	Warehouse     Tab = "warehouse"
	Logistics     Tab = "logistics"
)

var departments = map[Tab]entities.Department{
	Financial:     entities.Financial,
	FinanceReview: entities.Financial,
	Warehouse:     entities.Warehouse,
	Logistics:     entities.Logistics,
}

// Tabs returns every known tab in display order.
func Tabs() []Tab {
	return []Tab{Financial, FinanceReview, Warehouse, Logistics}
}

// Parse returns the tab named s.
func Parse(s string) (Tab, error) {
	t := Tab(s)
	if _, ok := departments[t]; !ok {
		return "", fmt.Errorf("%w: %q", errs.ErrUnknownDepartment, s)
	}
	return t, nil
}

// Department returns the department whose rules apply on the tab.
func (t Tab) Department() entities.Department {
	return departments[t]
}

func (t Tab) String() string {
	return string(t)
}
