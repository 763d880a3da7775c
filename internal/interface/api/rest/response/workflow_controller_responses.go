package response

import (
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/workflow"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/tab"
)

type Tab struct {
	Name       string              `json:"name"`
	Department entities.Department `json:"department"`
}

type Workflow struct {
	workflow.Table
	Tabs []Tab `json:"tabs"`
}

func NewWorkflow(table workflow.Table, tabs []tab.Tab) *Workflow {
	res := &Workflow{Table: table, Tabs: make([]Tab, 0, len(tabs))}
	for _, t := range tabs {
		res.Tabs = append(res.Tabs, Tab{Name: t.String(), Department: t.Department()})
	}
	return res
}
