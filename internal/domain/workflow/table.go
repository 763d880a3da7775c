package workflow

import "github.com/KretovDmitry/order-workflow/internal/domain/entities"

// StatusInfo describes how a status is displayed.
type StatusInfo struct {
	Status   entities.Status     `json:"status"`
	Label    string              `json:"label"`
	Color    string              `json:"color"`
	Terminal bool                `json:"terminal"`
	Owner    entities.Department `json:"owner,omitempty"`
}

// Table is a read-only snapshot of the whole rule set.
type Table struct {
	Version  string       `json:"version"`
	Initial  string       `json:"initial"`
	Statuses []StatusInfo `json:"statuses"`
	Rules    []Rule       `json:"rules"`
}

// Describe returns a fresh copy of the rule set, safe to hand out.
func Describe() Table {
	t := Table{
		Version:  Version,
		Initial:  entities.InitialStatus.String(),
		Statuses: make([]StatusInfo, 0, len(entities.Statuses())),
		Rules:    make([]Rule, len(rules)),
	}

	for _, s := range entities.Statuses() {
		owner, _ := s.Owner()
		t.Statuses = append(t.Statuses, StatusInfo{
			Status:   s,
			Label:    s.Label(),
			Color:    s.Color(),
			Terminal: s.IsTerminal(),
			Owner:    owner,
		})
	}

	for i, r := range rules {
		t.Rules[i] = Rule{
			Department: r.Department,
			From:       r.From,
			To:         append([]entities.Status(nil), r.To...),
		}
	}

	return t
}
