// Package workflow holds the order status transition rules shared by the
// console and the status service.
//
// Departments are access masks over one status graph: a department may only
// move an order along the edges listed for it below. The rule set is built
// once at init and never mutated, so every function in this package is safe
// for concurrent use without coordination.
package workflow

import (
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
)

// Version identifies the rule set. Bump it on every change to rules.
const Version = "2024.1"

// Rule lists the statuses a department may move an order to from From.
type Rule struct {
	Department entities.Department `json:"department"`
	From       entities.Status     `json:"from"`
	To         []entities.Status   `json:"to"`
}

var rules = []Rule{
	{entities.Financial, entities.PaymentUploaded, []entities.Status{entities.FinancialReviewing, entities.FinancialRejected}},
	{entities.Financial, entities.FinancialReviewing, []entities.Status{entities.FinancialApproved, entities.FinancialRejected}},
	{entities.Warehouse, entities.FinancialApproved, []entities.Status{entities.WarehouseNotified, entities.WarehouseProcessing}},
	{entities.Warehouse, entities.WarehouseProcessing, []entities.Status{entities.WarehouseApproved, entities.WarehouseRejected}},
	{entities.Logistics, entities.WarehouseApproved, []entities.Status{entities.LogisticsAssigned}},
	{entities.Logistics, entities.LogisticsAssigned, []entities.Status{entities.LogisticsProcessing}},
	{entities.Logistics, entities.LogisticsProcessing, []entities.Status{entities.LogisticsDispatched}},
	{entities.Logistics, entities.LogisticsDispatched, []entities.Status{entities.LogisticsDelivered}},
	{entities.Logistics, entities.LogisticsDelivered, []entities.Status{entities.Completed}},
}

type key struct {
	department entities.Department
	from       entities.Status
}

var index = mustBuildIndex(rules)

func mustBuildIndex(rules []Rule) map[key][]entities.Status {
	idx, err := buildIndex(rules)
	if err != nil {
		panic(fmt.Sprintf("workflow rules v%s: %s", Version, err))
	}
	return idx
}

// buildIndex checks the graph invariants and indexes rules
// by (department, from).
func buildIndex(rules []Rule) (map[key][]entities.Status, error) {
	idx := make(map[key][]entities.Status, len(rules))

	for _, r := range rules {
		if !r.Department.IsValid() {
			return nil, fmt.Errorf("unknown department %q", r.Department)
		}
		if !r.From.IsValid() {
			return nil, fmt.Errorf("unknown status %q", r.From)
		}
		if r.From.IsTerminal() {
			return nil, fmt.Errorf("terminal status %q has outgoing edges", r.From)
		}

		k := key{r.Department, r.From}
		if _, ok := idx[k]; ok {
			return nil, fmt.Errorf("duplicate rule %s/%s", r.Department, r.From)
		}

		for _, to := range r.To {
			if to == r.From {
				return nil, fmt.Errorf("self transition on %q", to)
			}
			if owner, ok := to.Owner(); !ok || owner != r.Department {
				return nil, fmt.Errorf("%s may not target %q", r.Department, to)
			}
		}

		idx[k] = append([]entities.Status(nil), r.To...)
	}

	if err := checkAcyclic(idx); err != nil {
		return nil, err
	}

	return idx, nil
}

func checkAcyclic(idx map[key][]entities.Status) error {
	next := make(map[entities.Status][]entities.Status)
	for k, to := range idx {
		next[k.from] = append(next[k.from], to...)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[entities.Status]int)

	var visit func(s entities.Status) error
	visit = func(s entities.Status) error {
		switch state[s] {
		case visiting:
			return fmt.Errorf("cycle through %q", s)
		case done:
			return nil
		}
		state[s] = visiting
		for _, n := range next[s] {
			if err := visit(n); err != nil {
				return err
			}
		}
		state[s] = done
		return nil
	}

	for _, s := range entities.Statuses() {
		if err := visit(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidTransitions returns the statuses an actor of dept may move an order
// to from current, in rule order. Unknown or unlisted pairs yield an empty
// slice: the action must be disabled, it is not an error.
func ValidTransitions(dept entities.Department, current entities.Status) []entities.Status {
	to := index[key{dept, current}]
	out := make([]entities.Status, len(to))
	copy(out, to)
	return out
}

// CanTransition reports whether dept may move an order from -> to.
func CanTransition(dept entities.Department, from, to entities.Status) bool {
	for _, s := range index[key{dept, from}] {
		if s == to {
			return true
		}
	}
	return false
}

// CanReview reports whether the financial review dialog is enabled.
func CanReview(current entities.Status) bool {
	return current == entities.PaymentUploaded || current == entities.FinancialReviewing
}

// ReviewOutcome maps a review action onto the resulting status.
// It returns false once the order has left financial review.
func ReviewOutcome(current entities.Status, action entities.ReviewAction) (entities.Status, bool) {
	if !CanReview(current) {
		return "", false
	}
	switch action {
	case entities.Approve:
		return entities.FinancialApproved, true
	case entities.Reject:
		return entities.FinancialRejected, true
	}
	return "", false
}

// Queue returns the statuses listed on the department's tab: the ones it
// can move orders from and the ones it owns, in canonical order.
func Queue(dept entities.Department) []entities.Status {
	out := make([]entities.Status, 0)
	for _, s := range entities.Statuses() {
		_, source := index[key{dept, s}]
		owner, owned := s.Owner()
		if source || (owned && owner == dept) {
			out = append(out, s)
		}
	}
	return out
}
