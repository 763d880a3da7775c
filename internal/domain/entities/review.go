package entities

import (
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
)

// ReviewAction is the outcome picked in the financial review dialog.
type ReviewAction string

const (
	Approve ReviewAction = "approve"
	Reject  ReviewAction = "reject"
)

func ParseReviewAction(s string) (ReviewAction, error) {
	switch a := ReviewAction(s); a {
	case Approve, Reject:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrUnknownReviewAction, s)
}
