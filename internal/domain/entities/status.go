package entities

import (
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
)

// Status identifies where an order is in its lifecycle.
type Status string

const (
	PendingPayment      Status = "pending_payment"
	PaymentUploaded     Status = "payment_uploaded"
	FinancialReviewing  Status = "financial_reviewing"
	FinancialApproved   Status = "financial_approved"
	FinancialRejected   Status = "financial_rejected"
	WarehouseNotified   Status = "warehouse_notified"
	WarehouseProcessing Status = "warehouse_processing"
	WarehouseApproved   Status = "warehouse_approved"
	WarehouseRejected   Status = "warehouse_rejected"
	LogisticsAssigned   Status = "logistics_assigned"
	LogisticsProcessing Status = "logistics_processing"
	LogisticsDispatched Status = "logistics_dispatched"
	LogisticsDelivered  Status = "logistics_delivered"
	Completed           Status = "completed"
	Cancelled           Status = "cancelled"
)

// InitialStatus is the status every new order starts with.
const InitialStatus = PendingPayment

// Statuses returns the canonical ordered list of all statuses.
func Statuses() []Status {
	return []Status{
		PendingPayment,
		PaymentUploaded,
		FinancialReviewing,
		FinancialApproved,
		FinancialRejected,
		WarehouseNotified,
		WarehouseProcessing,
		WarehouseApproved,
		WarehouseRejected,
		LogisticsAssigned,
		LogisticsProcessing,
		LogisticsDispatched,
		LogisticsDelivered,
		Completed,
		Cancelled,
	}
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid reports whether s belongs to the closed status set.
func (s Status) IsValid() bool {
	return s.Label() != ""
}

func (s Status) String() string {
	return string(s)
}

// Label returns a human readable name of the status.
// Every status must have a case here.
func (s Status) Label() string {
	switch s {
	case PendingPayment:
		return "Pending payment"
	case PaymentUploaded:
		return "Payment uploaded"
	case FinancialReviewing:
		return "Financial review"
	case FinancialApproved:
		return "Financially approved"
	case FinancialRejected:
		return "Financially rejected"
	case WarehouseNotified:
		return "Warehouse notified"
	case WarehouseProcessing:
		return "Warehouse processing"
	case WarehouseApproved:
		return "Warehouse approved"
	case WarehouseRejected:
		return "Warehouse rejected"
	case LogisticsAssigned:
		return "Logistics assigned"
	case LogisticsProcessing:
		return "Logistics processing"
	case LogisticsDispatched:
		return "Dispatched"
	case LogisticsDelivered:
		return "Delivered"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	}
	return ""
}

// Color returns the badge color the console renders the status with.
func (s Status) Color() string {
	switch s {
	case PendingPayment:
		return "gray"
	case PaymentUploaded:
		return "blue"
	case FinancialReviewing:
		return "yellow"
	case FinancialApproved:
		return "green"
	case FinancialRejected:
		return "red"
	case WarehouseNotified:
		return "indigo"
	case WarehouseProcessing:
		return "yellow"
	case WarehouseApproved:
		return "green"
	case WarehouseRejected:
		return "red"
	case LogisticsAssigned:
		return "purple"
	case LogisticsProcessing:
		return "orange"
	case LogisticsDispatched:
		return "cyan"
	case LogisticsDelivered:
		return "teal"
	case Completed:
		return "emerald"
	case Cancelled:
		return "slate"
	}
	return ""
}

// IsTerminal reports whether no workflow move can leave the status.
func (s Status) IsTerminal() bool {
	switch s {
	case Completed, FinancialRejected, WarehouseRejected, Cancelled:
		return true
	case PendingPayment, PaymentUploaded, FinancialReviewing, FinancialApproved,
		WarehouseNotified, WarehouseProcessing, WarehouseApproved,
		LogisticsAssigned, LogisticsProcessing, LogisticsDispatched, LogisticsDelivered:
		return false
	}
	return false
}

// Owner returns the department whose actions may target the status.
// Statuses set by customers or by operator overrides have no owner.
func (s Status) Owner() (Department, bool) {
	switch s {
	case FinancialReviewing, FinancialApproved, FinancialRejected:
		return Financial, true
	case WarehouseNotified, WarehouseProcessing, WarehouseApproved, WarehouseRejected:
		return Warehouse, true
	case LogisticsAssigned, LogisticsProcessing, LogisticsDispatched,
		LogisticsDelivered, Completed:
		return Logistics, true
	case PendingPayment, PaymentUploaded, Cancelled:
		return "", false
	}
	return "", false
}
