package request

// ChangeStatus defines parameters for ChangeStatus.
// Department accepts tab aliases.
type ChangeStatus struct {
	NewStatus  string `json:"newStatus"`
	Department string `json:"department"`
	Notes      string `json:"notes,omitempty"`
}

// Review defines parameters for Review.
type Review struct {
	Action string `json:"action"`
	Notes  string `json:"notes,omitempty"`
}
