package expense

import "time"

// Status represents the approval status of an expense.
// Transitions are one-shot: once approved or rejected, no further
// transition is permitted.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether the status is one of the closed set
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Expense represents a cost incurred for a property, submitted by a
// host/co-host and acted on by the property owner.
type Expense struct {
	ID              int64      `json:"id"`
	PropertyID      int64      `json:"property_id"`
	Amount          float64    `json:"amount"`
	CurrencyCode    string     `json:"currency_code"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	Status          Status     `json:"status"`
	CreatedBy       int64      `json:"created_by"`
	ApprovedBy      *int64     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Populated via JOIN
	SubmitterName string `json:"submitter_name,omitempty"`
}
