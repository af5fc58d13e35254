package expense

// SubmitExpenseRequest represents the request to submit an expense
type SubmitExpenseRequest struct {
	PropertyID   int64   `json:"property_id" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	CurrencyCode string  `json:"currency_code" validate:"required,len=3"`
	Category     string  `json:"category" validate:"required,min=1,max=100"`
	Description  string  `json:"description" validate:"max=500"`
}

// ApproveExpenseRequest represents the request to approve an expense
type ApproveExpenseRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// RejectExpenseRequest represents the request to reject an expense
type RejectExpenseRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"required,min=1,max=500"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              int64   `json:"id"`
	PropertyID      int64   `json:"property_id"`
	Amount          float64 `json:"amount"`
	CurrencyCode    string  `json:"currency_code"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Status          Status  `json:"status"`
	CreatedBy       int64   `json:"created_by"`
	SubmitterName   string  `json:"submitter_name,omitempty"`
	ApprovedBy      *int64  `json:"approved_by,omitempty"`
	ApprovedAt      string  `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:              e.ID,
		PropertyID:      e.PropertyID,
		Amount:          e.Amount,
		CurrencyCode:    e.CurrencyCode,
		Category:        e.Category,
		Description:     e.Description,
		Status:          e.Status,
		CreatedBy:       e.CreatedBy,
		SubmitterName:   e.SubmitterName,
		ApprovedBy:      e.ApprovedBy,
		RejectionReason: e.RejectionReason,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.ApprovedAt != nil {
		resp.ApprovedAt = e.ApprovedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}
