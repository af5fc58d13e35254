package invoice

import "time"

// LineItemInput is one billable row in a create request
type LineItemInput struct {
	Description    string  `json:"description" validate:"required,min=1,max=255"`
	Quantity       float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice      float64 `json:"unit_price" validate:"gte=0"`
	TaxRate        float64 `json:"tax_rate" validate:"gte=0,lte=100"`
	DiscountAmount float64 `json:"discount_amount" validate:"gte=0"`
}

// CreateInvoiceRequest represents the request to create a draft invoice
type CreateInvoiceRequest struct {
	PropertyID   int64            `json:"property_id" validate:"required"`
	IssuedTo     int64            `json:"issued_to" validate:"required"`
	Type         Type             `json:"type" validate:"required,oneof=rental operational"`
	CurrencyCode string           `json:"currency_code" validate:"required,len=3"`
	DueDate      time.Time        `json:"due_date" validate:"required"`
	LineItems    []*LineItemInput `json:"line_items" validate:"required,min=1"`
	Notes        *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// MarkPaidRequest represents the request to mark an invoice paid
type MarkPaidRequest struct {
	PaymentMethod string     `json:"payment_method" validate:"required,min=1,max=50"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// LineItemResponse represents the response for a line item
type LineItemResponse struct {
	ID             int64   `json:"id"`
	Position       int     `json:"position"`
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TaxRate        float64 `json:"tax_rate"`
	DiscountAmount float64 `json:"discount_amount"`
	LineTotal      float64 `json:"line_total"`
}

// InvoiceResponse represents the response for an invoice
type InvoiceResponse struct {
	ID            int64               `json:"id"`
	InvoiceNumber string              `json:"invoice_number"`
	PropertyID    int64               `json:"property_id"`
	IssuedBy      int64               `json:"issued_by"`
	IssuedTo      int64               `json:"issued_to"`
	Type          Type                `json:"type"`
	Status        Status              `json:"status"`
	PaymentStatus PaymentStatus       `json:"payment_status"`
	CurrencyCode  string              `json:"currency_code"`
	TotalAmount   float64             `json:"total_amount"`
	AmountPaid    float64             `json:"amount_paid"`
	AmountDue     float64             `json:"amount_due"`
	DueDate       string              `json:"due_date"`
	SentDate      string              `json:"sent_date,omitempty"`
	PaidDate      string              `json:"paid_date,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	CreatedAt     string              `json:"created_at"`
	Items         []*LineItemResponse `json:"items,omitempty"`
}

// PaymentResponse represents the response for a payment record
type PaymentResponse struct {
	ID           int64   `json:"id"`
	InvoiceID    int64   `json:"invoice_id"`
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
	Method       string  `json:"method"`
	PayerID      int64   `json:"payer_id"`
	PaymentDate  string  `json:"payment_date"`
	Status       string  `json:"status"`
}

// PdfData is the fully joined invoice handed to an external renderer
type PdfData struct {
	Invoice         *Invoice `json:"invoice"`
	PropertyName    string   `json:"property_name"`
	PropertyAddress string   `json:"property_address"`
	IssuerName      string   `json:"issuer_name"`
	RecipientName   string   `json:"recipient_name"`
}

// ToResponse converts an Invoice model to an InvoiceResponse DTO.
// The status reported is the derived read-time status.
func (i *Invoice) ToResponse(now time.Time) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		PropertyID:    i.PropertyID,
		IssuedBy:      i.IssuedBy,
		IssuedTo:      i.IssuedTo,
		Type:          i.Type,
		Status:        i.EffectiveStatus(now),
		PaymentStatus: i.PaymentStatus,
		CurrencyCode:  i.CurrencyCode,
		TotalAmount:   i.TotalAmount,
		AmountPaid:    i.AmountPaid,
		AmountDue:     i.AmountDue,
		DueDate:       i.DueDate.Format("2006-01-02"),
		Notes:         i.Notes,
		CreatedAt:     i.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if i.SentDate != nil {
		resp.SentDate = i.SentDate.Format("2006-01-02T15:04:05Z")
	}
	if i.PaidDate != nil {
		resp.PaidDate = i.PaidDate.Format("2006-01-02T15:04:05Z")
	}
	if len(i.Items) > 0 {
		resp.Items = make([]*LineItemResponse, len(i.Items))
		for idx, item := range i.Items {
			resp.Items[idx] = item.ToResponse()
		}
	}
	return resp
}

// ToResponse converts a LineItem model to a LineItemResponse DTO
func (li *LineItem) ToResponse() *LineItemResponse {
	return &LineItemResponse{
		ID:             li.ID,
		Position:       li.Position,
		Description:    li.Description,
		Quantity:       li.Quantity,
		UnitPrice:      li.UnitPrice,
		TaxRate:        li.TaxRate,
		DiscountAmount: li.DiscountAmount,
		LineTotal:      li.LineTotal,
	}
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:           p.ID,
		InvoiceID:    p.InvoiceID,
		Amount:       p.Amount,
		CurrencyCode: p.CurrencyCode,
		Method:       p.Method,
		PayerID:      p.PayerID,
		PaymentDate:  p.PaymentDate.Format("2006-01-02T15:04:05Z"),
		Status:       p.Status,
	}
}
