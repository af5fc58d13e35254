package invoice

import (
	"math"
	"time"
)

// Status represents the lifecycle state of an invoice.
// draft → sent → paid; cancelled is reachable from draft or sent and
// is terminal. overdue is derived at read time, never stored.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus tracks how much of the invoice has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Type classifies what the invoice bills for
type Type string

const (
	TypeRental      Type = "rental"
	TypeOperational Type = "operational"
)

// Valid reports whether the type is one of the closed set
func (t Type) Valid() bool {
	return t == TypeRental || t == TypeOperational
}

// Invoice represents a bill issued by one party to another for a
// property. amount_due = total_amount - amount_paid always holds.
type Invoice struct {
	ID            int64         `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	PropertyID    int64         `json:"property_id"`
	IssuedBy      int64         `json:"issued_by"`
	IssuedTo      int64         `json:"issued_to"`
	Type          Type          `json:"type"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CurrencyCode  string        `json:"currency_code"`
	TotalAmount   float64       `json:"total_amount"`
	AmountPaid    float64       `json:"amount_paid"`
	AmountDue     float64       `json:"amount_due"`
	DueDate       time.Time     `json:"due_date"`
	SentDate      *time.Time    `json:"sent_date,omitempty"`
	PaidDate      *time.Time    `json:"paid_date,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`

	Items []*LineItem `json:"items,omitempty"`
}

// EffectiveStatus derives the read-time status: a sent invoice past
// its due date reads as overdue without an explicit transition.
func (i *Invoice) EffectiveStatus(now time.Time) Status {
	if i.Status == StatusSent && now.After(i.DueDate) {
		return StatusOverdue
	}
	return i.Status
}

// LineItem is one billable row within an invoice
type LineItem struct {
	ID             int64   `json:"id"`
	InvoiceID      int64   `json:"invoice_id"`
	Position       int     `json:"position"`
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TaxRate        float64 `json:"tax_rate"`
	DiscountAmount float64 `json:"discount_amount"`
	LineTotal      float64 `json:"line_total"`
}

// ComputeTotal returns quantity x unit price plus tax minus discount,
// rounded to cents.
func (li *LineItem) ComputeTotal() float64 {
	base := li.Quantity * li.UnitPrice
	total := base + base*li.TaxRate/100 - li.DiscountAmount
	return roundCents(total)
}

// Payment is an immutable record of money received against exactly one
// invoice. Created as a side effect of marking an invoice paid; never
// mutated.
type Payment struct {
	ID           int64     `json:"id"`
	InvoiceID    int64     `json:"invoice_id"`
	Amount       float64   `json:"amount"`
	CurrencyCode string    `json:"currency_code"`
	Method       string    `json:"method"`
	PayerID      int64     `json:"payer_id"`
	PaymentDate  time.Time `json:"payment_date"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaymentStatusCompleted is the status payments are written with
const PaymentStatusCompleted = "completed"

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
