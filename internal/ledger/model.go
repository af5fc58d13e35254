package ledger

import "time"

// Type classifies which direction money conceptually moved
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether the type is one of the closed set
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// SourceType identifies the kind of record that caused the entry
type SourceType string

const (
	SourceInvoice SourceType = "invoice"
	SourceExpense SourceType = "expense"
)

// Status of a ledger entry. Entries are written completed; the column
// exists so a reconciliation pass can mark anomalies without edits to
// the money fields.
type Status string

const (
	StatusCompleted Status = "completed"
)

// Transaction is an immutable ledger entry recording that money moved
// between two parties. It is append-only: no update or delete path
// exists through normal application flow.
type Transaction struct {
	ID           int64      `json:"id"`
	PropertyID   int64      `json:"property_id"`
	Type         Type       `json:"type"`
	Amount       float64    `json:"amount"`
	CurrencyCode string     `json:"currency_code"`
	SourceType   SourceType `json:"source_type"`
	SourceID     int64      `json:"source_id"`
	FromUserID   int64      `json:"from_user_id"`
	ToUserID     int64      `json:"to_user_id"`
	Description  string     `json:"description"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Filter narrows ledger queries by property, type and date range
type Filter struct {
	PropertyID *int64
	Type       *Type
	From       *time.Time
	To         *time.Time
}
