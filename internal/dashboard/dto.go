package dashboard

import (
	"github.com/ripgraphics/bookin-pms/internal/ledger"
	"github.com/ripgraphics/bookin-pms/internal/role"
)

// OwnerStats aggregates activity across the caller's owned properties
type OwnerStats struct {
	Properties           int     `json:"properties"`
	ActiveAssignments    int     `json:"active_assignments"`
	PendingExpenses      int     `json:"pending_expenses"`
	ApprovedExpenseTotal float64 `json:"approved_expense_total"`
	OutstandingInvoices  int     `json:"outstanding_invoices"`
	OutstandingAmount    float64 `json:"outstanding_amount"`
	RevenueTotal         float64 `json:"revenue_total"`
}

// HostStats aggregates activity across the caller's assignments
type HostStats struct {
	ActiveAssignments int     `json:"active_assignments"`
	PendingExpenses   int     `json:"pending_expenses"`
	ApprovedExpenses  int     `json:"approved_expenses"`
	RejectedExpenses  int     `json:"rejected_expenses"`
	IssuedInvoices    int     `json:"issued_invoices"`
	CollectedAmount   float64 `json:"collected_amount"`
}

// GuestStats aggregates the caller's reservations and bills
type GuestStats struct {
	Reservations    int     `json:"reservations"`
	OpenInvoices    int     `json:"open_invoices"`
	AmountDue       float64 `json:"amount_due"`
	PaidInvoices    int     `json:"paid_invoices"`
	AmountPaidTotal float64 `json:"amount_paid_total"`
}

// AdminStats is the platform-wide administrative view
type AdminStats struct {
	Properties   int `json:"properties"`
	Invoices     int `json:"invoices"`
	Expenses     int `json:"expenses"`
	LedgerCount  int `json:"ledger_entries"`
	ActiveUsers  int `json:"active_users"`
	Reservations int `json:"reservations"`
}

// Dashboard is the role-tagged read model returned to the caller
type Dashboard struct {
	Role   role.Role             `json:"role"`
	Owner  *OwnerStats           `json:"owner,omitempty"`
	Host   *HostStats            `json:"host,omitempty"`
	Guest  *GuestStats           `json:"guest,omitempty"`
	Admin  *AdminStats           `json:"admin,omitempty"`
	Recent []*ledger.Transaction `json:"recent_transactions,omitempty"`
}
