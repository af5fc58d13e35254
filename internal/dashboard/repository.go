package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ripgraphics/bookin-pms/internal/ledger"
)

// Repository runs the aggregate read queries behind the dashboards.
// Every sum is COALESCE'd: a property with no invoices or expenses
// contributes zero, not an error.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new dashboard repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// OwnerStats aggregates over the properties the user owns
func (r *Repository) OwnerStats(ctx context.Context, ownerID int64) (*OwnerStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM properties WHERE owner_id = $1),
			(SELECT COUNT(*) FROM assignments a
				JOIN properties p ON a.property_id = p.id
				WHERE p.owner_id = $1 AND a.status = 'active'),
			(SELECT COUNT(*) FROM expenses e
				JOIN properties p ON e.property_id = p.id
				WHERE p.owner_id = $1 AND e.status = 'pending'),
			(SELECT COALESCE(SUM(e.amount), 0) FROM expenses e
				JOIN properties p ON e.property_id = p.id
				WHERE p.owner_id = $1 AND e.status = 'approved'),
			(SELECT COUNT(*) FROM invoices i
				JOIN properties p ON i.property_id = p.id
				WHERE p.owner_id = $1 AND i.status = 'sent'),
			(SELECT COALESCE(SUM(i.amount_due), 0) FROM invoices i
				JOIN properties p ON i.property_id = p.id
				WHERE p.owner_id = $1 AND i.status = 'sent'),
			(SELECT COALESCE(SUM(i.total_amount), 0) FROM invoices i
				JOIN properties p ON i.property_id = p.id
				WHERE p.owner_id = $1 AND i.payment_status = 'paid')
	`

	stats := &OwnerStats{}
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(
		&stats.Properties,
		&stats.ActiveAssignments,
		&stats.PendingExpenses,
		&stats.ApprovedExpenseTotal,
		&stats.OutstandingInvoices,
		&stats.OutstandingAmount,
		&stats.RevenueTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate owner stats: %w", err)
	}

	return stats, nil
}

// HostStats aggregates over the properties the user is assigned to
func (r *Repository) HostStats(ctx context.Context, userID int64) (*HostStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM assignments WHERE user_id = $1 AND status = 'active'),
			(SELECT COUNT(*) FROM expenses WHERE created_by = $1 AND status = 'pending'),
			(SELECT COUNT(*) FROM expenses WHERE created_by = $1 AND status = 'approved'),
			(SELECT COUNT(*) FROM expenses WHERE created_by = $1 AND status = 'rejected'),
			(SELECT COUNT(*) FROM invoices WHERE issued_by = $1),
			(SELECT COALESCE(SUM(amount_paid), 0) FROM invoices WHERE issued_by = $1)
	`

	stats := &HostStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.ActiveAssignments,
		&stats.PendingExpenses,
		&stats.ApprovedExpenses,
		&stats.RejectedExpenses,
		&stats.IssuedInvoices,
		&stats.CollectedAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate host stats: %w", err)
	}

	return stats, nil
}

// GuestStats aggregates over the user's reservations and bills
func (r *Repository) GuestStats(ctx context.Context, userID int64) (*GuestStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM reservations WHERE guest_id = $1),
			(SELECT COUNT(*) FROM invoices WHERE issued_to = $1 AND status = 'sent'),
			(SELECT COALESCE(SUM(amount_due), 0) FROM invoices WHERE issued_to = $1 AND status = 'sent'),
			(SELECT COUNT(*) FROM invoices WHERE issued_to = $1 AND payment_status = 'paid'),
			(SELECT COALESCE(SUM(amount_paid), 0) FROM invoices WHERE issued_to = $1 AND payment_status = 'paid')
	`

	stats := &GuestStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.Reservations,
		&stats.OpenInvoices,
		&stats.AmountDue,
		&stats.PaidInvoices,
		&stats.AmountPaidTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate guest stats: %w", err)
	}

	return stats, nil
}

// AdminStats aggregates platform-wide counts
func (r *Repository) AdminStats(ctx context.Context) (*AdminStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM invoices),
			(SELECT COUNT(*) FROM expenses),
			(SELECT COUNT(*) FROM financial_transactions),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM reservations)
	`

	stats := &AdminStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Properties,
		&stats.Invoices,
		&stats.Expenses,
		&stats.LedgerCount,
		&stats.ActiveUsers,
		&stats.Reservations,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate admin stats: %w", err)
	}

	return stats, nil
}

// RecentTransactions retrieves the latest ledger entries across the
// owner's properties.
func (r *Repository) RecentTransactions(ctx context.Context, ownerID int64, limit int) ([]*ledger.Transaction, error) {
	query := `
		SELECT t.id, t.property_id, t.type, t.amount, t.currency_code, t.source_type, t.source_id,
		       t.from_user_id, t.to_user_id, t.description, t.status, t.created_at
		FROM financial_transactions t
		JOIN properties p ON t.property_id = p.id
		WHERE p.owner_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction
	for rows.Next() {
		tx := &ledger.Transaction{}
		if err := rows.Scan(
			&tx.ID,
			&tx.PropertyID,
			&tx.Type,
			&tx.Amount,
			&tx.CurrencyCode,
			&tx.SourceType,
			&tx.SourceID,
			&tx.FromUserID,
			&tx.ToUserID,
			&tx.Description,
			&tx.Status,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}
