package statement

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository runs the statement aggregates. Both queries start from
// the owner's properties with LEFT JOINs, so a property with no
// activity yields a zero row rather than disappearing.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new statement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RevenueByProperty sums paid-invoice income per owned property.
// Only invoices with payment_status = paid contribute.
func (r *Repository) RevenueByProperty(ctx context.Context, ownerID int64) ([]*PropertyAmount, error) {
	query := `
		SELECT p.id, p.name, COALESCE(SUM(i.total_amount), 0)
		FROM properties p
		LEFT JOIN invoices i ON i.property_id = p.id AND i.payment_status = 'paid'
		WHERE p.owner_id = $1
		GROUP BY p.id, p.name
		ORDER BY p.id
	`

	return r.queryAmounts(ctx, query, ownerID)
}

// ExpensesByProperty sums expenses per owned property. Expenses of
// every status are included, mirroring the platform's established
// accounting; tightening to approved-only is a policy decision, not a
// query limitation.
func (r *Repository) ExpensesByProperty(ctx context.Context, ownerID int64) ([]*PropertyAmount, error) {
	query := `
		SELECT p.id, p.name, COALESCE(SUM(e.amount), 0)
		FROM properties p
		LEFT JOIN expenses e ON e.property_id = p.id
		WHERE p.owner_id = $1
		GROUP BY p.id, p.name
		ORDER BY p.id
	`

	return r.queryAmounts(ctx, query, ownerID)
}

func (r *Repository) queryAmounts(ctx context.Context, query string, ownerID int64) ([]*PropertyAmount, error) {
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statement amounts: %w", err)
	}
	defer rows.Close()

	var amounts []*PropertyAmount
	for rows.Next() {
		amount := &PropertyAmount{}
		if err := rows.Scan(&amount.PropertyID, &amount.PropertyName, &amount.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan statement amount: %w", err)
		}
		amounts = append(amounts, amount)
	}

	return amounts, nil
}
