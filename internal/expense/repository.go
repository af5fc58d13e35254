package expense

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseColumns = `id, property_id, amount, currency_code, category, description, status,
	created_by, approved_by, approved_at, rejection_reason, notes, created_at`

// Create inserts a new expense in pending status
func (r *Repository) Create(ctx context.Context, createdBy int64, req *SubmitExpenseRequest) (*Expense, error) {
	query := `
		INSERT INTO expenses (property_id, amount, currency_code, category, description, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + expenseColumns

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query,
		req.PropertyID,
		req.Amount,
		req.CurrencyCode,
		req.Category,
		req.Description,
		StatusPending,
		createdBy,
	).Scan(expense.scanDest()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.property_id, e.amount, e.currency_code, e.category, e.description, e.status,
		       e.created_by, e.approved_by, e.approved_at, e.rejection_reason, e.notes, e.created_at,
		       u.username
		FROM expenses e
		JOIN users u ON e.created_by = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	dest := append(expense.scanDest(), &expense.SubmitterName)
	err := r.db.QueryRowContext(ctx, query, id).Scan(dest...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// ListByProperty retrieves expenses for a property, newest first
func (r *Repository) ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE property_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, propertyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.property_id, e.amount, e.currency_code, e.category, e.description, e.status,
		       e.created_by, e.approved_by, e.approved_at, e.rejection_reason, e.notes, e.created_at,
		       u.username
		FROM expenses e
		JOIN users u ON e.created_by = u.id
		WHERE e.property_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, propertyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		dest := append(expense.scanDest(), &expense.SubmitterName)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// Approve atomically transitions a pending expense to approved.
// The status precondition sits in the WHERE clause so two concurrent
// approvals cannot both succeed. Returns nil when no pending row
// matched.
func (r *Repository) Approve(ctx context.Context, id, approverID int64, notes *string, now time.Time) (*Expense, error) {
	query := `
		UPDATE expenses
		SET status = $2, approved_by = $3, approved_at = $4, notes = $5
		WHERE id = $1 AND status = $6
		RETURNING ` + expenseColumns

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id, StatusApproved, approverID, now, notes, StatusPending).
		Scan(expense.scanDest()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to approve expense: %w", err)
	}

	return expense, nil
}

// Reject atomically transitions a pending expense to rejected.
// Returns nil when no pending row matched.
func (r *Repository) Reject(ctx context.Context, id, approverID int64, reason string, now time.Time) (*Expense, error) {
	query := `
		UPDATE expenses
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5
		WHERE id = $1 AND status = $6
		RETURNING ` + expenseColumns

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id, StatusRejected, approverID, now, reason, StatusPending).
		Scan(expense.scanDest()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to reject expense: %w", err)
	}

	return expense, nil
}

// scanDest returns scan targets in expenseColumns order
func (e *Expense) scanDest() []interface{} {
	return []interface{}{
		&e.ID,
		&e.PropertyID,
		&e.Amount,
		&e.CurrencyCode,
		&e.Category,
		&e.Description,
		&e.Status,
		&e.CreatedBy,
		&e.ApprovedBy,
		&e.ApprovedAt,
		&e.RejectionReason,
		&e.Notes,
		&e.CreatedAt,
	}
}
