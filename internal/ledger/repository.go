package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository persists ledger entries. Insert and read only: the table
// has no application-level update or delete.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new ledger repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a new ledger entry
func (r *Repository) Insert(ctx context.Context, tx *Transaction) (*Transaction, error) {
	query := `
		INSERT INTO financial_transactions
			(property_id, type, amount, currency_code, source_type, source_id, from_user_id, to_user_id, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		tx.PropertyID,
		tx.Type,
		tx.Amount,
		tx.CurrencyCode,
		tx.SourceType,
		tx.SourceID,
		tx.FromUserID,
		tx.ToUserID,
		tx.Description,
		tx.Status,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return tx, nil
}

// List retrieves ledger entries matching the filter, newest first
func (r *Repository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Transaction, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argn := 0

	next := func(v interface{}) string {
		argn++
		args = append(args, v)
		return fmt.Sprintf("$%d", argn)
	}

	if filter.PropertyID != nil {
		where += ` AND property_id = ` + next(*filter.PropertyID)
	}
	if filter.Type != nil {
		where += ` AND type = ` + next(*filter.Type)
	}
	if filter.From != nil {
		where += ` AND created_at >= ` + next(*filter.From)
	}
	if filter.To != nil {
		where += ` AND created_at <= ` + next(*filter.To)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM financial_transactions ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT id, property_id, type, amount, currency_code, source_type, source_id,
		       from_user_id, to_user_id, description, status, created_at
		FROM financial_transactions ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ` + next(limit) + ` OFFSET ` + next(offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		tx := &Transaction{}
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
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, total, nil
}
