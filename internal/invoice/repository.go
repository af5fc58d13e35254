package invoice

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository handles invoice, line item and payment persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new invoice repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const invoiceColumns = `id, invoice_number, property_id, issued_by, issued_to, type, status,
	payment_status, currency_code, total_amount, amount_paid, amount_due,
	due_date, sent_date, paid_date, notes, created_at`

// Create inserts a draft invoice together with its line items in one
// transaction.
func (r *Repository) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices
			(invoice_number, property_id, issued_by, issued_to, type, status, payment_status,
			 currency_code, total_amount, amount_paid, amount_due, due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		inv.InvoiceNumber,
		inv.PropertyID,
		inv.IssuedBy,
		inv.IssuedTo,
		inv.Type,
		inv.Status,
		inv.PaymentStatus,
		inv.CurrencyCode,
		inv.TotalAmount,
		inv.AmountPaid,
		inv.AmountDue,
		inv.DueDate,
		inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	itemQuery := `
		INSERT INTO invoice_line_items
			(invoice_id, position, description, quantity, unit_price, tax_rate, discount_amount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for _, item := range inv.Items {
		item.InvoiceID = inv.ID
		if err := tx.QueryRowContext(ctx, itemQuery,
			inv.ID,
			item.Position,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.TaxRate,
			item.DiscountAmount,
			item.LineTotal,
		).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to create line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invoice: %w", err)
	}

	return inv, nil
}

// GetByID retrieves an invoice with its line items
func (r *Repository) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	inv := &Invoice{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(inv.scanDest()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	items, err := r.getLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return inv, nil
}

// ListByProperty retrieves invoices for a property, newest first
func (r *Repository) ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]*Invoice, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM invoices WHERE property_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, propertyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE property_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, propertyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv := &Invoice{}
		if err := rows.Scan(inv.scanDest()...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, total, nil
}

// MarkSent atomically transitions a draft invoice to sent.
// Returns nil when no draft row matched.
func (r *Repository) MarkSent(ctx context.Context, id int64, now time.Time) (*Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $2, sent_date = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + invoiceColumns

	inv := &Invoice{}
	err := r.db.QueryRowContext(ctx, query, id, StatusSent, now, StatusDraft).Scan(inv.scanDest()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark invoice sent: %w", err)
	}

	return inv, nil
}

// MarkPaid atomically settles an invoice that is not already paid:
// payment_status and status flip to paid, amount_paid absorbs the full
// total and amount_due drops to zero. Returns nil when the invoice was
// already paid.
func (r *Repository) MarkPaid(ctx context.Context, id int64, paidDate time.Time) (*Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $2, payment_status = $3, amount_paid = total_amount, amount_due = 0, paid_date = $4
		WHERE id = $1 AND payment_status <> $3 AND status NOT IN ($5)
		RETURNING ` + invoiceColumns

	inv := &Invoice{}
	err := r.db.QueryRowContext(ctx, query, id, StatusPaid, PaymentStatusPaid, paidDate, StatusCancelled).
		Scan(inv.scanDest()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	return inv, nil
}

// Cancel atomically cancels an invoice still in draft or sent.
// Returns nil when no such row matched.
func (r *Repository) Cancel(ctx context.Context, id int64) (*Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $2
		WHERE id = $1 AND status IN ($3, $4)
		RETURNING ` + invoiceColumns

	inv := &Invoice{}
	err := r.db.QueryRowContext(ctx, query, id, StatusCancelled, StatusDraft, StatusSent).
		Scan(inv.scanDest()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	return inv, nil
}

// CreatePayment inserts an immutable payment record
func (r *Repository) CreatePayment(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (invoice_id, amount, currency_code, method, payer_id, payment_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.InvoiceID,
		p.Amount,
		p.CurrencyCode,
		p.Method,
		p.PayerID,
		p.PaymentDate,
		p.Status,
		p.Notes,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return p, nil
}

// GetPdfData retrieves the fully joined invoice for external rendering
func (r *Repository) GetPdfData(ctx context.Context, id int64) (*PdfData, error) {
	query := `
		SELECT p.name, p.address, issuer.username, recipient.username
		FROM invoices i
		JOIN properties p ON i.property_id = p.id
		JOIN users issuer ON i.issued_by = issuer.id
		JOIN users recipient ON i.issued_to = recipient.id
		WHERE i.id = $1
	`

	data := &PdfData{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&data.PropertyName,
		&data.PropertyAddress,
		&data.IssuerName,
		&data.RecipientName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice pdf data: %w", err)
	}

	inv, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data.Invoice = inv

	return data, nil
}

func (r *Repository) getLineItems(ctx context.Context, invoiceID int64) ([]*LineItem, error) {
	query := `
		SELECT id, invoice_id, position, description, quantity, unit_price, tax_rate, discount_amount, line_total
		FROM invoice_line_items
		WHERE invoice_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	var items []*LineItem
	for rows.Next() {
		item := &LineItem{}
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Position,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.TaxRate,
			&item.DiscountAmount,
			&item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// scanDest returns scan targets in invoiceColumns order
func (i *Invoice) scanDest() []interface{} {
	return []interface{}{
		&i.ID,
		&i.InvoiceNumber,
		&i.PropertyID,
		&i.IssuedBy,
		&i.IssuedTo,
		&i.Type,
		&i.Status,
		&i.PaymentStatus,
		&i.CurrencyCode,
		&i.TotalAmount,
		&i.AmountPaid,
		&i.AmountDue,
		&i.DueDate,
		&i.SentDate,
		&i.PaidDate,
		&i.Notes,
		&i.CreatedAt,
	}
}
