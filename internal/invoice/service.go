package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ripgraphics/bookin-pms/internal/ledger"
	"github.com/ripgraphics/bookin-pms/internal/role"
)

// Common errors
var (
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrNotIssuer           = errors.New("only the issuing party can act on this invoice")
	ErrNotParty            = errors.New("only the issuing or receiving party can view this invoice")
	ErrNotAuthorized       = errors.New("not authorized to manage invoices on this property")
	ErrInvalidStatusChange = errors.New("invoice state does not allow this transition")
	ErrNoLineItems         = errors.New("invoice requires at least one line item")
	ErrInvalidLineItem     = errors.New("line item has invalid quantity, price, tax or discount")
	ErrInvalidType         = errors.New("invoice type must be rental or operational")
	ErrInvalidCurrency     = errors.New("currency code must be a 3-letter code")
	ErrInvalidRecipient    = errors.New("invoice requires a recipient distinct from the issuer")
	ErrMethodRequired      = errors.New("payment method is required")
)

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]*Invoice, int, error)
	MarkSent(ctx context.Context, id int64, now time.Time) (*Invoice, error)
	MarkPaid(ctx context.Context, id int64, paidDate time.Time) (*Invoice, error)
	Cancel(ctx context.Context, id int64) (*Invoice, error)
	CreatePayment(ctx context.Context, p *Payment) (*Payment, error)
	GetPdfData(ctx context.Context, id int64) (*PdfData, error)
}

// RoleResolver resolves a caller's role on a property
type RoleResolver interface {
	Resolve(ctx context.Context, userID, propertyID int64) (role.Role, error)
}

// TransactionRecorder appends entries to the financial ledger
type TransactionRecorder interface {
	Record(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error)
}

// Service handles the invoice lifecycle
type Service struct {
	repo   Store
	roles  RoleResolver
	ledger TransactionRecorder
	logger *zap.Logger

	now func() time.Time
}

// NewService creates a new invoice service
func NewService(repo Store, roles RoleResolver, recorder TransactionRecorder, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		roles:  roles,
		ledger: recorder,
		logger: logger,
		now:    time.Now,
	}
}

// Create builds a draft invoice from its line items. The issuer must
// manage the property. Totals are the sum of line totals; the invoice
// number is generated here and cannot collide.
func (s *Service) Create(ctx context.Context, issuerID int64, req *CreateInvoiceRequest) (*Invoice, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	req.CurrencyCode = strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if len(req.CurrencyCode) != 3 {
		return nil, ErrInvalidCurrency
	}
	if req.IssuedTo == 0 || req.IssuedTo == issuerID {
		return nil, ErrInvalidRecipient
	}
	if len(req.LineItems) == 0 {
		return nil, ErrNoLineItems
	}

	resolved, err := s.roles.Resolve(ctx, issuerID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !resolved.Manages() {
		return nil, ErrNotAuthorized
	}

	items := make([]*LineItem, len(req.LineItems))
	var total float64
	for i, input := range req.LineItems {
		if input.Quantity <= 0 || input.UnitPrice < 0 || input.TaxRate < 0 || input.TaxRate > 100 || input.DiscountAmount < 0 {
			return nil, ErrInvalidLineItem
		}
		item := &LineItem{
			Position:       i + 1,
			Description:    input.Description,
			Quantity:       input.Quantity,
			UnitPrice:      input.UnitPrice,
			TaxRate:        input.TaxRate,
			DiscountAmount: input.DiscountAmount,
		}
		item.LineTotal = item.ComputeTotal()
		if item.LineTotal < 0 {
			return nil, ErrInvalidLineItem
		}
		total += item.LineTotal
		items[i] = item
	}
	total = roundCents(total)

	inv := &Invoice{
		InvoiceNumber: s.generateNumber(),
		PropertyID:    req.PropertyID,
		IssuedBy:      issuerID,
		IssuedTo:      req.IssuedTo,
		Type:          req.Type,
		Status:        StatusDraft,
		PaymentStatus: PaymentStatusUnpaid,
		CurrencyCode:  req.CurrencyCode,
		TotalAmount:   total,
		AmountPaid:    0,
		AmountDue:     total,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		Items:         items,
	}

	return s.repo.Create(ctx, inv)
}

// GetByID retrieves an invoice, visible to its parties, the property's
// managers and admins.
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}

	if inv.IssuedBy != userID && inv.IssuedTo != userID {
		resolved, err := s.roles.Resolve(ctx, userID, inv.PropertyID)
		if err != nil {
			return nil, err
		}
		if !resolved.Manages() && resolved != role.RoleAdmin {
			return nil, ErrNotParty
		}
	}

	return inv, nil
}

// ListByProperty retrieves invoices for a property the caller manages
func (s *Service) ListByProperty(ctx context.Context, propertyID, userID int64, page, perPage int) ([]*Invoice, int, error) {
	resolved, err := s.roles.Resolve(ctx, userID, propertyID)
	if err != nil {
		return nil, 0, err
	}
	if !resolved.Manages() && resolved != role.RoleAdmin {
		return nil, 0, ErrNotAuthorized
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByProperty(ctx, propertyID, perPage, offset)
}

// Send transitions a draft invoice to sent. Only the issuer may send.
func (s *Service) Send(ctx context.Context, invoiceID, actorID int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	if inv.IssuedBy != actorID {
		return nil, ErrNotIssuer
	}

	sent, err := s.repo.MarkSent(ctx, invoiceID, s.now())
	if err != nil {
		return nil, err
	}
	if sent == nil {
		return nil, ErrInvalidStatusChange
	}

	return sent, nil
}

// MarkPaid settles an invoice in full. The primary status update is
// atomic; the payment record and the ledger entry are best-effort side
// effects, logged on failure and never rolled back.
func (s *Service) MarkPaid(ctx context.Context, invoiceID, actorID int64, req *MarkPaidRequest) (*Invoice, error) {
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, ErrMethodRequired
	}

	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	if inv.IssuedBy != actorID {
		return nil, ErrNotIssuer
	}

	paidDate := s.now()
	if req.PaymentDate != nil {
		paidDate = *req.PaymentDate
	}

	paid, err := s.repo.MarkPaid(ctx, invoiceID, paidDate)
	if err != nil {
		return nil, err
	}
	if paid == nil {
		// Already paid, or cancelled.
		return nil, ErrInvalidStatusChange
	}

	payment := &Payment{
		InvoiceID:    paid.ID,
		Amount:       paid.TotalAmount,
		CurrencyCode: paid.CurrencyCode,
		Method:       req.PaymentMethod,
		PayerID:      paid.IssuedTo,
		PaymentDate:  paidDate,
		Status:       PaymentStatusCompleted,
		Notes:        req.Notes,
	}
	if _, err := s.repo.CreatePayment(ctx, payment); err != nil {
		s.logger.Error("payment record creation failed after invoice settled",
			zap.Int64("invoice_id", paid.ID),
			zap.Float64("amount", paid.TotalAmount),
			zap.Error(err),
		)
	}

	entry := &ledger.Transaction{
		PropertyID:   paid.PropertyID,
		Type:         ledger.TypeIncome,
		Amount:       paid.TotalAmount,
		CurrencyCode: paid.CurrencyCode,
		SourceType:   ledger.SourceInvoice,
		SourceID:     paid.ID,
		FromUserID:   paid.IssuedTo,
		ToUserID:     paid.IssuedBy,
		Description:  fmt.Sprintf("Invoice %s paid", paid.InvoiceNumber),
		Status:       ledger.StatusCompleted,
	}
	if _, err := s.ledger.Record(ctx, entry); err != nil {
		s.logger.Error("ledger append failed after invoice settled",
			zap.Int64("invoice_id", paid.ID),
			zap.Int64("property_id", paid.PropertyID),
			zap.Float64("amount", paid.TotalAmount),
			zap.Error(err),
		)
	}

	return paid, nil
}

// Cancel terminates an invoice still in draft or sent.
func (s *Service) Cancel(ctx context.Context, invoiceID, actorID int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	if inv.IssuedBy != actorID {
		return nil, ErrNotIssuer
	}

	cancelled, err := s.repo.Cancel(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if cancelled == nil {
		return nil, ErrInvalidStatusChange
	}

	return cancelled, nil
}

// GetPdfData returns the fully joined invoice for external rendering,
// visible only to the issuing or receiving party.
func (s *Service) GetPdfData(ctx context.Context, invoiceID, userID int64) (*PdfData, error) {
	data, err := s.repo.GetPdfData(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrInvoiceNotFound
	}
	if data.Invoice.IssuedBy != userID && data.Invoice.IssuedTo != userID {
		return nil, ErrNotParty
	}

	return data, nil
}

// generateNumber builds a unique invoice number from the current
// timestamp and a random suffix.
func (s *Service) generateNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("INV-%s-%s", s.now().UTC().Format("20060102-150405"), suffix)
}
