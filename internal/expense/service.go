package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ripgraphics/bookin-pms/internal/ledger"
	"github.com/ripgraphics/bookin-pms/internal/role"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrNotAssigned         = errors.New("only an active host, co-host or the owner can submit expenses")
	ErrNotPropertyOwner    = errors.New("only the property owner can act on this expense")
	ErrNotAuthorized       = errors.New("not authorized to view this expense")
	ErrInvalidStatusChange = errors.New("expense is no longer pending")
	ErrReasonRequired      = errors.New("rejection reason is required")
	ErrInvalidAmount       = errors.New("expense amount must be positive")
	ErrInvalidCurrency     = errors.New("currency code must be a 3-letter code")
	ErrCategoryRequired    = errors.New("expense category is required")
)

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, createdBy int64, req *SubmitExpenseRequest) (*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]*Expense, int, error)
	Approve(ctx context.Context, id, approverID int64, notes *string, now time.Time) (*Expense, error)
	Reject(ctx context.Context, id, approverID int64, reason string, now time.Time) (*Expense, error)
}

// RoleResolver resolves a caller's role on a property
type RoleResolver interface {
	Resolve(ctx context.Context, userID, propertyID int64) (role.Role, error)
}

// TransactionRecorder appends entries to the financial ledger
type TransactionRecorder interface {
	Record(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error)
}

// Service handles the expense approval workflow
type Service struct {
	repo   Store
	roles  RoleResolver
	ledger TransactionRecorder
	logger *zap.Logger

	now func() time.Time
}

// NewService creates a new expense service
func NewService(repo Store, roles RoleResolver, recorder TransactionRecorder, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		roles:  roles,
		ledger: recorder,
		logger: logger,
		now:    time.Now,
	}
}

// Submit creates a new expense in pending status. The submitter must
// hold an active host/co-host assignment on the property or own it.
func (s *Service) Submit(ctx context.Context, submitterID int64, req *SubmitExpenseRequest) (*Expense, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	req.CurrencyCode = strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if len(req.CurrencyCode) != 3 {
		return nil, ErrInvalidCurrency
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, ErrCategoryRequired
	}

	resolved, err := s.roles.Resolve(ctx, submitterID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !resolved.Manages() {
		return nil, ErrNotAssigned
	}

	return s.repo.Create(ctx, submitterID, req)
}

// GetByID retrieves an expense, visible to the property's managers and
// the submitter.
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Expense, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	if expense.CreatedBy != userID {
		resolved, err := s.roles.Resolve(ctx, userID, expense.PropertyID)
		if err != nil {
			return nil, err
		}
		if !resolved.Manages() && resolved != role.RoleAdmin {
			return nil, ErrNotAuthorized
		}
	}

	return expense, nil
}

// ListByProperty retrieves expenses for a property the caller manages
func (s *Service) ListByProperty(ctx context.Context, propertyID, userID int64, page, perPage int) ([]*Expense, int, error) {
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

// Approve transitions a pending expense to approved and records the
// payout on the financial ledger. The ledger append is best-effort:
// a failure is logged and does not roll back the approval.
func (s *Service) Approve(ctx context.Context, expenseID, actorID int64, notes *string) (*Expense, error) {
	expense, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	resolved, err := s.roles.Resolve(ctx, actorID, expense.PropertyID)
	if err != nil {
		return nil, err
	}
	if resolved != role.RoleOwner {
		return nil, ErrNotPropertyOwner
	}

	approved, err := s.repo.Approve(ctx, expenseID, actorID, notes, s.now())
	if err != nil {
		return nil, err
	}
	if approved == nil {
		// Row exists but was not pending anymore.
		return nil, ErrInvalidStatusChange
	}

	// The ledger records two-party movements; an owner approving
	// their own expense has no counterparty, so no entry is made.
	if approved.CreatedBy != actorID {
		entry := &ledger.Transaction{
			PropertyID:   approved.PropertyID,
			Type:         ledger.TypeExpense,
			Amount:       approved.Amount,
			CurrencyCode: approved.CurrencyCode,
			SourceType:   ledger.SourceExpense,
			SourceID:     approved.ID,
			FromUserID:   actorID,
			ToUserID:     approved.CreatedBy,
			Description:  fmt.Sprintf("Approved expense: %s", approved.Category),
			Status:       ledger.StatusCompleted,
		}
		if _, err := s.ledger.Record(ctx, entry); err != nil {
			s.logger.Error("ledger append failed after expense approval",
				zap.Int64("expense_id", approved.ID),
				zap.Int64("property_id", approved.PropertyID),
				zap.Float64("amount", approved.Amount),
				zap.Error(err),
			)
		}
	}

	return approved, nil
}

// Reject transitions a pending expense to rejected. A non-empty
// rejection reason is mandatory. No ledger entry is created.
func (s *Service) Reject(ctx context.Context, expenseID, actorID int64, reason string) (*Expense, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	expense, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	resolved, err := s.roles.Resolve(ctx, actorID, expense.PropertyID)
	if err != nil {
		return nil, err
	}
	if resolved != role.RoleOwner {
		return nil, ErrNotPropertyOwner
	}

	rejected, err := s.repo.Reject(ctx, expenseID, actorID, reason, s.now())
	if err != nil {
		return nil, err
	}
	if rejected == nil {
		return nil, ErrInvalidStatusChange
	}

	return rejected, nil
}
