package ledger

import (
	"context"
	"errors"

	"github.com/ripgraphics/bookin-pms/internal/role"
)

// Common errors
var (
	ErrNotAuthorized    = errors.New("not authorized to view these transactions")
	ErrPropertyRequired = errors.New("property_id is required")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("transaction amount must be positive")
	ErrInvalidParties   = errors.New("transaction requires distinct from/to users")
	ErrInvalidSource    = errors.New("transaction requires a source reference")
)

// RoleResolver resolves a caller's role on a property
type RoleResolver interface {
	Resolve(ctx context.Context, userID, propertyID int64) (role.Role, error)
}

// Store is the persistence surface the service needs
type Store interface {
	Insert(ctx context.Context, tx *Transaction) (*Transaction, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Transaction, int, error)
}

// Service owns the append-only financial transaction log.
// Record is the only write; there is no dedup key, so callers must
// invoke it exactly once per money-movement event.
type Service struct {
	repo  Store
	roles RoleResolver
}

// NewService creates a new ledger service
func NewService(repo Store, roles RoleResolver) *Service {
	return &Service{repo: repo, roles: roles}
}

// Record appends one ledger entry
func (s *Service) Record(ctx context.Context, tx *Transaction) (*Transaction, error) {
	if !tx.Type.Valid() {
		return nil, ErrInvalidType
	}
	if tx.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if tx.FromUserID == 0 || tx.ToUserID == 0 || tx.FromUserID == tx.ToUserID {
		return nil, ErrInvalidParties
	}
	if tx.SourceID == 0 || (tx.SourceType != SourceInvoice && tx.SourceType != SourceExpense) {
		return nil, ErrInvalidSource
	}
	if tx.Status == "" {
		tx.Status = StatusCompleted
	}

	return s.repo.Insert(ctx, tx)
}

// ListForUser returns ledger entries for a property the caller owns.
// Admins may query any property.
func (s *Service) ListForUser(ctx context.Context, userID int64, filter Filter, page, perPage int) ([]*Transaction, int, error) {
	if filter.PropertyID == nil {
		return nil, 0, ErrPropertyRequired
	}

	resolved, err := s.roles.Resolve(ctx, userID, *filter.PropertyID)
	if err != nil {
		return nil, 0, err
	}
	if resolved != role.RoleOwner && resolved != role.RoleAdmin {
		return nil, 0, ErrNotAuthorized
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, filter, perPage, offset)
}
