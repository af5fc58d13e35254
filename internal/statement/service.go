package statement

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ripgraphics/bookin-pms/internal/role"
)

// ErrNotOwner is returned when the caller owns no properties
var ErrNotOwner = errors.New("statements are only available to property owners")

// Store is the persistence surface the service needs
type Store interface {
	RevenueByProperty(ctx context.Context, ownerID int64) ([]*PropertyAmount, error)
	ExpensesByProperty(ctx context.Context, ownerID int64) ([]*PropertyAmount, error)
}

// DashboardResolver resolves the caller's platform-wide role
type DashboardResolver interface {
	ResolveDashboard(ctx context.Context, userID int64) (role.Role, error)
}

// Service generates owner financial statements
type Service struct {
	repo  Store
	roles DashboardResolver

	now func() time.Time
}

// NewService creates a new statement service
func NewService(repo Store, roles DashboardResolver) *Service {
	return &Service{repo: repo, roles: roles, now: time.Now}
}

// Generate builds the owner's statement for the period: per property,
// revenue from paid invoices minus expenses gives net.
func (s *Service) Generate(ctx context.Context, ownerID int64, period Period) (*Statement, error) {
	resolved, err := s.roles.ResolveDashboard(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if resolved != role.RoleOwner && resolved != role.RoleAdmin {
		return nil, ErrNotOwner
	}

	revenue, err := s.repo.RevenueByProperty(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.repo.ExpensesByProperty(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	expenseByProperty := make(map[int64]float64, len(expenses))
	for _, e := range expenses {
		expenseByProperty[e.PropertyID] = e.Amount
	}

	stmt := &Statement{
		OwnerID:     ownerID,
		Period:      period,
		GeneratedAt: s.now(),
		Properties:  make([]*PropertyStatement, 0, len(revenue)),
	}

	for _, rev := range revenue {
		exp := expenseByProperty[rev.PropertyID]
		ps := &PropertyStatement{
			PropertyID:   rev.PropertyID,
			PropertyName: rev.PropertyName,
			Revenue:      roundCents(rev.Amount),
			Expenses:     roundCents(exp),
		}
		ps.Net = roundCents(ps.Revenue - ps.Expenses)

		stmt.Properties = append(stmt.Properties, ps)
		stmt.TotalRevenue += ps.Revenue
		stmt.TotalExpenses += ps.Expenses
	}

	stmt.TotalRevenue = roundCents(stmt.TotalRevenue)
	stmt.TotalExpenses = roundCents(stmt.TotalExpenses)
	stmt.NetIncome = roundCents(stmt.TotalRevenue - stmt.TotalExpenses)

	return stmt, nil
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
