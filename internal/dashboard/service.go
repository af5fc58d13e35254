package dashboard

import (
	"context"
	"errors"

	"github.com/ripgraphics/bookin-pms/internal/role"
)

// Common errors
var (
	ErrNoDashboard = errors.New("no dashboard available for this user")
	ErrWrongRole   = errors.New("caller does not hold the requested dashboard role")
)

const recentTransactionLimit = 10

// DashboardResolver picks the dashboard a caller lands on
type DashboardResolver interface {
	ResolveDashboard(ctx context.Context, userID int64) (role.Role, error)
}

// Service assembles the role-specific read models
type Service struct {
	repo  *Repository
	roles DashboardResolver
}

// NewService creates a new dashboard service
func NewService(repo *Repository, roles DashboardResolver) *Service {
	return &Service{repo: repo, roles: roles}
}

// ForUser resolves the caller's role and returns the matching
// dashboard. Admin supersedes all others.
func (s *Service) ForUser(ctx context.Context, userID int64) (*Dashboard, error) {
	resolved, err := s.roles.ResolveDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch resolved {
	case role.RoleAdmin:
		return s.admin(ctx)
	case role.RoleOwner:
		return s.owner(ctx, userID)
	case role.RoleHost, role.RoleCoHost:
		return s.host(ctx, userID, resolved)
	case role.RoleGuest:
		return s.guest(ctx, userID)
	default:
		return nil, ErrNoDashboard
	}
}

// Owner returns the owner dashboard, requiring the caller to own at
// least one property.
func (s *Service) Owner(ctx context.Context, userID int64) (*Dashboard, error) {
	return s.requireRole(ctx, userID, role.RoleOwner, func() (*Dashboard, error) {
		return s.owner(ctx, userID)
	})
}

// Host returns the host dashboard, requiring an active assignment
func (s *Service) Host(ctx context.Context, userID int64) (*Dashboard, error) {
	return s.requireRole(ctx, userID, role.RoleHost, func() (*Dashboard, error) {
		return s.host(ctx, userID, role.RoleHost)
	})
}

// Guest returns the guest dashboard, requiring a reservation
func (s *Service) Guest(ctx context.Context, userID int64) (*Dashboard, error) {
	return s.requireRole(ctx, userID, role.RoleGuest, func() (*Dashboard, error) {
		return s.guest(ctx, userID)
	})
}

func (s *Service) requireRole(ctx context.Context, userID int64, want role.Role, build func() (*Dashboard, error)) (*Dashboard, error) {
	resolved, err := s.roles.ResolveDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	if resolved == role.RoleAdmin {
		// Admins get the administrative view regardless of the
		// dashboard they asked for.
		return s.admin(ctx)
	}
	if resolved != want && !(want == role.RoleHost && resolved == role.RoleCoHost) {
		return nil, ErrWrongRole
	}
	return build()
}

func (s *Service) owner(ctx context.Context, userID int64) (*Dashboard, error) {
	stats, err := s.repo.OwnerStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentTransactions(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Role: role.RoleOwner, Owner: stats, Recent: recent}, nil
}

func (s *Service) host(ctx context.Context, userID int64, resolved role.Role) (*Dashboard, error) {
	stats, err := s.repo.HostStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Role: resolved, Host: stats}, nil
}

func (s *Service) guest(ctx context.Context, userID int64) (*Dashboard, error) {
	stats, err := s.repo.GuestStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Role: role.RoleGuest, Guest: stats}, nil
}

func (s *Service) admin(ctx context.Context) (*Dashboard, error) {
	stats, err := s.repo.AdminStats(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Role: role.RoleAdmin, Admin: stats}, nil
}
