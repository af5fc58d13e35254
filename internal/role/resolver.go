package role

import "context"

// Querier is the set of existence checks the resolver needs
type Querier interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	OwnsProperty(ctx context.Context, userID, propertyID int64) (bool, error)
	OwnsAnyProperty(ctx context.Context, userID int64) (bool, error)
	AssignmentRole(ctx context.Context, userID, propertyID int64) (Role, error)
	HasActiveAssignment(ctx context.Context, userID int64) (bool, error)
	HasReservation(ctx context.Context, userID, propertyID int64) (bool, error)
	HasAnyReservation(ctx context.Context, userID int64) (bool, error)
}

// Resolver computes a caller's role once per request.
// In property scope a direct stake outranks the platform-admin flag:
// owner > host/co-host > admin > guest. Dashboard resolution is
// admin-first. First match wins.
type Resolver struct {
	repo Querier
}

// NewResolver creates a new role resolver
func NewResolver(repo Querier) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve determines the caller's role with respect to one property.
// Ownership and assignments are checked before the admin flag so an
// admin who owns or works a property keeps its write authority.
func (r *Resolver) Resolve(ctx context.Context, userID, propertyID int64) (Role, error) {
	owns, err := r.repo.OwnsProperty(ctx, userID, propertyID)
	if err != nil {
		return RoleNone, err
	}
	if owns {
		return RoleOwner, nil
	}

	assigned, err := r.repo.AssignmentRole(ctx, userID, propertyID)
	if err != nil {
		return RoleNone, err
	}
	if assigned == RoleHost || assigned == RoleCoHost {
		return assigned, nil
	}

	isAdmin, err := r.repo.IsAdmin(ctx, userID)
	if err != nil {
		return RoleNone, err
	}
	if isAdmin {
		return RoleAdmin, nil
	}

	hasReservation, err := r.repo.HasReservation(ctx, userID, propertyID)
	if err != nil {
		return RoleNone, err
	}
	if hasReservation {
		return RoleGuest, nil
	}

	return RoleNone, nil
}

// ResolveDashboard determines which dashboard the caller lands on when
// no single property is in scope.
func (r *Resolver) ResolveDashboard(ctx context.Context, userID int64) (Role, error) {
	isAdmin, err := r.repo.IsAdmin(ctx, userID)
	if err != nil {
		return RoleNone, err
	}
	if isAdmin {
		return RoleAdmin, nil
	}

	owns, err := r.repo.OwnsAnyProperty(ctx, userID)
	if err != nil {
		return RoleNone, err
	}
	if owns {
		return RoleOwner, nil
	}

	assigned, err := r.repo.HasActiveAssignment(ctx, userID)
	if err != nil {
		return RoleNone, err
	}
	if assigned {
		return RoleHost, nil
	}

	hasReservation, err := r.repo.HasAnyReservation(ctx, userID)
	if err != nil {
		return RoleNone, err
	}
	if hasReservation {
		return RoleGuest, nil
	}

	return RoleNone, nil
}
