package role

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository answers the existence queries role resolution is built on
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new role repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// IsAdmin reports whether the user carries the platform-admin flag
func (r *Repository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND is_admin = TRUE)`

	var isAdmin bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&isAdmin); err != nil {
		return false, fmt.Errorf("failed to check admin flag: %w", err)
	}
	return isAdmin, nil
}

// OwnsProperty reports whether the user owns the given property
func (r *Repository) OwnsProperty(ctx context.Context, userID, propertyID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1 AND owner_id = $2)`

	var owns bool
	if err := r.db.QueryRowContext(ctx, query, propertyID, userID).Scan(&owns); err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}
	return owns, nil
}

// OwnsAnyProperty reports whether the user owns at least one property
func (r *Repository) OwnsAnyProperty(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM properties WHERE owner_id = $1)`

	var owns bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&owns); err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}
	return owns, nil
}

// AssignmentRole returns the user's active assignment role on the
// property, or RoleNone when no active assignment exists.
func (r *Repository) AssignmentRole(ctx context.Context, userID, propertyID int64) (Role, error) {
	query := `
		SELECT role
		FROM assignments
		WHERE property_id = $1 AND user_id = $2 AND status = 'active'
		LIMIT 1
	`

	var assigned Role
	err := r.db.QueryRowContext(ctx, query, propertyID, userID).Scan(&assigned)
	if err != nil {
		if err == sql.ErrNoRows {
			return RoleNone, nil
		}
		return RoleNone, fmt.Errorf("failed to get assignment role: %w", err)
	}
	return assigned, nil
}

// HasActiveAssignment reports whether the user holds an active
// assignment on any property.
func (r *Repository) HasActiveAssignment(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM assignments WHERE user_id = $1 AND status = 'active')`

	var has bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&has); err != nil {
		return false, fmt.Errorf("failed to check assignments: %w", err)
	}
	return has, nil
}

// HasReservation reports whether the user has at least one reservation
// against the property's listing.
func (r *Repository) HasReservation(ctx context.Context, userID, propertyID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reservations res
			JOIN properties p ON res.listing_id = p.listing_id
			WHERE res.guest_id = $1 AND p.id = $2
		)
	`

	var has bool
	if err := r.db.QueryRowContext(ctx, query, userID, propertyID).Scan(&has); err != nil {
		return false, fmt.Errorf("failed to check reservations: %w", err)
	}
	return has, nil
}

// HasAnyReservation reports whether the user has any reservation at all
func (r *Repository) HasAnyReservation(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE guest_id = $1)`

	var has bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&has); err != nil {
		return false, fmt.Errorf("failed to check reservations: %w", err)
	}
	return has, nil
}
