package property

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles property and assignment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new property repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new managed property
func (r *Repository) Create(ctx context.Context, ownerID int64, req *OnboardPropertyRequest) (*Property, error) {
	query := `
		INSERT INTO properties (listing_id, owner_id, name, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, listing_id, owner_id, name, address, created_at
	`

	property := &Property{}
	err := r.db.QueryRowContext(ctx, query,
		req.ListingID,
		ownerID,
		req.Name,
		req.Address,
	).Scan(
		&property.ID,
		&property.ListingID,
		&property.OwnerID,
		&property.Name,
		&property.Address,
		&property.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	return property, nil
}

// GetByID retrieves a property by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	query := `
		SELECT p.id, p.listing_id, p.owner_id, p.name, p.address, p.created_at, u.username
		FROM properties p
		JOIN users u ON p.owner_id = u.id
		WHERE p.id = $1
	`

	property := &Property{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&property.ID,
		&property.ListingID,
		&property.OwnerID,
		&property.Name,
		&property.Address,
		&property.CreatedAt,
		&property.OwnerName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return property, nil
}

// ListByOwner retrieves all properties owned by a user
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*Property, error) {
	query := `
		SELECT id, listing_id, owner_id, name, address, created_at
		FROM properties
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []*Property
	for rows.Next() {
		property := &Property{}
		if err := rows.Scan(
			&property.ID,
			&property.ListingID,
			&property.OwnerID,
			&property.Name,
			&property.Address,
			&property.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}

	return properties, nil
}

// CreateAssignment inserts a new active assignment
func (r *Repository) CreateAssignment(ctx context.Context, propertyID int64, req *CreateAssignmentRequest) (*Assignment, error) {
	query := `
		INSERT INTO assignments (property_id, user_id, role, commission_rate, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, property_id, user_id, role, commission_rate, status, created_at
	`

	assignment := &Assignment{}
	err := r.db.QueryRowContext(ctx, query,
		propertyID,
		req.UserID,
		req.Role,
		req.CommissionRate,
		AssignmentStatusActive,
	).Scan(
		&assignment.ID,
		&assignment.PropertyID,
		&assignment.UserID,
		&assignment.Role,
		&assignment.CommissionRate,
		&assignment.Status,
		&assignment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// GetAssignmentByID retrieves an assignment by its ID
func (r *Repository) GetAssignmentByID(ctx context.Context, id int64) (*Assignment, error) {
	query := `
		SELECT a.id, a.property_id, a.user_id, a.role, a.commission_rate, a.status, a.created_at, u.username
		FROM assignments a
		JOIN users u ON a.user_id = u.id
		WHERE a.id = $1
	`

	assignment := &Assignment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.PropertyID,
		&assignment.UserID,
		&assignment.Role,
		&assignment.CommissionRate,
		&assignment.Status,
		&assignment.CreatedAt,
		&assignment.UserName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

// HasActiveAssignment reports whether a user already holds an active
// assignment on the property.
func (r *Repository) HasActiveAssignment(ctx context.Context, propertyID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE property_id = $1 AND user_id = $2 AND status = 'active'
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, propertyID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return exists, nil
}

// ListAssignments retrieves all assignments for a property
func (r *Repository) ListAssignments(ctx context.Context, propertyID int64) ([]*Assignment, error) {
	query := `
		SELECT a.id, a.property_id, a.user_id, a.role, a.commission_rate, a.status, a.created_at, u.username
		FROM assignments a
		JOIN users u ON a.user_id = u.id
		WHERE a.property_id = $1
		ORDER BY a.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*Assignment
	for rows.Next() {
		assignment := &Assignment{}
		if err := rows.Scan(
			&assignment.ID,
			&assignment.PropertyID,
			&assignment.UserID,
			&assignment.Role,
			&assignment.CommissionRate,
			&assignment.Status,
			&assignment.CreatedAt,
			&assignment.UserName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}

// DeactivateAssignment flips an assignment to inactive
func (r *Repository) DeactivateAssignment(ctx context.Context, id int64) (*Assignment, error) {
	query := `
		UPDATE assignments
		SET status = $2
		WHERE id = $1
		RETURNING id, property_id, user_id, role, commission_rate, status, created_at
	`

	assignment := &Assignment{}
	err := r.db.QueryRowContext(ctx, query, id, AssignmentStatusInactive).Scan(
		&assignment.ID,
		&assignment.PropertyID,
		&assignment.UserID,
		&assignment.Role,
		&assignment.CommissionRate,
		&assignment.Status,
		&assignment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to deactivate assignment: %w", err)
	}

	return assignment, nil
}
