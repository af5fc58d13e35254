package property

import (
	"time"

	"github.com/ripgraphics/bookin-pms/internal/role"
)

// AssignmentStatus represents the status of an assignment
type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "active"
	AssignmentStatusInactive AssignmentStatus = "inactive"
)

// Property represents a managed unit tied 1:1 to a listing,
// owned by exactly one user.
type Property struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN
	OwnerName string `json:"owner_name,omitempty"`
}

// Assignment binds a user to a property with operational
// responsibility. Deactivated rather than deleted to preserve history.
type Assignment struct {
	ID             int64            `json:"id"`
	PropertyID     int64            `json:"property_id"`
	UserID         int64            `json:"user_id"`
	Role           role.Role        `json:"role"`
	CommissionRate float64          `json:"commission_rate"`
	Status         AssignmentStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`

	// Populated via JOIN
	UserName string `json:"user_name,omitempty"`
}
