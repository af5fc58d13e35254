package property

import "github.com/ripgraphics/bookin-pms/internal/role"

// OnboardPropertyRequest represents the request to bring a listing
// under management
type OnboardPropertyRequest struct {
	ListingID int64  `json:"listing_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Address   string `json:"address" validate:"required,min=1,max=500"`
}

// CreateAssignmentRequest represents the request to assign a host or
// co-host to a property
type CreateAssignmentRequest struct {
	UserID         int64     `json:"user_id" validate:"required"`
	Role           role.Role `json:"role" validate:"required,oneof=host co_host"`
	CommissionRate float64   `json:"commission_rate" validate:"gte=0,lte=100"`
}

// PropertyResponse represents the response for a property
type PropertyResponse struct {
	ID        int64  `json:"id"`
	ListingID int64  `json:"listing_id"`
	OwnerID   int64  `json:"owner_id"`
	OwnerName string `json:"owner_name,omitempty"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

// AssignmentResponse represents the response for an assignment
type AssignmentResponse struct {
	ID             int64            `json:"id"`
	PropertyID     int64            `json:"property_id"`
	UserID         int64            `json:"user_id"`
	UserName       string           `json:"user_name,omitempty"`
	Role           role.Role        `json:"role"`
	CommissionRate float64          `json:"commission_rate"`
	Status         AssignmentStatus `json:"status"`
	CreatedAt      string           `json:"created_at"`
}

// ToResponse converts a Property model to a PropertyResponse DTO
func (p *Property) ToResponse() *PropertyResponse {
	return &PropertyResponse{
		ID:        p.ID,
		ListingID: p.ListingID,
		OwnerID:   p.OwnerID,
		OwnerName: p.OwnerName,
		Name:      p.Name,
		Address:   p.Address,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts an Assignment model to an AssignmentResponse DTO
func (a *Assignment) ToResponse() *AssignmentResponse {
	return &AssignmentResponse{
		ID:             a.ID,
		PropertyID:     a.PropertyID,
		UserID:         a.UserID,
		UserName:       a.UserName,
		Role:           a.Role,
		CommissionRate: a.CommissionRate,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
