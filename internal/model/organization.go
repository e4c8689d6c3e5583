package model

import "fmt"

type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipPending MembershipStatus = "pending"
	MembershipRevoked MembershipStatus = "revoked"
)

type Organization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SeatLimit int    `json:"seat_limit"`
}

// OrganizationMembership links a user to an organization together with the
// organization's seat usage at read time.
type OrganizationMembership struct {
	OrganizationID   string           `json:"organization_id"`
	OrganizationName string           `json:"organization_name"`
	UserID           string           `json:"user_id"`
	Role             string           `json:"role"`
	Status           MembershipStatus `json:"status"`
	CurrentMembers   int              `json:"current_members"`
	SeatLimit        int              `json:"seat_limit"`
}

func (m OrganizationMembership) Validate() error {
	if m.OrganizationID == "" {
		return ErrMissingID
	}
	if m.UserID == "" {
		return ErrMissingOwner
	}
	switch m.Status {
	case MembershipActive, MembershipPending, MembershipRevoked:
		return nil
	}
	return fmt.Errorf("membership %s/%s: %w %q", m.OrganizationID, m.UserID, ErrUnknownStatus, m.Status)
}

// Active reports whether the membership grants access.
func (m OrganizationMembership) Active() bool {
	return m.Status == MembershipActive
}

type CapacityStatus string

const (
	CapacityOK   CapacityStatus = "ok"
	CapacityHigh CapacityStatus = "high"
	CapacityFull CapacityStatus = "full"
)

// Capacity is the seat usage of an organization.
type Capacity struct {
	OrganizationID string         `json:"organization_id"`
	Members        int            `json:"members"`
	Limit          int            `json:"limit"`
	Percentage     int            `json:"percentage"`
	Status         CapacityStatus `json:"status"`
}
