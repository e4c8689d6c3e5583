// Package capacity computes seat usage figures for organizations.
package capacity

import (
	"math"

	"studyhub/internal/model"
)

const (
	// HighThreshold is the first percentage reported as high usage.
	HighThreshold = 80
	// FullThreshold is the percentage at which no seat is left.
	FullThreshold = 100
)

// Percentage returns round(100*members/limit) clamped to [0,100], and 0 when
// the organization has no seats.
func Percentage(members, limit int) int {
	if limit <= 0 || members <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(members) / float64(limit)))
	if pct > 100 {
		return 100
	}
	return pct
}

// StatusFor buckets the usage. A seatless organization with members is full.
func StatusFor(members, limit int) model.CapacityStatus {
	if limit <= 0 {
		if members > 0 {
			return model.CapacityFull
		}
		return model.CapacityOK
	}
	switch pct := Percentage(members, limit); {
	case pct >= FullThreshold:
		return model.CapacityFull
	case pct >= HighThreshold:
		return model.CapacityHigh
	default:
		return model.CapacityOK
	}
}

// Of builds the capacity read model of an organization.
func Of(orgID string, members, limit int) model.Capacity {
	return model.Capacity{
		OrganizationID: orgID,
		Members:        members,
		Limit:          limit,
		Percentage:     Percentage(members, limit),
		Status:         StatusFor(members, limit),
	}
}
