package entity

import (
	"time"
)

// MembershipStatus is the subscription tier of a user
type MembershipStatus string

const (
	MembershipBasic   MembershipStatus = "basic"
	MembershipPremium MembershipStatus = "premium"
	MembershipVIP     MembershipStatus = "vip"
)

// Valid reports whether s is one of the known tiers
func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipBasic, MembershipPremium, MembershipVIP:
		return true
	}
	return false
}

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field and never serialized.
type User struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Password         string           `json:"-"`
	Age              *int             `json:"age"`
	RoleID           *int64           `json:"role_id"`
	MembershipStatus MembershipStatus `json:"membership_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
