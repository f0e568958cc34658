package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role within the system.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleOperator   Role = "operator"
	RoleCustomer   Role = "customer"
)

// StaffRoles are the roles that receive staff-only notifications such as
// new-order alerts.
var StaffRoles = []Role{RoleAdmin, RoleOperator, RoleSuperAdmin}

// IsStaff reports whether the role belongs to venue staff.
func (r Role) IsStaff() bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

// User is a persisted account.
type User struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Role      Role
	VenueIDs  []uuid.UUID
	IsActive  bool
	CreatedAt time.Time
}

// Identity is the resolved session identity attached to a real-time
// connection at admission time. It is immutable for the connection's
// lifetime.
type Identity struct {
	UserID   uuid.UUID
	Role     Role
	VenueIDs []uuid.UUID
}

// CanAccessVenue is the single access predicate shared by every admission
// entry point: superadmin may join any venue, everyone else must have the
// venue in scope.
func (i Identity) CanAccessVenue(venueID uuid.UUID) bool {
	if i.Role == RoleSuperAdmin {
		return true
	}
	for _, id := range i.VenueIDs {
		if id == venueID {
			return true
		}
	}
	return false
}

// CanAccessUser reports whether the identity may join the personal stream of
// the given user: superadmin, or the user themselves.
func (i Identity) CanAccessUser(userID uuid.UUID) bool {
	return i.Role == RoleSuperAdmin || i.UserID == userID
}

// IdentityOf builds the session identity for a user record.
func IdentityOf(u *User) Identity {
	return Identity{
		UserID:   u.ID,
		Role:     u.Role,
		VenueIDs: u.VenueIDs,
	}
}
