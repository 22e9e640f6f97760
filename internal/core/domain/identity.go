package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleGovernment Role = "government"
	RolePharmacy   Role = "pharmacy"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGovernment, RolePharmacy, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidIdentity, s)
	}
	return r, nil
}

// Identity is a registered account.
type Identity struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"user_type"`
	IsApproved    bool      `json:"is_approved"`
	PharmacyName  string    `json:"pharmacy_name,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
	Address       string    `json:"address,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ApprovedAtCreation is the approval state an identity of role r gets when it
// registers through the public path. Only admins skip the approval step.
func ApprovedAtCreation(r Role) bool {
	return r == RoleAdmin
}

// NormalizeUsername turns a human-readable name into a username base:
// trimmed, lower-cased, with whitespace runs replaced by underscores.
func NormalizeUsername(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// DisambiguatedUsername returns the n-th candidate for base: base itself for
// n == 0, base_n otherwise.
func DisambiguatedUsername(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}

// Claims is the verified content of a session token.
type Claims struct {
	IdentityID string
	Role       Role
	ExpiresAt  time.Time
}
