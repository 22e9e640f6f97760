package ports

import (
	"context"
	"time"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// LoginMode selects whether login fails closed on unapproved accounts.
type LoginMode int

const (
	// LoginStrict rejects unapproved identities with domain.ErrNotApproved.
	LoginStrict LoginMode = iota
	// LoginPermissive issues a token regardless of approval; downstream
	// policy checks still apply.
	LoginPermissive
)

func (m LoginMode) String() string {
	if m == LoginPermissive {
		return "permissive"
	}
	return "strict"
}

// RegisterInput carries the public registration fields.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	Role          string
	PharmacyName  string
	LicenseNumber string
	Address       string
	Phone         string
}

// PharmacySignupInput carries the self-signup fields. Password may be empty.
type PharmacySignupInput struct {
	Name     string
	Email    string
	Password string
	License  string
	Location string
	Phone    string
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  *domain.Identity
}

// SignupResult reports the generated credentials. GeneratedPassword is only
// set when the caller did not choose a password.
type SignupResult struct {
	Identity          *domain.Identity
	GeneratedPassword string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Identity, error)
	Login(ctx context.Context, username, password string, mode LoginMode) (*Session, error)
	SignupPharmacy(ctx context.Context, input PharmacySignupInput) (*SignupResult, error)
}

// TokenVerifier turns a bearer token into claims.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}
