package ports

import (
	"context"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// IdentityRepository is the credential store.
type IdentityRepository interface {
	// Create inserts a new identity. A username or email collision returns
	// domain.ErrDuplicateIdentity.
	Create(ctx context.Context, identity *domain.Identity) error
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// ListPending returns unapproved pharmacies, oldest first.
	ListPending(ctx context.Context) ([]domain.Identity, error)
	// Approve sets is_approved to true. It never sets it back to false and
	// returns domain.ErrNotFound when id does not exist.
	Approve(ctx context.Context, id string) error

	CountPharmacies(ctx context.Context, approved bool) (int64, error)
	// RecentPharmacies returns the newest pharmacy identities regardless of approval.
	RecentPharmacies(ctx context.Context, limit int) ([]domain.Identity, error)
}
