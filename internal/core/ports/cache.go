package ports

import (
	"context"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// IdempotencyStore remembers which stock entry an Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve atomically claims (scope, key) for entryID. When the key is
	// already held it returns the entry id of the first claimant and false.
	Reserve(ctx context.Context, scope, key, entryID string) (string, bool, error)
	// Release drops a claim whose write failed so the key can be retried.
	Release(ctx context.Context, scope, key string) error
}

// SnapshotStore keeps the latest analytics snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	// Latest returns domain.ErrNotFound until a snapshot has been saved.
	Latest(ctx context.Context) (*domain.Snapshot, error)
}
