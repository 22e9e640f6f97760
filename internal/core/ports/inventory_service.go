package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

type ApprovalService interface {
	ListPending(ctx context.Context, actor domain.Claims) ([]domain.Identity, error)
	Approve(ctx context.Context, actor domain.Claims, identityID string) error
}

// AddStockInput is a new ledger row as submitted by a pharmacy.
type AddStockInput struct {
	MedicineName   string
	Quantity       int64
	Price          decimal.Decimal
	ExpiryDate     string
	BatchNumber    string
	IdempotencyKey string
}

// AddStockResult identifies the stored row. Replayed is true when the
// Idempotency-Key matched an earlier submission and nothing was written.
type AddStockResult struct {
	EntryID  string
	Replayed bool
}

type StockService interface {
	ListOwn(ctx context.Context, actor domain.Claims) ([]domain.StockEntry, error)
	Add(ctx context.Context, actor domain.Claims, input AddStockInput) (*AddStockResult, error)
	ListAllApproved(ctx context.Context, actor domain.Claims) ([]domain.OwnedStock, error)
}

type DashboardService interface {
	Build(ctx context.Context, actor domain.Claims) (*domain.Dashboard, error)
	Snapshot(ctx context.Context, actor domain.Claims) (*domain.Snapshot, error)
	RefreshSnapshot(ctx context.Context) (*domain.Snapshot, error)
}
