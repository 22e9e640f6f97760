package ports

import (
	"context"
	"time"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// StockRepository is the append-only stock ledger. Every method returning
// OwnedStock or aggregate values only considers rows whose owner is approved;
// the predicate is part of the store query.
type StockRepository interface {
	Add(ctx context.Context, entry *domain.StockEntry) error
	ListByPharmacy(ctx context.Context, pharmacyID string) ([]domain.StockEntry, error)
	ListAllApproved(ctx context.Context) ([]domain.OwnedStock, error)

	CountApproved(ctx context.Context) (int64, error)
	// LowStock returns rows with quantity < threshold, ascending by quantity.
	LowStock(ctx context.Context, threshold int64, limit int) ([]domain.OwnedStock, error)
	// ExpiringBy returns rows with expiry_date <= cutoff, ascending by expiry.
	ExpiringBy(ctx context.Context, cutoff time.Time, limit int) ([]domain.OwnedStock, error)
	// TopMedicines groups by medicine name, ordered by summed quantity desc.
	TopMedicines(ctx context.Context, limit int) ([]domain.MedicineAvailability, error)
}
