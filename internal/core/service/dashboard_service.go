package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

// DashboardOptions tunes the aggregate thresholds.
type DashboardOptions struct {
	LowStockThreshold int64
	ExpiryWindow      time.Duration
	Limit             int
}

// DefaultDashboardOptions are the thresholds used when a field is left zero.
var DefaultDashboardOptions = DashboardOptions{
	LowStockThreshold: 50,
	ExpiryWindow:      30 * 24 * time.Hour,
	Limit:             10,
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = DefaultDashboardOptions.LowStockThreshold
	}
	if o.ExpiryWindow <= 0 {
		o.ExpiryWindow = DefaultDashboardOptions.ExpiryWindow
	}
	if o.Limit <= 0 {
		o.Limit = DefaultDashboardOptions.Limit
	}
	return o
}

// DashboardService computes cross-pharmacy aggregates. Nothing is cached:
// every Build reads the store.
type DashboardService struct {
	identities ports.IdentityRepository
	stocks     ports.StockRepository
	snapshots  ports.SnapshotStore
	opts       DashboardOptions
	logger     zerolog.Logger
	now        func() time.Time
}

func NewDashboardService(
	identities ports.IdentityRepository,
	stocks ports.StockRepository,
	snapshots ports.SnapshotStore,
	opts DashboardOptions,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		identities: identities,
		stocks:     stocks,
		snapshots:  snapshots,
		opts:       opts.withDefaults(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *DashboardService) Build(ctx context.Context, actor domain.Claims) (*domain.Dashboard, error) {
	if err := authorize(ctx, s.identities, actor, domain.ActionViewDashboard); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	counters, err := s.counters(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.stocks.LowStock(ctx, s.opts.LowStockThreshold, s.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard low stock: %w", err)
	}

	cutoff := domain.CalendarDate(now.Add(s.opts.ExpiryWindow))
	expiring, err := s.stocks.ExpiringBy(ctx, cutoff, s.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard expiring: %w", err)
	}

	recent, err := s.identities.RecentPharmacies(ctx, s.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard recent registrations: %w", err)
	}

	top, err := s.stocks.TopMedicines(ctx, s.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard top medicines: %w", err)
	}

	return &domain.Dashboard{
		Statistics: domain.Statistics{
			ApprovedPharmacies: counters.ApprovedPharmacies,
			PendingApprovals:   counters.PendingApprovals,
			TotalStockRows:     counters.TotalStockRows,
			LowStockCount:      len(lowStock),
			ExpiringSoonCount:  len(expiring),
		},
		RecentRegistrations: recent,
		LowStock:            lowStock,
		ExpiringSoon:        expiring,
		TopMedicines:        top,
		GeneratedAt:         now,
	}, nil
}

// Snapshot returns the most recently recorded counters.
func (s *DashboardService) Snapshot(ctx context.Context, actor domain.Claims) (*domain.Snapshot, error) {
	if err := authorize(ctx, s.identities, actor, domain.ActionViewAnalyticsSnapshot); err != nil {
		return nil, err
	}
	if s.snapshots == nil {
		return nil, domain.ErrNotFound
	}
	return s.snapshots.Latest(ctx)
}

// RefreshSnapshot recomputes the counters and stores them.
func (s *DashboardService) RefreshSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.counters(ctx)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, *snap); err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
	}

	s.logger.Debug().
		Int64("approved", snap.ApprovedPharmacies).
		Int64("pending", snap.PendingApprovals).
		Int64("stock_rows", snap.TotalStockRows).
		Msg("analytics snapshot refreshed")
	return snap, nil
}

func (s *DashboardService) counters(ctx context.Context) (*domain.Snapshot, error) {
	approved, err := s.identities.CountPharmacies(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("count approved pharmacies: %w", err)
	}
	pending, err := s.identities.CountPharmacies(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("count pending pharmacies: %w", err)
	}
	rows, err := s.stocks.CountApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("count stock rows: %w", err)
	}

	return &domain.Snapshot{
		ApprovedPharmacies: approved,
		PendingApprovals:   pending,
		TotalStockRows:     rows,
		RecordedAt:         s.now().UTC(),
	}, nil
}
