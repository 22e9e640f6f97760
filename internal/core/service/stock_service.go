package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

type StockService struct {
	identities  ports.IdentityRepository
	stocks      ports.StockRepository
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStockService wires the ledger. idempotency may be nil, in which case
// Idempotency-Key headers are ignored.
func NewStockService(
	identities ports.IdentityRepository,
	stocks ports.StockRepository,
	idempotency ports.IdempotencyStore,
	logger zerolog.Logger,
) *StockService {
	return &StockService{
		identities:  identities,
		stocks:      stocks,
		idempotency: idempotency,
		logger:      logger,
		now:         time.Now,
	}
}

// ListOwn returns the actor's own ledger rows.
func (s *StockService) ListOwn(ctx context.Context, actor domain.Claims) ([]domain.StockEntry, error) {
	if err := authorize(ctx, s.identities, actor, domain.ActionViewOwnStock); err != nil {
		return nil, err
	}

	entries, err := s.stocks.ListByPharmacy(ctx, actor.IdentityID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return entries, nil
}

// Add appends a row for an approved pharmacy. When an idempotency key is
// provided and already claimed, the earlier entry id is returned without writing.
func (s *StockService) Add(ctx context.Context, actor domain.Claims, in ports.AddStockInput) (*ports.AddStockResult, error) {
	if err := authorize(ctx, s.identities, actor, domain.ActionAddStock); err != nil {
		return nil, err
	}

	expiry, err := domain.ParseDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}

	entry := &domain.StockEntry{
		ID:           uuid.NewString(),
		PharmacyID:   actor.IdentityID,
		MedicineName: strings.TrimSpace(in.MedicineName),
		Quantity:     in.Quantity,
		Price:        in.Price,
		ExpiryDate:   domain.CalendarDate(expiry),
		BatchNumber:  strings.TrimSpace(in.BatchNumber),
		CreatedAt:    s.now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	// The key is claimed before the write; a concurrent duplicate sees the
	// claim and replays instead of inserting a second row.
	key := strings.TrimSpace(in.IdempotencyKey)
	reserved := false
	if key != "" && s.idempotency != nil {
		id, ok, err := s.idempotency.Reserve(ctx, actor.IdentityID, key, entry.ID)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("pharmacy_id", actor.IdentityID).Msg("idempotency reserve failed, writing anyway")
		case !ok:
			s.logger.Info().Str("idempotency_key", key).Str("entry_id", id).Msg("idempotent replay")
			return &ports.AddStockResult{EntryID: id, Replayed: true}, nil
		default:
			reserved = true
		}
	}

	if err := s.stocks.Add(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("pharmacy_id", actor.IdentityID).Msg("failed to add stock entry")
		if reserved {
			if rerr := s.idempotency.Release(ctx, actor.IdentityID, key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("add stock: %w", err)
	}

	s.logger.Info().
		Str("entry_id", entry.ID).
		Str("pharmacy_id", entry.PharmacyID).
		Str("medicine", entry.MedicineName).
		Int64("quantity", entry.Quantity).
		Msg("stock entry added")

	return &ports.AddStockResult{EntryID: entry.ID}, nil
}

// ListAllApproved returns every row owned by an approved pharmacy.
func (s *StockService) ListAllApproved(ctx context.Context, actor domain.Claims) ([]domain.OwnedStock, error) {
	if err := authorize(ctx, s.identities, actor, domain.ActionViewAllStock); err != nil {
		return nil, err
	}

	rows, err := s.stocks.ListAllApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all stock: %w", err)
	}
	return rows, nil
}
