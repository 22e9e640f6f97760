package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

type ApprovalService struct {
	repo   ports.IdentityRepository
	logger zerolog.Logger
}

func NewApprovalService(repo ports.IdentityRepository, logger zerolog.Logger) *ApprovalService {
	return &ApprovalService{repo: repo, logger: logger}
}

// ListPending returns pharmacies waiting for approval.
func (s *ApprovalService) ListPending(ctx context.Context, actor domain.Claims) ([]domain.Identity, error) {
	if err := authorize(ctx, s.repo, actor, domain.ActionListPendingApprovals); err != nil {
		return nil, err
	}

	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return pending, nil
}

// Approve grants identityID write access to the stock ledger. Approving an
// already approved identity succeeds without changes.
func (s *ApprovalService) Approve(ctx context.Context, actor domain.Claims, identityID string) error {
	if err := authorize(ctx, s.repo, actor, domain.ActionApprovePharmacy); err != nil {
		return err
	}

	if err := s.repo.Approve(ctx, identityID); err != nil {
		return fmt.Errorf("approve %s: %w", identityID, err)
	}

	s.logger.Info().
		Str("identity_id", identityID).
		Str("approved_by", actor.IdentityID).
		Msg("identity approved")
	return nil
}
