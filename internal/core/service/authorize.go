package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

// authorize applies the access policy to actor. Approval state always comes
// from the credential store, never from the token, and is only loaded for
// actions that depend on it.
func authorize(ctx context.Context, identities ports.IdentityRepository, actor domain.Claims, action domain.Action) error {
	p := domain.Principal{Role: actor.Role}

	if domain.RoleMayPerform(actor.Role, action) && domain.RequiresApproval(action) {
		identity, err := identities.FindByID(ctx, actor.IdentityID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// A token for a vanished identity is treated as unapproved.
		case err != nil:
			return fmt.Errorf("authorize %s: %w", action, err)
		default:
			p.Approved = identity.IsApproved
			if identity.Role != actor.Role {
				return domain.ErrAccessDenied
			}
		}
	}

	return domain.Authorize(p, action)
}
