package app

import (
	"context"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// loadActor returns the live, active user acting as actorID. An empty or
// unknown actor is Forbidden rather than NotFound.
func loadActor(ctx context.Context, users domain.UserRepository, actorID string) (domain.User, error) {
	if actorID == "" {
		return domain.User{}, domain.ErrForbidden
	}
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.User{}, domain.ErrForbidden
		}
		return domain.User{}, err
	}
	if actor.Deleted() || !actor.Active {
		return domain.User{}, domain.ErrForbidden
	}
	return actor, nil
}

// requireSuperAdmin admits only platform administrators. Reviews, direct
// provisioning and request soft-delete/restore go through it.
func requireSuperAdmin(ctx context.Context, users domain.UserRepository, actorID string) error {
	actor, err := loadActor(ctx, users, actorID)
	if err != nil {
		return err
	}
	if !actor.HasRole(domain.RoleSuperAdmin) {
		return domain.ErrForbidden
	}
	return nil
}
