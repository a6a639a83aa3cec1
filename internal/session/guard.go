package session

import (
	"context"
	"fmt"

	"github.com/cape-app/cape/internal/common"
	"github.com/cape-app/cape/internal/model"
)

// ProfileFetcher fetches the caller's own profile. Satisfied by
// *api.Client; tests substitute fakes.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*model.UserProfile, error)
}

// Guard gates access to authenticated and admin-only surfaces. The role
// verdict is cached per session identity so repeated checks within one
// session don't refetch the profile.
type Guard struct {
	store    *Store
	profiles ProfileFetcher
	verdicts map[string]model.Role
}

// NewGuard creates a guard over the given session store.
func NewGuard(store *Store, profiles ProfileFetcher) *Guard {
	return &Guard{
		store:    store,
		profiles: profiles,
		verdicts: make(map[string]model.Role),
	}
}

// RequireAuth fails with common.ErrSignedOut when there is no session.
func (g *Guard) RequireAuth(ctx context.Context) error {
	if _, err := g.store.Token(ctx); err != nil {
		return err
	}
	return nil
}

// Role resolves the caller's role, fetching the profile at most once per
// session identity.
func (g *Guard) Role(ctx context.Context) (model.Role, error) {
	token, err := g.store.Token(ctx)
	if err != nil {
		return "", err
	}

	if role, ok := g.verdicts[token.AccessToken]; ok {
		return role, nil
	}

	profile, err := g.profiles.Profile(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}

	g.verdicts[token.AccessToken] = profile.Role
	return profile.Role, nil
}

// RequireAdmin fails with common.ErrForbidden for non-admin callers.
func (g *Guard) RequireAdmin(ctx context.Context) error {
	role, err := g.Role(ctx)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		return common.NewUserError("halaman ini hanya untuk Admin", common.ErrForbidden)
	}
	return nil
}
