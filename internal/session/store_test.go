package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cape-app/cape/internal/common"
	"github.com/cape-app/cape/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
}

func TestStore_SignInRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "abc123"}))

	// A fresh store re-reading the same file sees the session.
	reloaded := NewStore(store.path, nil)
	token, err := reloaded.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token.AccessToken)
	assert.True(t, reloaded.SignedIn(ctx))
}

func TestStore_SignedOutByDefault(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	_, err := store.Token(ctx)
	assert.ErrorIs(t, err, common.ErrSignedOut)
	assert.False(t, store.SignedIn(ctx))

	// Public endpoints still work: no token, no error.
	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestStore_CorruptFileReadsAsSignedOut(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path, nil)
	_, err := store.Token(ctx)
	assert.ErrorIs(t, err, common.ErrSignedOut)
}

func TestStore_SignOutRemovesSession(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "abc123"}))
	require.NoError(t, store.SignOut())

	assert.False(t, store.SignedIn(ctx))
	_, statErr := os.Stat(store.path)
	assert.True(t, os.IsNotExist(statErr))

	// Idempotent.
	require.NoError(t, store.SignOut())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "abc123"}))

	// The dashboard boot fires several fetch commands at once, each
	// reading the token from its own goroutine on a fresh store.
	fresh := NewStore(store.path, nil)
	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			access, err := fresh.AccessToken(ctx)
			assert.NoError(t, err)
			assert.Equal(t, "abc123", access)
		}()
	}
	wg.Wait()
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	store := testStore(t)
	err := store.SignIn(&oauth2.Token{})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

type countingProfiles struct {
	role  model.Role
	err   error
	calls int
}

func (c *countingProfiles) Profile(_ context.Context) (*model.UserProfile, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &model.UserProfile{ID: "u1", Role: c.role}, nil
}

func TestGuard_RequireAuth(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	guard := NewGuard(store, &countingProfiles{role: model.RoleClient})

	assert.ErrorIs(t, guard.RequireAuth(ctx), common.ErrSignedOut)

	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "abc123"}))
	assert.NoError(t, guard.RequireAuth(ctx))
}

func TestGuard_RoleCachedPerIdentity(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	profiles := &countingProfiles{role: model.RoleAdmin}
	guard := NewGuard(store, profiles)

	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "token-a"}))

	require.NoError(t, guard.RequireAdmin(ctx))
	require.NoError(t, guard.RequireAdmin(ctx))
	require.NoError(t, guard.RequireAdmin(ctx))
	assert.Equal(t, 1, profiles.calls, "role must be fetched once per session identity")

	// A new identity re-checks.
	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "token-b"}))
	require.NoError(t, guard.RequireAdmin(ctx))
	assert.Equal(t, 2, profiles.calls)
}

func TestGuard_RequireAdmin_DeniesClients(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	guard := NewGuard(store, &countingProfiles{role: model.RoleClient})

	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "abc123"}))
	err := guard.RequireAdmin(ctx)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// The denial carries a user-facing message for the toast/view layer.
	assert.Equal(t, "halaman ini hanya untuk Admin", common.UserMessage(err, "fallback"))
}

func TestGuard_ProfileFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	profiles := &countingProfiles{err: common.ErrAPI}
	guard := NewGuard(store, profiles)

	require.NoError(t, store.SignIn(&oauth2.Token{AccessToken: "abc123"}))
	_, err := guard.Role(ctx)
	assert.ErrorIs(t, err, common.ErrAPI)

	// Failures are not cached; the next check tries again.
	_, _ = guard.Role(ctx)
	assert.Equal(t, 2, profiles.calls)
}
