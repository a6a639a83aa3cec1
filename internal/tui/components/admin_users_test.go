package components

import (
	"context"
	"fmt"
	"testing"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminUserService struct {
	listCalls  []model.AdminUserListParams
	users      []model.AdminUser
	total      int
	totalPages int

	limitCalls []struct {
		id    string
		limit *int
	}
	accessCalls []struct {
		id      string
		enabled bool
	}
	deleted []string
}

func (f *fakeAdminUserService) ListAdminUsers(_ context.Context, params model.AdminUserListParams) ([]model.AdminUser, *api.Pagination, error) {
	f.listCalls = append(f.listCalls, params)
	return f.users, &api.Pagination{Total: f.total, Page: params.Page, TotalPages: f.totalPages}, nil
}

func (f *fakeAdminUserService) CreateAdminUser(_ context.Context, input model.CreateAdminInput) (*model.AdminUser, error) {
	return &model.AdminUser{UserProfile: model.UserProfile{Email: input.Email}}, nil
}

func (f *fakeAdminUserService) DeleteAdminUser(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdminUserService) SetAiAccess(_ context.Context, id string, enabled bool) error {
	f.accessCalls = append(f.accessCalls, struct {
		id      string
		enabled bool
	}{id, enabled})
	return nil
}

func (f *fakeAdminUserService) SetAiLimit(_ context.Context, id string, limit *int) error {
	f.limitCalls = append(f.limitCalls, struct {
		id    string
		limit *int
	}{id, limit})
	return nil
}

func sampleUsers(n int) []model.AdminUser {
	users := make([]model.AdminUser, n)
	for i := range users {
		users[i] = model.AdminUser{
			UserProfile: model.UserProfile{
				ID:       fmt.Sprintf("user-%d", i),
				Email:    fmt.Sprintf("user%d@cape.id", i),
				FullName: fmt.Sprintf("Pengguna %d", i),
				Role:     model.RoleClient,
			},
			AiEnabled: true,
		}
	}
	return users
}

func newUsersModel(svc *fakeAdminUserService) AdminUsersModel {
	return NewAdminUsers(context.Background(), svc, toast.NewStore(), themes.Default, 20, 50)
}

func drainUsers(t *testing.T, m AdminUsersModel, cmd tea.Cmd) AdminUsersModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drainUsers(t, m, c)
		}
		return m
	}
	var next tea.Cmd
	m, next = m.Update(msg)
	return drainUsers(t, m, next)
}

func TestAdminUsersPagination(t *testing.T) {
	svc := &fakeAdminUserService{users: sampleUsers(20), total: 45, totalPages: 3}

	m, cmd := newUsersModel(svc).Init()
	m = drainUsers(t, m, cmd)
	require.Len(t, svc.listCalls, 1)
	assert.Equal(t, 1, svc.listCalls[0].Page)

	m, cmd = m.Update(keyMsg("n"))
	m = drainUsers(t, m, cmd)
	require.Len(t, svc.listCalls, 2)
	assert.Equal(t, 2, svc.listCalls[1].Page)

	// Back below page 1 is a no-op.
	m, cmd = m.Update(keyMsg("p"))
	m = drainUsers(t, m, cmd)
	m, cmd = m.Update(keyMsg("p"))
	m = drainUsers(t, m, cmd)
	assert.Equal(t, 1, svc.listCalls[len(svc.listCalls)-1].Page)
}

func TestAdminUsersAiToggleRefetches(t *testing.T) {
	svc := &fakeAdminUserService{users: sampleUsers(3), total: 3, totalPages: 1}

	m, cmd := newUsersModel(svc).Init()
	m = drainUsers(t, m, cmd)

	m, cmd = m.Update(keyMsg("t"))
	m = drainUsers(t, m, cmd)

	require.Len(t, svc.accessCalls, 1)
	assert.Equal(t, "user-0", svc.accessCalls[0].id)
	assert.False(t, svc.accessCalls[0].enabled, "toggle flips the current value")
	assert.Len(t, svc.listCalls, 2, "mutation refetches the page")
}

func TestAdminUsersLimitDialogModes(t *testing.T) {
	svc := &fakeAdminUserService{users: sampleUsers(1), total: 1, totalPages: 1}

	m, cmd := newUsersModel(svc).Init()
	m = drainUsers(t, m, cmd)

	m, _ = m.Update(keyMsg("q"))
	require.Equal(t, adminUsersLimitDialog, m.mode)
	require.Equal(t, AiLimitDefault, m.limitMode, "nil override starts on default")

	// Default mode previews the global quota.
	limit, ok := m.previewLimit()
	require.True(t, ok)
	assert.Nil(t, limit)
	assert.Equal(t, "50/hari", model.AiLimitLabel(limit, 50))

	// Cycle to custom, type a value.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, AiLimitCustom, m.limitMode)
	for _, r := range "100" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	limit, ok = m.previewLimit()
	require.True(t, ok)
	require.NotNil(t, limit)
	assert.Equal(t, "100/hari", model.AiLimitLabel(limit, 50))

	// Cycle to unlimited.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, AiLimitUnlimited, m.limitMode)
	limit, ok = m.previewLimit()
	require.True(t, ok)
	assert.Equal(t, "∞", model.AiLimitLabel(limit, 50))

	// Submit sends -1 on the wire shape.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = drainUsers(t, m, cmd)
	require.Len(t, svc.limitCalls, 1)
	require.NotNil(t, svc.limitCalls[0].limit)
	assert.Equal(t, model.UnlimitedAiLimit, *svc.limitCalls[0].limit)
}

func TestAdminUsersLimitDialogRejectsGarbage(t *testing.T) {
	svc := &fakeAdminUserService{users: sampleUsers(1), total: 1, totalPages: 1}

	m, cmd := newUsersModel(svc).Init()
	m = drainUsers(t, m, cmd)

	m, _ = m.Update(keyMsg("q"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // custom, empty input

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "invalid custom limit never reaches the network")
	assert.Empty(t, svc.limitCalls)
	assert.Equal(t, adminUsersLimitDialog, m.mode, "dialog stays open")

	// Zero is not a positive quota either.
	m, _ = m.Update(keyMsg("0"))
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, svc.limitCalls)
	assert.Equal(t, adminUsersLimitDialog, m.mode)
}

func TestAdminUsersDeleteConfirm(t *testing.T) {
	svc := &fakeAdminUserService{users: sampleUsers(2), total: 2, totalPages: 1}

	m, cmd := newUsersModel(svc).Init()
	m = drainUsers(t, m, cmd)

	m, _ = m.Update(keyMsg("d"))
	require.Equal(t, adminUsersConfirmDelete, m.mode)

	m, cmd = m.Update(keyMsg("y"))
	m = drainUsers(t, m, cmd)
	assert.Equal(t, []string{"user-0"}, svc.deleted)
	assert.Len(t, svc.listCalls, 2, "delete refetches the page")
}
