package tui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/common"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/session"
	"github.com/cape-app/cape/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	profile *model.UserProfile
	err     error
}

func (s *stubProfiles) Profile(context.Context) (*model.UserProfile, error) {
	return s.profile, s.err
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	dir := t.TempDir()
	store := session.NewStore(filepath.Join(dir, "session.json"), nil)
	guard := session.NewGuard(store, &stubProfiles{})

	client, err := api.NewClient("http://localhost:0", store)
	require.NoError(t, err)

	recents := icons.NewRecents(filepath.Join(dir, "recent_icons.json"))
	cfg := NewConfig(client, guard, recents, WithMonth("2025-01"), WithPageSize(10))
	return NewModel(context.Background(), cfg)
}

func pressKey(m Model, s string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch s {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestAdminPageHidesContentUntilVerdict(t *testing.T) {
	m := newTestModel(t)

	m, cmd := pressKey(m, "3")
	require.NotNil(t, cmd, "switching to admin must trigger the role check")

	// The verdict has not arrived: no admin content, only the gate.
	view := m.View()
	assert.Contains(t, view, "Memeriksa akses")
	assert.NotContains(t, view, "Kelola Pengguna")
	assert.NotContains(t, view, "Pengaturan ⚙️")
}

func TestAdminPageDenied(t *testing.T) {
	m := newTestModel(t)

	m, _ = pressKey(m, "3")
	denial := common.NewUserError("halaman ini hanya untuk Admin", common.ErrForbidden)
	next, _ := m.Update(adminCheckedMsg{err: denial})
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "Akses ditolak: halaman ini hanya untuk Admin")
	assert.NotContains(t, view, "Kelola Pengguna")
}

func TestAdminPageGrantedShowsTabs(t *testing.T) {
	m := newTestModel(t)

	m, _ = pressKey(m, "3")
	next, cmd := m.Update(adminCheckedMsg{})
	m = next.(Model)
	assert.NotNil(t, cmd, "granting access starts the admin fetches")

	view := m.View()
	assert.Contains(t, view, "Pengguna")
	assert.Contains(t, view, "Kategori")
	assert.NotContains(t, view, "Memeriksa akses")
}

func TestAdminTabCycle(t *testing.T) {
	m := newTestModel(t)
	m, _ = pressKey(m, "3")
	next, _ := m.Update(adminCheckedMsg{})
	m = next.(Model)

	require.Equal(t, AdminTabUsers, m.adminTab)
	m, _ = pressKey(m, "tab")
	assert.Equal(t, AdminTabCategories, m.adminTab)
	m, _ = pressKey(m, "tab")
	assert.Equal(t, AdminTabSettings, m.adminTab)
	m, _ = pressKey(m, "tab")
	assert.Equal(t, AdminTabUsers, m.adminTab)
}

func TestPageSwitching(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, PageTransactions, m.page)

	m, _ = pressKey(m, "2")
	assert.Equal(t, PageAnalytics, m.page)

	m, _ = pressKey(m, "1")
	assert.Equal(t, PageTransactions, m.page)
}

func TestOverlayCapturesKeys(t *testing.T) {
	m := newTestModel(t)

	m, _ = pressKey(m, "a")
	require.Equal(t, overlayForm, m.overlay)

	// Page shortcuts are inert while the dialog is open.
	m, _ = pressKey(m, "2")
	assert.Equal(t, PageTransactions, m.page)
	assert.Equal(t, overlayForm, m.overlay)

	next, _ := m.Update(components.FormClosedMsg{})
	m = next.(Model)
	assert.Equal(t, overlayNone, m.overlay)
}
