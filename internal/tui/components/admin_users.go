package components

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AdminUserService is the user-management slice of the API client.
type AdminUserService interface {
	ListAdminUsers(ctx context.Context, params model.AdminUserListParams) ([]model.AdminUser, *api.Pagination, error)
	CreateAdminUser(ctx context.Context, input model.CreateAdminInput) (*model.AdminUser, error)
	DeleteAdminUser(ctx context.Context, id string) error
	SetAiAccess(ctx context.Context, id string, enabled bool) error
	SetAiLimit(ctx context.Context, id string, limit *int) error
}

// AdminUsersLoadedMsg delivers one page of the admin user list.
type AdminUsersLoadedMsg struct {
	Err        error
	Users      []model.AdminUser
	Total      int
	TotalPages int
	Generation int
}

// AdminUserMutatedMsg reports any user mutation (create, delete, AI
// toggle, AI limit). The list refetches on success.
type AdminUserMutatedMsg struct {
	Err     error
	Success string
}

// AiLimitMode selects which quota shape the limit dialog submits.
type AiLimitMode int

// Limit dialog modes.
const (
	AiLimitDefault AiLimitMode = iota
	AiLimitCustom
	AiLimitUnlimited
)

type adminUsersMode int

const (
	adminUsersBrowse adminUsersMode = iota
	adminUsersConfirmDelete
	adminUsersLimitDialog
	adminUsersCreateDialog
)

// AdminUsersModel manages the user table: page-numbered pagination,
// per-user AI access and quota controls, create and delete.
type AdminUsersModel struct {
	svc    AdminUserService
	toasts *toast.Store
	ctx    context.Context
	theme  themes.Theme

	params     model.AdminUserListParams
	users      []model.AdminUser
	total      int
	totalPages int
	generation int
	cursor     int
	loading    bool
	mode       adminUsersMode

	// Global default quota, from admin settings; drives the limit preview.
	defaultLimit int

	limitMode   AiLimitMode
	limitInput  textinput.Model
	limitTarget *model.AdminUser

	createInputs []textinput.Model
	createFocus  int
	createErrs   map[int]string

	deleteTarget *model.AdminUser

	width  int
	height int
}

// NewAdminUsers builds the user table.
func NewAdminUsers(ctx context.Context, svc AdminUserService, toasts *toast.Store, theme themes.Theme, pageSize, defaultLimit int) AdminUsersModel {
	if pageSize <= 0 {
		pageSize = 20
	}

	limitInput := textinput.New()
	limitInput.Placeholder = "50"
	limitInput.CharLimit = 5

	createInputs := make([]textinput.Model, 3)
	for i, prompt := range []string{"Email:    ", "Password: ", "Nama:     "} {
		createInputs[i] = textinput.New()
		createInputs[i].Prompt = prompt
		createInputs[i].CharLimit = 100
	}
	createInputs[1].EchoMode = textinput.EchoPassword

	return AdminUsersModel{
		svc:          svc,
		toasts:       toasts,
		ctx:          ctx,
		theme:        theme,
		params:       model.AdminUserListParams{Page: 1, Limit: pageSize},
		defaultLimit: defaultLimit,
		limitInput:   limitInput,
		createInputs: createInputs,
		width:        80,
		height:       24,
	}
}

// Init issues the first fetch.
func (m AdminUsersModel) Init() (AdminUsersModel, tea.Cmd) {
	return m, m.startFetch()
}

// SetDefaultLimit updates the global quota used for limit previews.
func (m *AdminUsersModel) SetDefaultLimit(n int) { m.defaultLimit = n }

func (m *AdminUsersModel) startFetch() tea.Cmd {
	m.generation++
	m.loading = true

	gen := m.generation
	params := m.params
	ctx, svc := m.ctx, m.svc

	return func() tea.Msg {
		users, page, err := svc.ListAdminUsers(ctx, params)
		msg := AdminUsersLoadedMsg{Generation: gen, Err: err, Users: users}
		if page != nil {
			msg.Total = page.Total
			msg.TotalPages = page.TotalPages
		}
		return msg
	}
}

// Update handles messages.
func (m AdminUsersModel) Update(msg tea.Msg) (AdminUsersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case AdminUsersLoadedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal memuat pengguna 😵"))
			return m, nil
		}
		m.users = msg.Users
		m.total = msg.Total
		m.totalPages = msg.TotalPages
		if m.cursor >= len(m.users) {
			m.cursor = max(0, len(m.users)-1)
		}
		return m, nil

	case AdminUserMutatedMsg:
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Operasi gagal 😵"))
			return m, nil
		}
		m.toasts.Success(msg.Success)
		return m, m.startFetch()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case adminUsersBrowse:
			return m, m.handleBrowseKeys(msg)
		case adminUsersConfirmDelete:
			return m, m.handleDeleteKeys(msg)
		case adminUsersLimitDialog:
			return m.handleLimitKeys(msg)
		case adminUsersCreateDialog:
			return m.handleCreateKeys(msg)
		}
	}

	return m, nil
}

func (m *AdminUsersModel) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.users)-1)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)

	case "l", "right", "n":
		if m.params.Page < m.totalPages {
			m.params.Page++
			return m.startFetch()
		}
	case "h", "left", "p":
		if m.params.Page > 1 {
			m.params.Page--
			return m.startFetch()
		}

	case "r":
		return m.startFetch()

	case "a":
		m.mode = adminUsersCreateDialog
		m.createErrs = make(map[int]string)
		m.createFocus = 0
		for i := range m.createInputs {
			m.createInputs[i].SetValue("")
			m.createInputs[i].Blur()
		}
		m.createInputs[0].Focus()
		return textinput.Blink

	case "t":
		if m.cursor < len(m.users) {
			user := m.users[m.cursor]
			enabled := !user.AiEnabled
			ctx, svc := m.ctx, m.svc
			return func() tea.Msg {
				err := svc.SetAiAccess(ctx, user.ID, enabled)
				label := "dimatikan"
				if enabled {
					label = "diaktifkan"
				}
				return AdminUserMutatedMsg{Err: err,
					Success: fmt.Sprintf("Fitur AI %s untuk %s", label, user.Email)}
			}
		}

	case "q":
		if m.cursor < len(m.users) {
			user := m.users[m.cursor]
			m.limitTarget = &user
			m.mode = adminUsersLimitDialog
			m.limitInput.SetValue("")
			m.limitInput.Blur()
			switch {
			case user.AiDailyLimit == nil:
				m.limitMode = AiLimitDefault
			case *user.AiDailyLimit == model.UnlimitedAiLimit:
				m.limitMode = AiLimitUnlimited
			default:
				m.limitMode = AiLimitCustom
				m.limitInput.SetValue(strconv.Itoa(*user.AiDailyLimit))
				m.limitInput.Focus()
			}
		}

	case "d":
		if m.cursor < len(m.users) {
			user := m.users[m.cursor]
			m.deleteTarget = &user
			m.mode = adminUsersConfirmDelete
		}
	}

	return nil
}

func (m *AdminUsersModel) handleDeleteKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		m.mode = adminUsersBrowse
		if m.deleteTarget == nil {
			return nil
		}
		target := *m.deleteTarget
		m.deleteTarget = nil
		ctx, svc := m.ctx, m.svc
		return func() tea.Msg {
			return AdminUserMutatedMsg{
				Err:     svc.DeleteAdminUser(ctx, target.ID),
				Success: fmt.Sprintf("Pengguna %s dihapus", target.Email),
			}
		}
	case "n", "esc":
		m.mode = adminUsersBrowse
		m.deleteTarget = nil
	}
	return nil
}

func (m AdminUsersModel) handleLimitKeys(msg tea.KeyMsg) (AdminUsersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = adminUsersBrowse
		m.limitTarget = nil
		return m, nil

	case "tab", "down", "j":
		m.limitMode = (m.limitMode + 1) % 3
		m.syncLimitFocus()
		return m, nil
	case "shift+tab", "up", "k":
		m.limitMode = (m.limitMode + 2) % 3
		m.syncLimitFocus()
		return m, nil

	case "enter":
		return m.submitLimit()
	}

	if m.limitMode == AiLimitCustom {
		var cmd tea.Cmd
		m.limitInput, cmd = m.limitInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AdminUsersModel) syncLimitFocus() {
	if m.limitMode == AiLimitCustom {
		m.limitInput.Focus()
	} else {
		m.limitInput.Blur()
	}
}

// previewLimit resolves the quota the current dialog selection would
// yield, for the live "∞" / "N/hari" preview.
func (m AdminUsersModel) previewLimit() (*int, bool) {
	switch m.limitMode {
	case AiLimitDefault:
		return nil, true
	case AiLimitUnlimited:
		unlimited := model.UnlimitedAiLimit
		return &unlimited, true
	default:
		n, err := strconv.Atoi(strings.TrimSpace(m.limitInput.Value()))
		if err != nil || n <= 0 {
			return nil, false
		}
		return &n, true
	}
}

func (m AdminUsersModel) submitLimit() (AdminUsersModel, tea.Cmd) {
	if m.limitTarget == nil {
		m.mode = adminUsersBrowse
		return m, nil
	}

	limit, ok := m.previewLimit()
	if !ok {
		m.toasts.Error("Limit harus angka positif")
		return m, nil
	}

	target := *m.limitTarget
	m.mode = adminUsersBrowse
	m.limitTarget = nil

	ctx, svc := m.ctx, m.svc
	label := model.AiLimitLabel(limit, m.defaultLimit)
	return m, func() tea.Msg {
		return AdminUserMutatedMsg{
			Err:     svc.SetAiLimit(ctx, target.ID, limit),
			Success: fmt.Sprintf("Limit AI %s: %s", target.Email, label),
		}
	}
}

func (m AdminUsersModel) handleCreateKeys(msg tea.KeyMsg) (AdminUsersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = adminUsersBrowse
		return m, nil

	case "tab", "down":
		m.createFocus = (m.createFocus + 1) % len(m.createInputs)
		m.syncCreateFocus()
		return m, nil
	case "shift+tab", "up":
		m.createFocus = (m.createFocus + len(m.createInputs) - 1) % len(m.createInputs)
		m.syncCreateFocus()
		return m, nil

	case "enter":
		return m.submitCreate()
	}

	var cmd tea.Cmd
	m.createInputs[m.createFocus], cmd = m.createInputs[m.createFocus].Update(msg)
	delete(m.createErrs, m.createFocus)
	return m, cmd
}

func (m *AdminUsersModel) syncCreateFocus() {
	for i := range m.createInputs {
		if i == m.createFocus {
			m.createInputs[i].Focus()
		} else {
			m.createInputs[i].Blur()
		}
	}
}

func (m AdminUsersModel) submitCreate() (AdminUsersModel, tea.Cmd) {
	m.createErrs = make(map[int]string)

	email := strings.TrimSpace(m.createInputs[0].Value())
	password := m.createInputs[1].Value()
	fullName := strings.TrimSpace(m.createInputs[2].Value())

	if !strings.Contains(email, "@") {
		m.createErrs[0] = "Email tidak valid"
	}
	if len(password) < 8 {
		m.createErrs[1] = "Password minimal 8 karakter"
	}
	if fullName == "" {
		m.createErrs[2] = "Nama wajib diisi"
	}
	if len(m.createErrs) > 0 {
		return m, nil
	}

	m.mode = adminUsersBrowse
	ctx, svc := m.ctx, m.svc
	input := model.CreateAdminInput{Email: email, Password: password, FullName: fullName}
	return m, func() tea.Msg {
		_, err := svc.CreateAdminUser(ctx, input)
		return AdminUserMutatedMsg{Err: err, Success: "Admin baru ditambahkan! 🎉"}
	}
}

// View renders the page.
func (m AdminUsersModel) View() string {
	switch m.mode {
	case adminUsersConfirmDelete:
		return m.renderDeleteConfirm()
	case adminUsersLimitDialog:
		return m.renderLimitDialog()
	case adminUsersCreateDialog:
		return m.renderCreateDialog()
	}

	rows := []string{
		m.theme.Title.Render("Kelola Pengguna 👥"),
		m.theme.Subtitle.Render(fmt.Sprintf("%d pengguna · Hal %d/%d",
			m.total, m.params.Page, max(1, m.totalPages))),
		"",
	}

	if m.loading && len(m.users) == 0 {
		rows = append(rows, m.theme.StatusPending.Render("Memuat..."))
	}

	for i, user := range m.users {
		rows = append(rows, m.renderUserRow(user, i == m.cursor))
	}

	rows = append(rows, "", lipgloss.NewStyle().Foreground(m.theme.Muted).Render(
		"[t] Toggle AI  [q] Limit AI  [a] Tambah admin  [d] Hapus  [h/l] Halaman"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m AdminUsersModel) renderUserRow(user model.AdminUser, selected bool) string {
	ai := m.theme.StatusError.Render("AI ✗")
	if user.AiEnabled {
		ai = m.theme.StatusSuccess.Render("AI " + model.AiLimitLabel(user.AiDailyLimit, m.defaultLimit))
	}

	role := string(user.Role)
	if user.Role == model.RoleAdmin {
		role = m.theme.Highlighted.Render(role)
	}

	line := fmt.Sprintf("%-28s %-20s %-8s %4d txn  %s",
		truncate(user.Email, 28), truncate(user.FullName, 20), role,
		user.Count.Transactions, ai)

	if selected {
		return m.theme.Selected.Render("▸ ") + line
	}
	return "  " + line
}

func (m AdminUsersModel) renderDeleteConfirm() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Hapus pengguna?"),
		m.theme.Normal.Render(m.deleteTarget.Email),
		m.theme.StatusWarning.Render("Semua transaksinya ikut terhapus."),
		"",
		m.theme.Subtitle.Render("[y] Hapus  [n] Batal"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(body))
}

func (m AdminUsersModel) renderLimitDialog() string {
	check := func(mode AiLimitMode) string {
		if m.limitMode == mode {
			return "(•)"
		}
		return "( )"
	}

	preview := "…"
	if limit, ok := m.previewLimit(); ok {
		preview = model.AiLimitLabel(limit, m.defaultLimit)
	}

	rows := []string{
		m.theme.Title.Render("Limit AI — " + m.limitTarget.Email),
		"",
		fmt.Sprintf("%s Ikuti default (%s)", check(AiLimitDefault),
			model.AiLimitLabel(nil, m.defaultLimit)),
		fmt.Sprintf("%s Custom: %s", check(AiLimitCustom), m.limitInput.View()),
		fmt.Sprintf("%s Tanpa batas", check(AiLimitUnlimited)),
		"",
		m.theme.Bold.Render("Hasil: " + preview),
		"",
		m.theme.Subtitle.Render("[Tab] Pilih  [Enter] Simpan  [Esc] Batal"),
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m AdminUsersModel) renderCreateDialog() string {
	rows := []string{m.theme.Title.Render("Tambah Admin"), ""}
	for i, input := range m.createInputs {
		rows = append(rows, input.View())
		if errMsg, ok := m.createErrs[i]; ok {
			rows = append(rows, m.theme.FieldError.Render("  "+errMsg))
		}
	}
	rows = append(rows, "", m.theme.Subtitle.Render("[Enter] Simpan  [Esc] Batal"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
