package tui

import (
	"context"
	"time"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/common"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Page identifies a top-level dashboard page.
type Page int

// Pages.
const (
	PageTransactions Page = iota
	PageAnalytics
	PageAdmin
)

// AdminTab identifies a tab within the admin page.
type AdminTab int

// Admin tabs.
const (
	AdminTabUsers AdminTab = iota
	AdminTabCategories
	AdminTabSettings
)

// adminAccess is the resolved verdict for the admin page. Admin content
// never renders while the check is unresolved.
type adminAccess int

const (
	adminUnknown adminAccess = iota
	adminChecking
	adminGranted
	adminDenied
)

type overlay int

const (
	overlayNone overlay = iota
	overlayForm
	overlayAiInput
)

// statsLoadedMsg delivers the dashboard summary.
type statsLoadedMsg struct {
	err   error
	stats *model.TransactionStats
}

// adminCheckedMsg delivers the admin role verdict.
type adminCheckedMsg struct {
	err error
}

type toastTickMsg struct{}

// Model is the root dashboard model. It routes messages to the active
// page and draws the toast stack over everything.
type Model struct {
	cfg Config
	ctx context.Context

	page     Page
	admin    adminAccess
	adminErr string
	adminTab AdminTab
	overlay  overlay

	txnList    components.TransactionListModel
	txnForm    components.TransactionFormModel
	aiInput    components.AiInputModel
	stats      components.StatsPanelModel
	analytics  components.AnalyticsModel
	adminUsers components.AdminUsersModel
	adminCats  components.AdminCategoriesModel
	settings   components.AdminSettingsModel

	categories []model.Category

	width  int
	height int
}

// NewModel builds the dashboard.
func NewModel(ctx context.Context, cfg Config) Model {
	m := Model{
		cfg:    cfg,
		ctx:    ctx,
		width:  100,
		height: 30,
	}

	m.txnList = components.NewTransactionList(ctx, cfg.Client, cfg.Toasts, cfg.Theme, cfg.PageSize)
	m.stats = components.NewStatsPanel(cfg.Theme)
	m.analytics = components.NewAnalytics(ctx, cfg.Client, cfg.Toasts, cfg.Theme, cfg.Month)
	m.adminCats = components.NewAdminCategories(ctx, cfg.Client, cfg.Toasts, cfg.Recents, cfg.Theme)
	m.settings = components.NewAdminSettings(ctx, cfg.Client, cfg.Toasts, cfg.Theme)
	m.adminUsers = components.NewAdminUsers(ctx, cfg.Client, cfg.Toasts, cfg.Theme, cfg.PageSize, 50)

	return m
}

type bootMsg struct{}

// Init schedules the bootstrap. The initial fetches run from Update so
// their state changes stick.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return bootMsg{} }
}

func toastTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return toastTickMsg{} })
}

func (m Model) fetchStats() tea.Cmd {
	ctx, client, month := m.ctx, m.cfg.Client, m.cfg.Month
	return func() tea.Msg {
		stats, err := client.TransactionStats(ctx, month)
		return statsLoadedMsg{err: err, stats: stats}
	}
}

func (m Model) fetchCategories() tea.Cmd {
	ctx, client := m.ctx, m.cfg.Client
	return func() tea.Msg {
		cats, err := client.ListCategories(ctx)
		return components.CategoriesLoadedMsg{Err: err, Categories: cats}
	}
}

func (m Model) checkAdmin() tea.Cmd {
	ctx, guard := m.ctx, m.cfg.Guard
	return func() tea.Msg {
		return adminCheckedMsg{err: guard.RequireAdmin(ctx)}
	}
}

// Update routes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case bootMsg:
		var cmd tea.Cmd
		m.txnList, cmd = m.txnList.Init()
		cmds = append(cmds, cmd, m.fetchStats(), m.fetchCategories(), toastTick())
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.stats.SetWidth(msg.Width / 2)
		return m.broadcast(msg)

	case toastTickMsg:
		// Drives expiry of the 4s toast lifetime.
		return m, toastTick()

	case statsLoadedMsg:
		if msg.err != nil {
			m.cfg.Toasts.Error(api.Message(msg.err, "Gagal memuat ringkasan 😵"))
			return m, nil
		}
		m.stats.SetStats(msg.stats)
		return m, nil

	case components.CategoriesLoadedMsg:
		if msg.Err == nil {
			m.categories = msg.Categories
			m.txnList.SetCategories(msg.Categories)
		}
		var cmd tea.Cmd
		m.adminCats, cmd = m.adminCats.Update(msg)
		return m, cmd

	case adminCheckedMsg:
		if msg.err != nil {
			m.admin = adminDenied
			m.adminErr = common.UserMessage(msg.err, "tidak dapat memeriksa akses")
			return m, nil
		}
		m.admin = adminGranted
		var initCmds []tea.Cmd
		var cmd tea.Cmd
		m.adminUsers, cmd = m.adminUsers.Init()
		initCmds = append(initCmds, cmd)
		m.adminCats, cmd = m.adminCats.Init()
		initCmds = append(initCmds, cmd)
		m.settings, cmd = m.settings.Init()
		initCmds = append(initCmds, cmd)
		return m, tea.Batch(initCmds...)

	case components.SettingsLoadedMsg:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		m.adminUsers.SetDefaultLimit(m.settings.AiLimitDefault())
		return m, cmd

	case components.FormClosedMsg:
		m.overlay = overlayNone
		return m, nil

	case components.TransactionSelectedMsg:
		m.overlay = overlayForm
		m.txnForm = components.NewEditForm(m.ctx, m.cfg.Client, m.cfg.Theme, m.categories, msg.Transaction)
		return m, nil

	case components.UpdateDoneMsg, components.CreateDoneMsg:
		// Both the open dialog and the list react: the dialog closes
		// on success, the list patches or refetches.
		var cmd tea.Cmd
		switch m.overlay {
		case overlayForm:
			m.txnForm, cmd = m.txnForm.Update(msg)
		case overlayAiInput:
			m.aiInput, cmd = m.aiInput.Update(msg)
		}
		cmds = append(cmds, cmd)
		m.txnList, cmd = m.txnList.Update(msg)
		cmds = append(cmds, cmd, m.fetchStats())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.route(msg)
}

// broadcast sends a message to every component.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.txnList, cmd = m.txnList.Update(msg)
	cmds = append(cmds, cmd)
	m.txnForm, cmd = m.txnForm.Update(msg)
	cmds = append(cmds, cmd)
	m.aiInput, cmd = m.aiInput.Update(msg)
	cmds = append(cmds, cmd)
	m.analytics, cmd = m.analytics.Update(msg)
	cmds = append(cmds, cmd)
	m.adminUsers, cmd = m.adminUsers.Update(msg)
	cmds = append(cmds, cmd)
	m.adminCats, cmd = m.adminCats.Update(msg)
	cmds = append(cmds, cmd)
	m.settings, cmd = m.settings.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// route forwards a non-key message to the component that owns it.
func (m Model) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg.(type) {
	case components.PageLoadedMsg, components.DeleteDoneMsg:
		m.txnList, cmd = m.txnList.Update(msg)
		cmds = append(cmds, cmd)
		if _, ok := msg.(components.DeleteDoneMsg); ok {
			cmds = append(cmds, m.fetchStats())
		}
	case components.AnalyticsLoadedMsg, components.InsightLoadedMsg:
		m.analytics, cmd = m.analytics.Update(msg)
		cmds = append(cmds, cmd)
	case components.AdminUsersLoadedMsg, components.AdminUserMutatedMsg:
		m.adminUsers, cmd = m.adminUsers.Update(msg)
		cmds = append(cmds, cmd)
	case components.CategoryMutatedMsg, components.CategoryDeletedMsg:
		m.adminCats, cmd = m.adminCats.Update(msg)
		cmds = append(cmds, cmd)
	case components.SettingSavedMsg:
		m.settings, cmd = m.settings.Update(msg)
		m.adminUsers.SetDefaultLimit(m.settings.AiLimitDefault())
		cmds = append(cmds, cmd)
	default:
		return m.broadcast(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// An open dialog captures all input.
	if m.overlay != overlayNone {
		var cmd tea.Cmd
		switch m.overlay {
		case overlayForm:
			m.txnForm, cmd = m.txnForm.Update(msg)
		case overlayAiInput:
			m.aiInput, cmd = m.aiInput.Update(msg)
		}
		return m, cmd
	}

	// Text-entry modes on the pages swallow plain keys too.
	if !m.capturing() {
		switch msg.String() {
		case "q":
			if m.page != PageAdmin {
				return m, tea.Quit
			}
		case "1":
			m.page = PageTransactions
			return m, nil
		case "2":
			m.page = PageAnalytics
			var cmd tea.Cmd
			m.analytics, cmd = m.analytics.Init()
			return m, cmd
		case "3":
			if m.admin == adminUnknown || m.admin == adminDenied {
				m.admin = adminChecking
				m.page = PageAdmin
				return m, m.checkAdmin()
			}
			m.page = PageAdmin
			return m, nil
		case "tab":
			if m.page == PageAdmin && m.admin == adminGranted {
				m.adminTab = (m.adminTab + 1) % 3
				return m, nil
			}
		case "a":
			if m.page == PageTransactions {
				m.overlay = overlayForm
				m.txnForm = components.NewTransactionForm(m.ctx, m.cfg.Client, m.cfg.Theme, m.categories)
				return m, nil
			}
		case "i":
			if m.page == PageTransactions {
				m.overlay = overlayAiInput
				m.aiInput = components.NewAiInput(m.ctx, m.cfg.Client, m.cfg.Theme)
				return m, nil
			}
		}
	}

	// Page-local keys.
	var cmd tea.Cmd
	switch m.page {
	case PageTransactions:
		m.txnList, cmd = m.txnList.Update(msg)
	case PageAnalytics:
		m.analytics, cmd = m.analytics.Update(msg)
	case PageAdmin:
		if m.admin != adminGranted {
			return m, nil
		}
		switch m.adminTab {
		case AdminTabUsers:
			m.adminUsers, cmd = m.adminUsers.Update(msg)
		case AdminTabCategories:
			m.adminCats, cmd = m.adminCats.Update(msg)
		case AdminTabSettings:
			m.settings, cmd = m.settings.Update(msg)
		}
	}
	return m, cmd
}

// capturing reports whether the focused page is in a text-entry mode,
// so global single-letter shortcuts must not fire.
func (m Model) capturing() bool {
	return m.page == PageTransactions && m.txnList.Mode() != components.ModeBrowse
}

// View renders the dashboard.
func (m Model) View() string {
	var body string

	if m.overlay != overlayNone {
		switch m.overlay {
		case overlayForm:
			body = m.txnForm.View()
		case overlayAiInput:
			body = m.aiInput.View()
		}
	} else {
		switch m.page {
		case PageTransactions:
			body = lipgloss.JoinVertical(lipgloss.Left,
				m.stats.View(), "", m.txnList.View())
		case PageAnalytics:
			body = m.analytics.View()
		case PageAdmin:
			body = m.adminView()
		}
	}

	header := m.headerView()
	view := lipgloss.JoinVertical(lipgloss.Left, header, "", body)

	if toasts := components.RenderToasts(m.cfg.Toasts, m.cfg.Theme); toasts != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, toasts, view)
	}
	return view
}

func (m Model) headerView() string {
	theme := m.cfg.Theme
	tabs := []string{"[1] Transaksi", "[2] Analitik", "[3] Admin"}
	active := int(m.page)

	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		if i == active {
			parts[i] = theme.Highlighted.Render(tab)
		} else {
			parts[i] = theme.Subtitle.Render(tab)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Title.Render("CAPE 💰 "), lipgloss.JoinHorizontal(lipgloss.Top, parts[0], "  ", parts[1], "  ", parts[2]))
}

func (m Model) adminView() string {
	theme := m.cfg.Theme

	switch m.admin {
	case adminChecking, adminUnknown:
		// Never render admin content before the verdict.
		return theme.StatusPending.Render("Memeriksa akses... 🔐")
	case adminDenied:
		return theme.StatusError.Render("Akses ditolak: " + m.adminErr)
	}

	tabs := []string{"Pengguna", "Kategori", "Pengaturan"}
	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		if AdminTab(i) == m.adminTab {
			parts[i] = theme.Highlighted.Render(" " + tab + " ")
		} else {
			parts[i] = theme.Subtitle.Render(" " + tab + " ")
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, parts...) +
		theme.Subtitle.Render("  (Tab untuk pindah)")

	var body string
	switch m.adminTab {
	case AdminTabUsers:
		body = m.adminUsers.View()
	case AdminTabCategories:
		body = m.adminCats.View()
	case AdminTabSettings:
		body = m.settings.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, "", body)
}
