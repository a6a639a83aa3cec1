package components

import (
	"context"
	"fmt"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AnalyticsService is the monthly-aggregate slice of the API client.
type AnalyticsService interface {
	Analytics(ctx context.Context, month string) (*model.Analytics, error)
	Insight(ctx context.Context, month string) (*model.Insight, error)
}

// AnalyticsLoadedMsg delivers the monthly aggregate.
type AnalyticsLoadedMsg struct {
	Err       error
	Analytics *model.Analytics
}

// InsightLoadedMsg delivers the AI spending insight.
type InsightLoadedMsg struct {
	Err     error
	Insight *model.Insight
}

// AnalyticsModel shows the server-computed monthly aggregate plus the
// on-demand AI insight. All numbers come from the server as-is.
type AnalyticsModel struct {
	svc       AnalyticsService
	toasts    *toast.Store
	ctx       context.Context
	theme     themes.Theme
	month     string
	analytics *model.Analytics
	insight   string
	loading   bool
	thinking  bool
}

// NewAnalytics builds the view for the given month ("2025-01").
func NewAnalytics(ctx context.Context, svc AnalyticsService, toasts *toast.Store, theme themes.Theme, month string) AnalyticsModel {
	return AnalyticsModel{svc: svc, toasts: toasts, ctx: ctx, theme: theme, month: month}
}

// Init fetches the aggregate.
func (m AnalyticsModel) Init() (AnalyticsModel, tea.Cmd) {
	m.loading = true
	ctx, svc, month := m.ctx, m.svc, m.month
	return m, func() tea.Msg {
		analytics, err := svc.Analytics(ctx, month)
		return AnalyticsLoadedMsg{Err: err, Analytics: analytics}
	}
}

// Update handles messages.
func (m AnalyticsModel) Update(msg tea.Msg) (AnalyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case AnalyticsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal memuat analitik 😵"))
			return m, nil
		}
		m.analytics = msg.Analytics

	case InsightLoadedMsg:
		m.thinking = false
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal membuat insight 😵"))
			return m, nil
		}
		if msg.Insight != nil {
			m.insight = msg.Insight.Insight
		}

	case tea.KeyMsg:
		if msg.String() == "i" && !m.thinking {
			m.thinking = true
			ctx, svc, month := m.ctx, m.svc, m.month
			return m, func() tea.Msg {
				insight, err := svc.Insight(ctx, month)
				return InsightLoadedMsg{Err: err, Insight: insight}
			}
		}
	}

	return m, nil
}

// View renders the analytics page.
func (m AnalyticsModel) View() string {
	if m.loading {
		return m.theme.StatusPending.Render("Memuat analitik...")
	}
	if m.analytics == nil {
		return m.theme.Subtitle.Render("Belum ada data untuk bulan ini.")
	}

	a := m.analytics
	trend := m.theme.StatusSuccess.Render(fmt.Sprintf("▼ %.1f%% dari bulan lalu", -a.PercentChange))
	if a.PercentChange > 0 {
		trend = m.theme.StatusError.Render(fmt.Sprintf("▲ %.1f%% dari bulan lalu", a.PercentChange))
	}

	rows := []string{
		m.theme.Title.Render("Analitik " + a.Month + " 📊"),
		"",
		fmt.Sprintf("Total pengeluaran: %s", m.theme.Amount.Render(model.FormatIDR(a.TotalExpense))),
		fmt.Sprintf("Jumlah transaksi:  %d", a.TransactionCount),
		trend,
	}

	if len(a.TopCategories) > 0 {
		rows = append(rows, "", m.theme.Bold.Render("Kategori teratas"))
		for i, share := range a.TopCategories {
			name, slug, color := "Tanpa kategori", "", ""
			if share.Category != nil {
				name, slug, color = share.Category.Name, share.Category.IconSlug, share.Category.ColorHex
			}
			rows = append(rows, fmt.Sprintf("%d. %s %-16s %14s  %5.1f%%",
				i+1, icons.Swatch(slug, color, icons.SizeSmall),
				truncate(name, 16), model.FormatIDR(share.Total), share.Percentage))
		}
	}

	rows = append(rows, "")
	switch {
	case m.thinking:
		rows = append(rows, m.theme.StatusPending.Render("AI sedang berpikir... 🤔"))
	case m.insight != "":
		rows = append(rows, m.theme.BorderedBox.Render("💡 "+m.insight))
	default:
		rows = append(rows, m.theme.Subtitle.Render("[i] Minta insight AI"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
