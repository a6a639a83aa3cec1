package components

import (
	"fmt"
	"strings"

	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// StatsPanelModel renders the monthly expense/income summary with the
// per-category breakdown bars. Pure display; the page feeds it data.
type StatsPanelModel struct {
	theme themes.Theme
	stats *model.TransactionStats
	width int
}

// NewStatsPanel builds an empty panel.
func NewStatsPanel(theme themes.Theme) StatsPanelModel {
	return StatsPanelModel{theme: theme, width: 60}
}

// SetStats installs fresh data.
func (m *StatsPanelModel) SetStats(stats *model.TransactionStats) {
	m.stats = stats
}

// SetWidth constrains the panel width.
func (m *StatsPanelModel) SetWidth(w int) {
	if w > 20 {
		m.width = w
	}
}

// View renders the panel.
func (m StatsPanelModel) View() string {
	if m.stats == nil {
		return m.theme.Subtitle.Render("Memuat ringkasan...")
	}

	balance := m.stats.TotalIncome - m.stats.TotalExpense
	balanceStyle := m.theme.StatusSuccess
	if balance < 0 {
		balanceStyle = m.theme.StatusError
	}

	rows := []string{
		m.theme.Title.Render("Ringkasan " + m.stats.Month),
		"",
		fmt.Sprintf("%s  %s", m.theme.Normal.Render("Pengeluaran:"),
			m.theme.Amount.Render(model.FormatIDR(m.stats.TotalExpense))),
		fmt.Sprintf("%s  %s", m.theme.Normal.Render("Pemasukan:  "),
			m.theme.AmountIncome.Render(model.FormatIDR(m.stats.TotalIncome))),
		fmt.Sprintf("%s  %s", m.theme.Normal.Render("Selisih:    "),
			balanceStyle.Render(model.FormatIDR(balance))),
	}

	if len(m.stats.ByCategory) > 0 {
		rows = append(rows, "", m.theme.Bold.Render("Per kategori"))
		rows = append(rows, m.renderBreakdown()...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m StatsPanelModel) renderBreakdown() []string {
	var maxTotal float64
	for _, row := range m.stats.ByCategory {
		if row.Total > maxTotal {
			maxTotal = row.Total
		}
	}

	barWidth := max(10, m.width-44)
	rows := make([]string, 0, len(m.stats.ByCategory))
	for _, row := range m.stats.ByCategory {
		name, slug, color := "Tanpa kategori", "", ""
		if row.Category != nil {
			name, slug, color = row.Category.Name, row.Category.IconSlug, row.Category.ColorHex
		}

		filled := 0
		if maxTotal > 0 {
			filled = int(row.Total / maxTotal * float64(barWidth))
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		rows = append(rows, fmt.Sprintf("%s %-16s %s %14s (%d)",
			icons.Swatch(slug, color, icons.SizeSmall),
			truncate(name, 16),
			lipgloss.NewStyle().Foreground(m.theme.Primary).Render(bar),
			model.FormatIDR(row.Total),
			row.Count))
	}
	return rows
}
