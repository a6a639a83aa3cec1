package components

import (
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// RenderToasts draws the active toast stack, newest on top. Expired
// entries are pruned by the store on read.
func RenderToasts(store *toast.Store, theme themes.Theme) string {
	active := store.Active()
	if len(active) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(active))
	for i := len(active) - 1; i >= 0; i-- {
		t := active[i]

		style := theme.StatusSuccess
		prefix := "✅ "
		if t.Kind == toast.KindError {
			style = theme.StatusError
			prefix = "❌ "
		}

		body := style.Render(prefix + t.Title)
		if t.Detail != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, body, theme.Subtitle.Render("   "+t.Detail))
		}
		rendered = append(rendered, theme.RoundedBox.Render(body))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}
