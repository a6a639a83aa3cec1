package components

import (
	"context"
	"strings"

	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AiParser is the AI endpoint slice used by the smart input.
type AiParser interface {
	ParseWithAi(ctx context.Context, input string) (*model.AiParseResult, error)
}

// AiInputModel is the free-text smart entry: "Kopi Starbucks 45k" goes
// to the parser endpoint, which creates the transaction server-side.
type AiInputModel struct {
	svc        AiParser
	ctx        context.Context
	theme      themes.Theme
	input      textinput.Model
	submitting bool
	width      int
	height     int
}

// NewAiInput builds the smart input dialog.
func NewAiInput(ctx context.Context, svc AiParser, theme themes.Theme) AiInputModel {
	input := textinput.New()
	input.Placeholder = "Kopi Starbucks 45k"
	input.Prompt = "✨ "
	input.CharLimit = 200
	input.Focus()

	return AiInputModel{
		svc:    svc,
		ctx:    ctx,
		theme:  theme,
		input:  input,
		width:  80,
		height: 24,
	}
}

// Update handles messages.
func (m AiInputModel) Update(msg tea.Msg) (AiInputModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case CreateDoneMsg:
		m.submitting = false
		if msg.Err != nil {
			// Keep the text so the user can fix and resend.
			return m, nil
		}
		return m, closeForm

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, closeForm
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.submitting = true
			ctx, svc := m.ctx, m.svc
			return m, func() tea.Msg {
				result, err := svc.ParseWithAi(ctx, text)
				return CreateDoneMsg{Err: err, AiResult: result}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the dialog.
func (m AiInputModel) View() string {
	rows := []string{
		m.theme.Title.Render("Catat dengan AI ✨"),
		m.theme.Subtitle.Render("Tulis transaksi dengan bahasa sehari-hari"),
		"",
		m.input.View(),
		"",
	}

	if m.submitting {
		rows = append(rows, m.theme.StatusPending.Render("Memproses..."))
	} else {
		rows = append(rows, m.theme.Subtitle.Render("[Enter] Kirim  [Esc] Batal"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(body))
}
