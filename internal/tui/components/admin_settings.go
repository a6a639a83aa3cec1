package components

import (
	"context"
	"fmt"
	"sort"
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

// AdminSettingsService is the settings slice of the API client.
type AdminSettingsService interface {
	AdminSettings(ctx context.Context) (map[string]string, error)
	UpdateAdminSetting(ctx context.Context, key, value string) error
}

// AiLimitDefaultKey is the settings key for the global AI daily quota.
const AiLimitDefaultKey = "ai_daily_limit_default"

// SettingsLoadedMsg delivers the settings map.
type SettingsLoadedMsg struct {
	Err      error
	Settings map[string]string
}

// SettingSavedMsg reports an update outcome.
type SettingSavedMsg struct {
	Err   error
	Key   string
	Value string
}

// AdminSettingsModel edits app-wide settings. The AI default quota gets
// a dedicated unlimited toggle; other keys are edited as raw strings.
type AdminSettingsModel struct {
	svc    AdminSettingsService
	toasts *toast.Store
	ctx    context.Context
	theme  themes.Theme

	settings map[string]string
	keys     []string
	cursor   int
	loading  bool

	editing   bool
	editInput textinput.Model
	unlimited bool

	width  int
	height int
}

// NewAdminSettings builds the settings editor.
func NewAdminSettings(ctx context.Context, svc AdminSettingsService, toasts *toast.Store, theme themes.Theme) AdminSettingsModel {
	input := textinput.New()
	input.CharLimit = 50

	return AdminSettingsModel{
		svc:       svc,
		toasts:    toasts,
		ctx:       ctx,
		theme:     theme,
		editInput: input,
		width:     80,
		height:    24,
	}
}

// Init fetches the settings.
func (m AdminSettingsModel) Init() (AdminSettingsModel, tea.Cmd) {
	m.loading = true
	ctx, svc := m.ctx, m.svc
	return m, func() tea.Msg {
		settings, err := svc.AdminSettings(ctx)
		return SettingsLoadedMsg{Err: err, Settings: settings}
	}
}

// AiLimitDefault reads the global quota, falling back to 50 when the
// key is absent or malformed.
func (m AdminSettingsModel) AiLimitDefault() int {
	if raw, ok := m.settings[AiLimitDefaultKey]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return 50
}

// Update handles messages.
func (m AdminSettingsModel) Update(msg tea.Msg) (AdminSettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case SettingsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal memuat pengaturan 😵"))
			return m, nil
		}
		m.settings = msg.Settings
		m.keys = make([]string, 0, len(msg.Settings))
		for key := range msg.Settings {
			m.keys = append(m.keys, key)
		}
		sort.Strings(m.keys)
		return m, nil

	case SettingSavedMsg:
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal menyimpan pengaturan 😵"))
			return m, nil
		}
		m.settings[msg.Key] = msg.Value
		if msg.Key == AiLimitDefaultKey {
			m.toasts.Success("Limit AI default: " + m.limitLabel(msg.Value))
		} else {
			m.toasts.Success("Pengaturan disimpan! ✅")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKeys(msg)
		}
		return m, m.handleBrowseKeys(msg)
	}

	return m, nil
}

func (m *AdminSettingsModel) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.keys)-1)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "enter", "e":
		if m.cursor < len(m.keys) {
			key := m.keys[m.cursor]
			value := m.settings[key]
			m.editing = true
			m.unlimited = key == AiLimitDefaultKey && value == strconv.Itoa(model.UnlimitedAiLimit)
			if m.unlimited {
				m.editInput.SetValue("")
			} else {
				m.editInput.SetValue(value)
			}
			m.editInput.Focus()
			return textinput.Blink
		}
	}
	return nil
}

func (m AdminSettingsModel) handleEditKeys(msg tea.KeyMsg) (AdminSettingsModel, tea.Cmd) {
	key := m.keys[m.cursor]

	switch msg.String() {
	case "esc":
		m.editing = false
		m.editInput.Blur()
		return m, nil

	case "ctrl+u":
		if key == AiLimitDefaultKey {
			m.unlimited = !m.unlimited
		}
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.editInput.Value())
		if key == AiLimitDefaultKey {
			if m.unlimited {
				value = strconv.Itoa(model.UnlimitedAiLimit)
			} else if n, err := strconv.Atoi(value); err != nil || n <= 0 {
				m.toasts.Error("Limit harus angka positif")
				return m, nil
			}
		}
		m.editing = false
		m.editInput.Blur()

		ctx, svc := m.ctx, m.svc
		return m, func() tea.Msg {
			return SettingSavedMsg{
				Err:   svc.UpdateAdminSetting(ctx, key, value),
				Key:   key,
				Value: value,
			}
		}
	}

	if !m.unlimited {
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AdminSettingsModel) limitLabel(raw string) string {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	return model.AiLimitLabel(&n, n)
}

// View renders the page.
func (m AdminSettingsModel) View() string {
	rows := []string{m.theme.Title.Render("Pengaturan ⚙️"), ""}

	if m.loading {
		rows = append(rows, m.theme.StatusPending.Render("Memuat..."))
	}

	for i, key := range m.keys {
		value := m.settings[key]
		display := value
		if key == AiLimitDefaultKey {
			display = m.limitLabel(value)
		}

		line := fmt.Sprintf("%-28s %s", key, m.theme.Bold.Render(display))
		if i == m.cursor {
			line = m.theme.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}

	if m.editing {
		key := m.keys[m.cursor]
		rows = append(rows, "", m.theme.Bold.Render("Edit "+key))
		if key == AiLimitDefaultKey && m.unlimited {
			rows = append(rows, m.theme.Highlighted.Render("Tanpa batas (∞)"))
		} else {
			rows = append(rows, m.editInput.View())
		}
		hint := "[Enter] Simpan  [Esc] Batal"
		if key == AiLimitDefaultKey {
			hint += "  [Ctrl+U] Tanpa batas"
		}
		rows = append(rows, m.theme.Subtitle.Render(hint))
	} else {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[Enter] Edit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
