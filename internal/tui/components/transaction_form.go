package components

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TransactionWriter is the mutation slice of the API client used by
// the entry form.
type TransactionWriter interface {
	CreateTransaction(ctx context.Context, input model.CreateTransactionInput) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, input model.UpdateTransactionInput) (*model.Transaction, error)
}

// Form fields in tab order.
const (
	fieldAmount = iota
	fieldDescription
	fieldDate
	fieldCategory
	fieldCount
)

// TransactionFormModel is the create/edit dialog. It validates inline,
// submits through TransactionWriter, and stays open when the submit
// fails so nothing the user typed is lost.
type TransactionFormModel struct {
	svc        TransactionWriter
	ctx        context.Context
	theme      themes.Theme
	inputs     []textinput.Model
	categories []model.Category
	errors     map[int]string
	editID     string
	catIdx     int
	focus      int
	submitting bool
	width      int
	height     int
}

// NewTransactionForm builds an empty create dialog.
func NewTransactionForm(ctx context.Context, svc TransactionWriter, theme themes.Theme, categories []model.Category) TransactionFormModel {
	inputs := make([]textinput.Model, 3)

	inputs[fieldAmount] = textinput.New()
	inputs[fieldAmount].Placeholder = "50000"
	inputs[fieldAmount].Prompt = "Jumlah (Rp): "
	inputs[fieldAmount].CharLimit = 15
	inputs[fieldAmount].Focus()

	inputs[fieldDescription] = textinput.New()
	inputs[fieldDescription].Placeholder = "Makan siang"
	inputs[fieldDescription].Prompt = "Deskripsi:   "
	inputs[fieldDescription].CharLimit = 100

	inputs[fieldDate] = textinput.New()
	inputs[fieldDate].Placeholder = model.DateLayout
	inputs[fieldDate].Prompt = "Tanggal:     "
	inputs[fieldDate].CharLimit = 10
	inputs[fieldDate].SetValue(time.Now().Format(model.DateLayout))

	return TransactionFormModel{
		svc:        svc,
		ctx:        ctx,
		theme:      theme,
		inputs:     inputs,
		categories: categories,
		errors:     make(map[int]string),
		width:      80,
		height:     24,
	}
}

// NewEditForm builds the dialog prefilled from an existing transaction.
func NewEditForm(ctx context.Context, svc TransactionWriter, theme themes.Theme, categories []model.Category, txn model.Transaction) TransactionFormModel {
	m := NewTransactionForm(ctx, svc, theme, categories)
	m.editID = txn.ID
	m.inputs[fieldAmount].SetValue(txn.Amount)
	m.inputs[fieldDescription].SetValue(txn.Description)
	m.inputs[fieldDate].SetValue(txn.Date)
	if txn.Category != nil {
		for i, cat := range categories {
			if cat.ID == txn.Category.ID {
				m.catIdx = i
				break
			}
		}
	}
	return m
}

// Editing reports whether the form edits an existing record.
func (m TransactionFormModel) Editing() bool { return m.editID != "" }

// FormClosedMsg is sent when the form is dismissed without submitting.
type FormClosedMsg struct{}

// Update handles messages.
func (m TransactionFormModel) Update(msg tea.Msg) (TransactionFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case UpdateDoneMsg:
		m.submitting = false
		if msg.Err != nil {
			// Stay open; the list already toasted the failure.
			return m, nil
		}
		return m, closeForm

	case CreateDoneMsg:
		m.submitting = false
		if msg.Err != nil {
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
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			return m.submit()
		case "left", "h":
			if m.focus == fieldCategory && len(m.categories) > 0 {
				m.catIdx = (m.catIdx + len(m.categories) - 1) % len(m.categories)
				return m, nil
			}
		case "right", "l":
			if m.focus == fieldCategory && len(m.categories) > 0 {
				m.catIdx = (m.catIdx + 1) % len(m.categories)
				return m, nil
			}
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		delete(m.errors, m.focus)
		return m, cmd
	}
	return m, nil
}

func closeForm() tea.Msg { return FormClosedMsg{} }

func (m *TransactionFormModel) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// validate checks every field and records per-field messages. A form
// with errors never reaches the network.
func (m *TransactionFormModel) validate() bool {
	m.errors = make(map[int]string)

	raw := strings.TrimSpace(m.inputs[fieldAmount].Value())
	if raw == "" {
		m.errors[fieldAmount] = "Jumlah wajib diisi"
	} else if v, err := strconv.ParseFloat(raw, 64); err != nil || v <= 0 {
		m.errors[fieldAmount] = "Jumlah harus angka positif"
	}

	if strings.TrimSpace(m.inputs[fieldDescription].Value()) == "" {
		m.errors[fieldDescription] = "Deskripsi wajib diisi"
	}

	date := strings.TrimSpace(m.inputs[fieldDate].Value())
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		m.errors[fieldDate] = "Format tanggal: " + model.DateLayout
	}

	if len(m.categories) == 0 {
		m.errors[fieldCategory] = "Belum ada kategori"
	}

	return len(m.errors) == 0
}

func (m TransactionFormModel) submit() (TransactionFormModel, tea.Cmd) {
	if !m.validate() {
		return m, nil
	}
	m.submitting = true

	amount := strings.TrimSpace(m.inputs[fieldAmount].Value())
	description := strings.TrimSpace(m.inputs[fieldDescription].Value())
	date := strings.TrimSpace(m.inputs[fieldDate].Value())
	categoryID := m.categories[m.catIdx].ID

	ctx, svc := m.ctx, m.svc

	if m.editID != "" {
		id := m.editID
		input := model.UpdateTransactionInput{
			Amount:      amount,
			Description: description,
			Date:        date,
			CategoryID:  categoryID,
		}
		return m, func() tea.Msg {
			txn, err := svc.UpdateTransaction(ctx, id, input)
			return UpdateDoneMsg{Err: err, Txn: txn}
		}
	}

	input := model.CreateTransactionInput{
		Amount:      amount,
		Description: description,
		Date:        date,
		CategoryID:  categoryID,
	}
	return m, func() tea.Msg {
		_, err := svc.CreateTransaction(ctx, input)
		return CreateDoneMsg{Err: err}
	}
}

// View renders the dialog centered in the viewport.
func (m TransactionFormModel) View() string {
	title := "Tambah Transaksi 💸"
	if m.Editing() {
		title = "Edit Transaksi ✏️"
	}

	rows := []string{m.theme.Title.Render(title), ""}

	for i, input := range m.inputs {
		rows = append(rows, input.View())
		if errMsg, ok := m.errors[i]; ok {
			rows = append(rows, m.theme.FieldError.Render("  "+errMsg))
		}
	}

	rows = append(rows, m.renderCategoryPicker())
	if errMsg, ok := m.errors[fieldCategory]; ok {
		rows = append(rows, m.theme.FieldError.Render("  "+errMsg))
	}

	rows = append(rows, "")
	if m.submitting {
		rows = append(rows, m.theme.StatusPending.Render("Menyimpan..."))
	} else {
		rows = append(rows, m.theme.Subtitle.Render("[Enter] Simpan  [Tab] Pindah  [Esc] Batal"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(body))
}

func (m TransactionFormModel) renderCategoryPicker() string {
	label := "Kategori:    "
	if len(m.categories) == 0 {
		return label + m.theme.Subtitle.Render("(kosong)")
	}

	cat := m.categories[m.catIdx]
	value := fmt.Sprintf("◀ %s %s ▶", icons.Resolve(cat.IconSlug), cat.Name)
	if m.focus == fieldCategory {
		return label + m.theme.Selected.Render(value)
	}
	return label + m.theme.Normal.Render(value)
}
