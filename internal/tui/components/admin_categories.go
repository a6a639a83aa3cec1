package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AdminCategoryService is the category-management slice of the API
// client.
type AdminCategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, input model.CreateCategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, input model.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) (*api.DeleteCategoryResult, error)
}

// CategoriesLoadedMsg delivers the category list.
type CategoriesLoadedMsg struct {
	Err        error
	Categories []model.Category
}

// CategoryMutatedMsg reports a create/update outcome.
type CategoryMutatedMsg struct {
	Err     error
	Success string
}

// CategoryDeletedMsg reports a delete outcome, including how many
// transactions lost their category.
type CategoryDeletedMsg struct {
	Err      error
	Name     string
	Orphaned int
}

type adminCatsMode int

const (
	adminCatsBrowse adminCatsMode = iota
	adminCatsForm
	adminCatsConfirmDelete
)

const catFormFields = 3 // name, color, keywords; icon picked separately

// AdminCategoriesModel manages global categories: the list, a
// create/edit form with an icon picker, and deletion with the orphan
// count surfaced.
type AdminCategoriesModel struct {
	svc     AdminCategoryService
	toasts  *toast.Store
	recents *icons.Recents
	ctx     context.Context
	theme   themes.Theme

	categories []model.Category
	cursor     int
	loading    bool
	mode       adminCatsMode

	// Form state.
	editID     string
	formInputs []textinput.Model
	formFocus  int
	formErrs   map[int]string
	formType   model.CategoryType
	pickerOpen bool
	pickerIdx  int
	pickerSlug string
	picker     []string

	deleteTarget *model.Category

	width  int
	height int
}

// NewAdminCategories builds the category manager. recents persists the
// most recently used icon slugs across sessions.
func NewAdminCategories(ctx context.Context, svc AdminCategoryService, toasts *toast.Store, recents *icons.Recents, theme themes.Theme) AdminCategoriesModel {
	inputs := make([]textinput.Model, catFormFields)
	for i, prompt := range []string{"Nama:     ", "Warna:    ", "Keywords: "} {
		inputs[i] = textinput.New()
		inputs[i].Prompt = prompt
		inputs[i].CharLimit = 100
	}
	inputs[1].Placeholder = "#10b981"
	inputs[2].Placeholder = "makan, kuliner, resto"

	return AdminCategoriesModel{
		svc:        svc,
		toasts:     toasts,
		recents:    recents,
		ctx:        ctx,
		theme:      theme,
		formInputs: inputs,
		formType:   model.CategoryTypeExpense,
		width:      80,
		height:     24,
	}
}

// Init fetches the list.
func (m AdminCategoriesModel) Init() (AdminCategoriesModel, tea.Cmd) {
	return m, m.fetch()
}

func (m *AdminCategoriesModel) fetch() tea.Cmd {
	m.loading = true
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		cats, err := svc.ListCategories(ctx)
		return CategoriesLoadedMsg{Err: err, Categories: cats}
	}
}

// Categories exposes the loaded list, e.g. for the transaction filter.
func (m AdminCategoriesModel) Categories() []model.Category { return m.categories }

// Update handles messages.
func (m AdminCategoriesModel) Update(msg tea.Msg) (AdminCategoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case CategoriesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal memuat kategori 😵"))
			return m, nil
		}
		m.categories = msg.Categories
		if m.cursor >= len(m.categories) {
			m.cursor = max(0, len(m.categories)-1)
		}
		return m, nil

	case CategoryMutatedMsg:
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal menyimpan kategori 😵"))
			return m, nil
		}
		m.mode = adminCatsBrowse
		m.toasts.Success(msg.Success)
		return m, m.fetch()

	case CategoryDeletedMsg:
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal menghapus kategori 😵"))
			return m, nil
		}
		detail := ""
		if msg.Orphaned > 0 {
			detail = fmt.Sprintf("%d transaksi menjadi tanpa kategori", msg.Orphaned)
		}
		if detail != "" {
			m.toasts.Success(fmt.Sprintf("Kategori %s dihapus", msg.Name), detail)
		} else {
			m.toasts.Success(fmt.Sprintf("Kategori %s dihapus", msg.Name))
		}
		return m, m.fetch()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case adminCatsBrowse:
			return m, m.handleBrowseKeys(msg)
		case adminCatsForm:
			return m.handleFormKeys(msg)
		case adminCatsConfirmDelete:
			return m, m.handleDeleteKeys(msg)
		}
	}

	return m, nil
}

func (m *AdminCategoriesModel) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.categories)-1)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "r":
		return m.fetch()

	case "a":
		m.openForm(nil)
		return textinput.Blink
	case "enter", "e":
		if m.cursor < len(m.categories) {
			cat := m.categories[m.cursor]
			m.openForm(&cat)
			return textinput.Blink
		}
	case "d":
		if m.cursor < len(m.categories) {
			cat := m.categories[m.cursor]
			m.deleteTarget = &cat
			m.mode = adminCatsConfirmDelete
		}
	}
	return nil
}

func (m *AdminCategoriesModel) openForm(cat *model.Category) {
	m.mode = adminCatsForm
	m.formErrs = make(map[int]string)
	m.formFocus = 0
	m.pickerOpen = false

	if cat == nil {
		m.editID = ""
		m.formType = model.CategoryTypeExpense
		m.pickerSlug = ""
		for i := range m.formInputs {
			m.formInputs[i].SetValue("")
		}
	} else {
		m.editID = cat.ID
		m.formType = cat.Type
		m.pickerSlug = cat.IconSlug
		m.formInputs[0].SetValue(cat.Name)
		m.formInputs[1].SetValue(cat.ColorHex)
		m.formInputs[2].SetValue(strings.Join(cat.Keywords, ", "))
	}

	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formInputs[0].Focus()
}

// pickerSlugs lays out the icon choices: recently used first, then the
// rest of the registry, no duplicates.
func (m *AdminCategoriesModel) pickerSlugs() []string {
	recent := m.recents.List()
	seen := make(map[string]bool, len(recent))
	out := make([]string, 0, len(recent)+len(icons.Slugs()))
	for _, slug := range recent {
		if icons.Known(slug) && !seen[slug] {
			seen[slug] = true
			out = append(out, slug)
		}
	}
	for _, slug := range icons.Slugs() {
		if !seen[slug] {
			out = append(out, slug)
		}
	}
	return out
}

func (m AdminCategoriesModel) handleFormKeys(msg tea.KeyMsg) (AdminCategoriesModel, tea.Cmd) {
	if m.pickerOpen {
		return m.handlePickerKeys(msg), nil
	}

	switch msg.String() {
	case "esc":
		m.mode = adminCatsBrowse
		return m, nil

	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % catFormFields
		m.syncFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + catFormFields - 1) % catFormFields
		m.syncFormFocus()
		return m, nil

	case "ctrl+t":
		if m.formType == model.CategoryTypeExpense {
			m.formType = model.CategoryTypeIncome
		} else {
			m.formType = model.CategoryTypeExpense
		}
		return m, nil

	case "ctrl+o":
		m.pickerOpen = true
		m.picker = m.pickerSlugs()
		m.pickerIdx = 0
		for i, slug := range m.picker {
			if slug == m.pickerSlug {
				m.pickerIdx = i
				break
			}
		}
		return m, nil

	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	delete(m.formErrs, m.formFocus)
	return m, cmd
}

func (m AdminCategoriesModel) handlePickerKeys(msg tea.KeyMsg) AdminCategoriesModel {
	cols := 8
	switch msg.String() {
	case "esc":
		m.pickerOpen = false
	case "enter", " ":
		if m.pickerIdx < len(m.picker) {
			m.pickerSlug = m.picker[m.pickerIdx]
			m.recents.Add(m.pickerSlug)
		}
		m.pickerOpen = false
	case "h", "left":
		m.pickerIdx = max(0, m.pickerIdx-1)
	case "l", "right":
		m.pickerIdx = min(len(m.picker)-1, m.pickerIdx+1)
	case "j", "down":
		m.pickerIdx = min(len(m.picker)-1, m.pickerIdx+cols)
	case "k", "up":
		m.pickerIdx = max(0, m.pickerIdx-cols)
	}
	return m
}

func (m *AdminCategoriesModel) syncFormFocus() {
	for i := range m.formInputs {
		if i == m.formFocus {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m AdminCategoriesModel) submitForm() (AdminCategoriesModel, tea.Cmd) {
	m.formErrs = make(map[int]string)

	name := strings.TrimSpace(m.formInputs[0].Value())
	color := strings.TrimSpace(m.formInputs[1].Value())
	if name == "" {
		m.formErrs[0] = "Nama wajib diisi"
	}
	if color != "" && (len(color) != 7 || color[0] != '#') {
		m.formErrs[1] = "Format warna: #rrggbb"
	}
	if len(m.formErrs) > 0 {
		return m, nil
	}

	var keywords []string
	for _, kw := range strings.Split(m.formInputs[2].Value(), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	ctx, svc := m.ctx, m.svc
	if m.editID != "" {
		id := m.editID
		input := model.UpdateCategoryInput{
			Name: name, Type: m.formType, IconSlug: m.pickerSlug,
			ColorHex: color, Keywords: keywords,
		}
		return m, func() tea.Msg {
			_, err := svc.UpdateCategory(ctx, id, input)
			return CategoryMutatedMsg{Err: err, Success: "Kategori diupdate! ✏️"}
		}
	}

	input := model.CreateCategoryInput{
		Name: name, Type: m.formType, IconSlug: m.pickerSlug,
		ColorHex: color, Keywords: keywords,
	}
	return m, func() tea.Msg {
		_, err := svc.CreateCategory(ctx, input)
		return CategoryMutatedMsg{Err: err, Success: "Kategori baru ditambahkan! 🎉"}
	}
}

func (m *AdminCategoriesModel) handleDeleteKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		m.mode = adminCatsBrowse
		if m.deleteTarget == nil {
			return nil
		}
		target := *m.deleteTarget
		m.deleteTarget = nil
		ctx, svc := m.ctx, m.svc
		return func() tea.Msg {
			result, err := svc.DeleteCategory(ctx, target.ID)
			msg := CategoryDeletedMsg{Err: err, Name: target.Name}
			if result != nil {
				msg.Orphaned = result.OrphanedTransactions
			}
			return msg
		}
	case "n", "esc":
		m.mode = adminCatsBrowse
		m.deleteTarget = nil
	}
	return nil
}

// View renders the page.
func (m AdminCategoriesModel) View() string {
	switch m.mode {
	case adminCatsForm:
		return m.renderForm()
	case adminCatsConfirmDelete:
		return m.renderDeleteConfirm()
	}

	rows := []string{
		m.theme.Title.Render("Kelola Kategori 🗂️"),
		m.theme.Subtitle.Render(fmt.Sprintf("%d kategori", len(m.categories))),
		"",
	}

	if m.loading && len(m.categories) == 0 {
		rows = append(rows, m.theme.StatusPending.Render("Memuat..."))
	}

	for i, cat := range m.categories {
		rows = append(rows, m.renderCategoryRow(cat, i == m.cursor))
	}

	rows = append(rows, "", lipgloss.NewStyle().Foreground(m.theme.Muted).Render(
		"[a] Tambah  [Enter] Edit  [d] Hapus"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m AdminCategoriesModel) renderCategoryRow(cat model.Category, selected bool) string {
	kind := m.theme.Amount.Render("Keluar")
	if cat.Type == model.CategoryTypeIncome {
		kind = m.theme.AmountIncome.Render("Masuk ")
	}

	line := fmt.Sprintf("%s %-20s %s  %s",
		icons.Swatch(cat.IconSlug, cat.ColorHex, icons.SizeSmall),
		truncate(cat.Name, 20), kind,
		m.theme.Subtitle.Render(strings.Join(cat.Keywords, ", ")))

	if selected {
		return m.theme.Selected.Render("▸ ") + line
	}
	return "  " + line
}

func (m AdminCategoriesModel) renderForm() string {
	title := "Tambah Kategori"
	if m.editID != "" {
		title = "Edit Kategori"
	}

	typeLabel := "Pengeluaran"
	if m.formType == model.CategoryTypeIncome {
		typeLabel = "Pemasukan"
	}

	rows := []string{m.theme.Title.Render(title), ""}
	for i, input := range m.formInputs {
		rows = append(rows, input.View())
		if errMsg, ok := m.formErrs[i]; ok {
			rows = append(rows, m.theme.FieldError.Render("  "+errMsg))
		}
	}
	rows = append(rows,
		fmt.Sprintf("Tipe:     %s  (Ctrl+T)", m.theme.Bold.Render(typeLabel)),
		fmt.Sprintf("Ikon:     %s  (Ctrl+O)", icons.Resolve(m.pickerSlug)),
	)

	if m.pickerOpen {
		rows = append(rows, "", m.renderPicker())
	} else {
		rows = append(rows, "", m.theme.Subtitle.Render("[Enter] Simpan  [Esc] Batal"))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m AdminCategoriesModel) renderPicker() string {
	cols := 8
	var rows []string
	var line []string

	recentCount := 0
	for _, slug := range m.recents.List() {
		if icons.Known(slug) {
			recentCount++
		}
	}

	header := "Pilih ikon"
	if recentCount > 0 {
		header = fmt.Sprintf("Pilih ikon (terakhir dipakai: %d)", recentCount)
	}

	for i, slug := range m.picker {
		glyph := string(icons.Resolve(slug))
		if i == m.pickerIdx {
			glyph = m.theme.Selected.Render("[" + glyph + "]")
		} else {
			glyph = " " + glyph + " "
		}
		line = append(line, glyph)
		if len(line) == cols {
			rows = append(rows, strings.Join(line, " "))
			line = nil
		}
	}
	if len(line) > 0 {
		rows = append(rows, strings.Join(line, " "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{m.theme.Bold.Render(header)}, rows...)...)
}

func (m AdminCategoriesModel) renderDeleteConfirm() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Hapus kategori?"),
		m.theme.Normal.Render(m.deleteTarget.Name),
		m.theme.StatusWarning.Render("Transaksinya menjadi tanpa kategori."),
		"",
		m.theme.Subtitle.Render("[y] Hapus  [n] Batal"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(body))
}
