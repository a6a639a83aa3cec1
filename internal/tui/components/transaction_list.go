package components

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TransactionService is the slice of the API client the transaction
// list needs. Tests substitute fakes.
type TransactionService interface {
	ListTransactions(ctx context.Context, params model.ListParams) ([]model.Transaction, *api.Pagination, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// searchDebounce is how long the search input sits idle before a fetch.
const searchDebounce = 300 * time.Millisecond

// ListMode represents the current mode of the list.
type ListMode int

// List modes.
const (
	ModeBrowse ListMode = iota
	ModeSearch
	ModeConfirmDelete
)

// PageLoadedMsg delivers one fetched page. Generation identifies the
// request so stale responses can be discarded.
type PageLoadedMsg struct {
	Err        error
	Items      []model.Transaction
	Total      int
	Generation int
}

// DeleteDoneMsg reports the outcome of a delete call.
type DeleteDoneMsg struct {
	Err error
	ID  string
}

// UpdateDoneMsg reports the outcome of an edit submit.
type UpdateDoneMsg struct {
	Err error
	Txn *model.Transaction
}

// CreateDoneMsg reports the outcome of a manual or AI create.
type CreateDoneMsg struct {
	Err      error
	AiResult *model.AiParseResult
}

// TransactionSelectedMsg is sent when a transaction is chosen for
// editing.
type TransactionSelectedMsg struct {
	Transaction model.Transaction
}

type searchDebounceMsg struct {
	seq int
}

// TransactionListModel owns the filtered, paginated transaction view:
// filter criteria, the current page, loading flags, and the optimistic
// mutations applied to it. Sorting and pagination edge cases stay
// server-side; the list never re-sorts locally.
type TransactionListModel struct {
	svc          TransactionService
	toasts       *toast.Store
	ctx          context.Context
	theme        themes.Theme
	params       model.ListParams
	items        []model.Transaction
	categories   []model.Category
	searchInput  textinput.Model
	spinner      spinner.Model
	total        int
	generation   int
	searchSeq    int
	cursor       int
	catFilter    int
	width        int
	height       int
	mode         ListMode
	deleteTarget *model.Transaction
	loading      bool
}

// NewTransactionList creates the list with default filters: newest
// first, one page of pageSize records.
func NewTransactionList(ctx context.Context, svc TransactionService, toasts *toast.Store, theme themes.Theme, pageSize int) TransactionListModel {
	if pageSize <= 0 {
		pageSize = 20
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Cari transaksi..."
	searchInput.CharLimit = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return TransactionListModel{
		svc:         svc,
		toasts:      toasts,
		ctx:         ctx,
		theme:       theme,
		searchInput: searchInput,
		spinner:     s,
		catFilter:   -1,
		width:       80,
		height:      24,
		params: model.ListParams{
			SortBy:    model.SortByDate,
			SortOrder: model.SortDesc,
			Limit:     pageSize,
		},
	}
}

// Init issues the first fetch.
func (m TransactionListModel) Init() (TransactionListModel, tea.Cmd) {
	cmd := m.startFetch()
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// Params exposes the active filter criteria.
func (m TransactionListModel) Params() model.ListParams { return m.params }

// Items exposes the current page.
func (m TransactionListModel) Items() []model.Transaction { return m.items }

// Total exposes the server-reported total for the active filters.
func (m TransactionListModel) Total() int { return m.total }

// Loading reports whether a fetch is in flight.
func (m TransactionListModel) Loading() bool { return m.loading }

// Mode reports the current input mode.
func (m TransactionListModel) Mode() ListMode { return m.mode }

// SetCategories installs the category set used by the filter cycle.
func (m *TransactionListModel) SetCategories(categories []model.Category) {
	m.categories = categories
}

// SetFilter replaces the filter criteria, rewinds to the first page and
// refetches. Limit is preserved.
func (m *TransactionListModel) SetFilter(p model.ListParams) tea.Cmd {
	p.Limit = m.params.Limit
	m.params = p.ResetPage()
	return m.startFetch()
}

// Refetch reloads the current filter/page, e.g. after a create.
func (m *TransactionListModel) Refetch() tea.Cmd {
	return m.startFetch()
}

// startFetch issues a fetch tagged with a fresh generation. Responses
// carrying an older generation are discarded on arrival, so a slow
// early request can never overwrite a later page.
func (m *TransactionListModel) startFetch() tea.Cmd {
	m.generation++
	m.loading = true

	gen := m.generation
	params := m.params
	ctx, svc := m.ctx, m.svc

	return func() tea.Msg {
		items, page, err := svc.ListTransactions(ctx, params)
		msg := PageLoadedMsg{Generation: gen, Err: err, Items: items}
		if page != nil {
			msg.Total = page.Total
		}
		return msg
	}
}

// Update handles messages.
func (m TransactionListModel) Update(msg tea.Msg) (TransactionListModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case PageLoadedMsg:
		if msg.Generation != m.generation {
			// Stale response from a superseded fetch.
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			// Prior items stay visible; no retry.
			m.toasts.Error(api.Message(msg.Err, "Gagal memuat transaksi 😵"))
			return m, nil
		}
		m.items = msg.Items
		m.total = msg.Total
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}

	case DeleteDoneMsg:
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal menghapus transaksi 😵"))
			return m, nil
		}
		m.removeItem(msg.ID)
		m.toasts.Success("Transaksi berhasil dihapus! 🗑️")

	case UpdateDoneMsg:
		if msg.Err != nil {
			// The edit dialog stays open; it observes the same message.
			m.toasts.Error(api.Message(msg.Err, "Gagal mengupdate transaksi 😵"))
			return m, nil
		}
		m.patchItem(msg.Txn)
		m.toasts.Success("Transaksi berhasil diupdate! ✏️")

	case CreateDoneMsg:
		if msg.Err != nil {
			m.toasts.Error(api.Message(msg.Err, "Gagal menambah transaksi 😵"))
			return m, nil
		}
		if msg.AiResult != nil {
			detected := msg.AiResult.Parsed.Detected
			m.toasts.Success("Transaksi AI tercatat! ✨",
				fmt.Sprintf("%s — %s (%.0f%%)", detected.Description,
					model.FormatIDR(detected.Amount), detected.Confidence*100))
		} else {
			m.toasts.Success("Transaksi berhasil ditambahkan! 🎉")
		}
		// Placement respects server-side sort/filter: refetch, never
		// prepend locally.
		cmds = append(cmds, m.startFetch())

	case searchDebounceMsg:
		if msg.seq == m.searchSeq {
			cmds = append(cmds, m.applySearch())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch m.mode {
		case ModeBrowse:
			cmds = append(cmds, m.handleBrowseKeys(msg))
		case ModeSearch:
			cmds = append(cmds, m.handleSearchKeys(msg))
		case ModeConfirmDelete:
			cmds = append(cmds, m.handleConfirmKeys(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *TransactionListModel) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.items)-1)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(0, len(m.items)-1)

	case "l", "right", "n":
		if m.params.Offset+m.params.Limit < m.total {
			m.params = m.params.WithOffset(m.params.Offset + m.params.Limit)
			return m.startFetch()
		}
	case "h", "left", "p":
		if m.params.Offset > 0 {
			m.params = m.params.WithOffset(max(0, m.params.Offset-m.params.Limit))
			return m.startFetch()
		}

	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue(m.params.Search)
		m.searchInput.Focus()
		return textinput.Blink

	case "s":
		p := m.params
		if p.SortBy == model.SortByDate {
			p.SortBy = model.SortByAmount
		} else {
			p.SortBy = model.SortByDate
		}
		return m.SetFilter(p)
	case "o":
		p := m.params
		if p.SortOrder == model.SortDesc {
			p.SortOrder = model.SortAsc
		} else {
			p.SortOrder = model.SortDesc
		}
		return m.SetFilter(p)

	case "c":
		return m.cycleCategoryFilter()

	case "r":
		return m.Refetch()

	case "d":
		if m.cursor < len(m.items) {
			target := m.items[m.cursor]
			m.deleteTarget = &target
			m.mode = ModeConfirmDelete
		}

	case "enter":
		if m.cursor < len(m.items) {
			selected := m.items[m.cursor]
			return func() tea.Msg {
				return TransactionSelectedMsg{Transaction: selected}
			}
		}
	}

	return nil
}

func (m *TransactionListModel) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.mode = ModeBrowse
		m.searchInput.Blur()
		return m.applySearch()

	case "esc":
		m.mode = ModeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue(m.params.Search)
		return nil

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)

		// One request per pause, not per keystroke.
		m.searchSeq++
		seq := m.searchSeq
		debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{seq: seq}
		})
		return tea.Batch(cmd, debounce)
	}
}

func (m *TransactionListModel) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		m.mode = ModeBrowse
		if m.deleteTarget == nil {
			return nil
		}
		id := m.deleteTarget.ID
		m.deleteTarget = nil
		ctx, svc := m.ctx, m.svc
		return func() tea.Msg {
			return DeleteDoneMsg{ID: id, Err: svc.DeleteTransaction(ctx, id)}
		}

	case "n", "esc":
		m.mode = ModeBrowse
		m.deleteTarget = nil
	}

	return nil
}

func (m *TransactionListModel) applySearch() tea.Cmd {
	p := m.params
	p.Search = strings.TrimSpace(m.searchInput.Value())
	if p.Search == m.params.Search {
		return nil
	}
	return m.SetFilter(p)
}

func (m *TransactionListModel) cycleCategoryFilter() tea.Cmd {
	if len(m.categories) == 0 {
		return nil
	}

	m.catFilter++
	if m.catFilter >= len(m.categories) {
		m.catFilter = -1
	}

	p := m.params
	if m.catFilter < 0 {
		p.CategoryID = ""
	} else {
		p.CategoryID = m.categories[m.catFilter].ID
	}
	return m.SetFilter(p)
}

// removeItem applies the optimistic delete: the record disappears from
// the page and the total drops by one without a refetch.
func (m *TransactionListModel) removeItem(id string) {
	for i, txn := range m.items {
		if txn.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.total--
			break
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

// patchItem replaces the matching record in place, preserving the
// position and identity of everything else.
func (m *TransactionListModel) patchItem(txn *model.Transaction) {
	if txn == nil {
		return
	}
	for i := range m.items {
		if m.items[i].ID == txn.ID {
			m.items[i] = *txn
			return
		}
	}
}

// View renders the list.
func (m TransactionListModel) View() string {
	if m.mode == ModeConfirmDelete && m.deleteTarget != nil {
		return m.renderConfirm()
	}

	sections := []string{m.renderHeader()}

	if m.mode == ModeSearch {
		sections = append(sections, m.searchInput.View())
	}

	if len(m.items) == 0 {
		if m.loading {
			sections = append(sections, m.theme.StatusPending.Render(m.spinner.View()+" Memuat transaksi..."))
		} else {
			sections = append(sections, m.theme.Subtitle.Render("Belum ada transaksi untuk filter ini."))
		}
	} else {
		sections = append(sections, m.renderRows())
	}

	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TransactionListModel) renderHeader() string {
	title := m.theme.Title.Render("Riwayat Transaksi 📋")

	status := m.rangeLabel()
	if m.params.Search != "" {
		status += fmt.Sprintf(" | Cari: %q", m.params.Search)
	}
	if m.params.CategoryID != "" {
		for _, cat := range m.categories {
			if cat.ID == m.params.CategoryID {
				status += fmt.Sprintf(" | Kategori: %s", cat.Name)
				break
			}
		}
	}
	if m.loading {
		status += " " + m.spinner.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Subtitle.Render(status))
}

// rangeLabel renders "Menampilkan 1–20 dari 45" plus the page position.
func (m TransactionListModel) rangeLabel() string {
	if m.total == 0 {
		return "Menampilkan 0 transaksi"
	}

	first := m.params.Offset + 1
	last := min(m.params.Offset+len(m.items), m.total)
	return fmt.Sprintf("Menampilkan %d–%d dari %d · Hal %d/%d",
		first, last, m.total, m.pageNumber(), m.totalPages())
}

func (m TransactionListModel) pageNumber() int {
	if m.params.Limit <= 0 {
		return 1
	}
	return m.params.Offset/m.params.Limit + 1
}

func (m TransactionListModel) totalPages() int {
	if m.params.Limit <= 0 || m.total == 0 {
		return 1
	}
	return (m.total + m.params.Limit - 1) / m.params.Limit
}

func (m TransactionListModel) renderRows() string {
	rows := make([]string, 0, len(m.items))
	for i, txn := range m.items {
		rows = append(rows, m.renderRow(txn, i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

func (m TransactionListModel) renderRow(txn model.Transaction, selected bool) string {
	slug, color, name := "", "", "Tanpa kategori"
	if txn.Category != nil {
		slug, color, name = txn.Category.IconSlug, txn.Category.ColorHex, txn.Category.Name
	}

	swatch := icons.Swatch(slug, color, icons.SizeSmall)

	desc := txn.Description
	if desc == "" {
		desc = name
	}
	desc = truncate(desc, 32)

	amountStyle := m.theme.Amount
	sign := "-"
	if !txn.IsExpense() {
		amountStyle = m.theme.AmountIncome
		sign = "+"
	}
	amount := amountStyle.Render(sign + model.FormatIDR(txn.AmountValue()))

	badge := ""
	if txn.IsAiGenerated {
		badge = " " + m.theme.AiBadge.Render("AI")
	}

	line := fmt.Sprintf("%s  %-10s  %-34s  %-20s  %s%s",
		swatch, txn.Date, desc, truncate(name, 20), amount, badge)

	if selected {
		return m.theme.Selected.Render("▸ ") + line
	}
	return "  " + line
}

func (m TransactionListModel) renderConfirm() string {
	target := m.deleteTarget
	desc := target.Description
	if desc == "" && target.Category != nil {
		desc = target.Category.Name
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Hapus transaksi?"),
		m.theme.Normal.Render(fmt.Sprintf("%s · %s", desc, model.FormatIDR(target.AmountValue()))),
		"",
		m.theme.Subtitle.Render("[y] Hapus  [n] Batal"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(body))
}

func (m TransactionListModel) renderFooter() string {
	hints := []string{
		"[↑↓] Pilih",
		"[Enter] Edit",
		"[/] Cari",
		"[c] Kategori",
		"[s] Urut",
		"[d] Hapus",
	}

	prev := "[p] Sebelumnya"
	if m.params.Offset == 0 {
		prev = m.theme.StatusPending.Render(prev)
	}
	next := "[n] Berikutnya"
	if m.params.Offset+m.params.Limit >= m.total {
		next = m.theme.StatusPending.Render(next)
	}
	hints = append(hints, prev, next)

	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(hints, "  "))
}

// truncate shortens s to maxLen runes, never splitting a multibyte rune.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
