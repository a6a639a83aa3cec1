package components

import (
	"context"
	"fmt"
	"testing"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactionService struct {
	listCalls   []model.ListParams
	listItems   []model.Transaction
	listTotal   int
	listErr     error
	deleteCalls []string
	deleteErr   error
}

func (f *fakeTransactionService) ListTransactions(_ context.Context, params model.ListParams) ([]model.Transaction, *api.Pagination, error) {
	f.listCalls = append(f.listCalls, params)
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return f.listItems, &api.Pagination{Total: f.listTotal}, nil
}

func (f *fakeTransactionService) DeleteTransaction(_ context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func sampleTransactions(n int) []model.Transaction {
	items := make([]model.Transaction, n)
	for i := range items {
		items[i] = model.Transaction{
			ID:          fmt.Sprintf("txn-%d", i),
			Amount:      "45000",
			Description: fmt.Sprintf("Transaksi %d", i),
			Date:        "2025-01-15",
			Category: &model.Category{
				ID:       "cat-food",
				Name:     "Makanan",
				Type:     model.CategoryTypeExpense,
				IconSlug: "utensils",
				ColorHex: "#f59e0b",
			},
		}
	}
	return items
}

func newTestList(svc TransactionService) TransactionListModel {
	return NewTransactionList(context.Background(), svc, toast.NewStore(), themes.Default, 20)
}

// drain runs a command tree and feeds every produced message back into
// the model, mimicking the bubbletea loop for synchronous commands.
func drain(t *testing.T, m TransactionListModel, cmd tea.Cmd) TransactionListModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch batch := msg.(type) {
	case tea.BatchMsg:
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	default:
		var next tea.Cmd
		m, next = m.Update(msg)
		return drain(t, m, next)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestTransactionListInitialFetch(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	require.Len(t, svc.listCalls, 1)
	assert.Equal(t, model.SortByDate, svc.listCalls[0].SortBy)
	assert.Equal(t, model.SortDesc, svc.listCalls[0].SortOrder)
	assert.Equal(t, 0, svc.listCalls[0].Offset)
	assert.Len(t, m.Items(), 3)
	assert.Equal(t, 3, m.Total())
	assert.False(t, m.Loading())
}

func TestTransactionListStaleResponseDiscarded(t *testing.T) {
	svc := &fakeTransactionService{}
	m := newTestList(svc)

	// Two fetches in flight; replies arrive out of order.
	first := m.startFetch()
	second := m.startFetch()
	_ = first

	m, _ = m.Update(PageLoadedMsg{
		Generation: m.generation,
		Items:      sampleTransactions(2),
		Total:      2,
	})
	require.Len(t, m.Items(), 2)

	// The slow first reply lands after the second already rendered.
	m, _ = m.Update(PageLoadedMsg{
		Generation: m.generation - 1,
		Items:      sampleTransactions(9),
		Total:      9,
	})
	assert.Len(t, m.Items(), 2, "stale page must not overwrite newer results")
	assert.Equal(t, 2, m.Total())
	_ = second
}

func TestTransactionListFilterResetsPage(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(20), listTotal: 45}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	// Go to page 2.
	m, cmd = m.Update(keyMsg("n"))
	m = drain(t, m, cmd)
	require.Equal(t, 20, svc.listCalls[1].Offset)

	// Changing the filter rewinds to page 1.
	p := m.Params()
	p.Month = "2025-01"
	cmd = m.SetFilter(p)
	m = drain(t, m, cmd)

	last := svc.listCalls[len(svc.listCalls)-1]
	assert.Equal(t, 0, last.Offset)
	assert.Equal(t, "2025-01", last.Month)
}

func TestTransactionListPaginationBounds(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(20), listTotal: 25}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	// Prev on the first page is a no-op.
	m, cmd = m.Update(keyMsg("p"))
	m = drain(t, m, cmd)
	assert.Len(t, svc.listCalls, 1)

	// Next advances.
	m, cmd = m.Update(keyMsg("n"))
	m = drain(t, m, cmd)
	require.Len(t, svc.listCalls, 2)
	assert.Equal(t, 20, svc.listCalls[1].Offset)

	// Next past the last page is a no-op.
	m, cmd = m.Update(keyMsg("n"))
	m = drain(t, m, cmd)
	assert.Len(t, svc.listCalls, 2)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "short stays", in: "Kopi", maxLen: 10, want: "Kopi"},
		{name: "ascii cut", in: "Kopi Starbucks Grande", maxLen: 10, want: "Kopi St..."},
		{name: "multibyte cut", in: "Nasi 🍜🍜🍜🍜🍜🍜🍜🍜", maxLen: 9, want: "Nasi 🍜..."},
		{name: "multibyte stays", in: "Kopi ☕", maxLen: 6, want: "Kopi ☕"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, truncate(tc.in, tc.maxLen))
		})
	}
}

func TestTransactionListRangeLabel(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(20), listTotal: 45}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	assert.Contains(t, m.View(), "Menampilkan 1–20 dari 45 · Hal 1/3")

	m, cmd = m.Update(keyMsg("n"))
	m = drain(t, m, cmd)
	assert.Contains(t, m.View(), "Menampilkan 21–40 dari 45 · Hal 2/3")
}

func TestTransactionListOptimisticDelete(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 45}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	m, cmd = m.Update(keyMsg("d"))
	m = drain(t, m, cmd)
	require.Equal(t, ModeConfirmDelete, m.mode)

	m, cmd = m.Update(keyMsg("y"))
	m = drain(t, m, cmd)

	require.Equal(t, []string{"txn-0"}, svc.deleteCalls)
	assert.Len(t, m.Items(), 2, "deleted row disappears without a refetch")
	assert.Equal(t, 44, m.Total())
	assert.Len(t, svc.listCalls, 1, "delete must not trigger a list refetch")
}

func TestTransactionListDeleteCancelled(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	m, cmd = m.Update(keyMsg("d"))
	m = drain(t, m, cmd)
	m, cmd = m.Update(keyMsg("esc"))
	m = drain(t, m, cmd)

	assert.Empty(t, svc.deleteCalls)
	assert.Len(t, m.Items(), 3)
	assert.Equal(t, ModeBrowse, m.mode)
}

func TestTransactionListDeleteFailureKeepsRow(t *testing.T) {
	svc := &fakeTransactionService{
		listItems: sampleTransactions(3),
		listTotal: 3,
		deleteErr: fmt.Errorf("boom"),
	}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	m, cmd = m.Update(keyMsg("d"))
	m = drain(t, m, cmd)
	m, cmd = m.Update(keyMsg("y"))
	m = drain(t, m, cmd)

	assert.Len(t, m.Items(), 3, "failed delete leaves the page untouched")
	assert.Equal(t, 3, m.Total())
}

func TestTransactionListUpdatePatchesInPlace(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	edited := m.Items()[1]
	edited.Description = "Makan siang tim"
	edited.Amount = "120000"

	m, cmd = m.Update(UpdateDoneMsg{Txn: &edited})
	m = drain(t, m, cmd)

	assert.Equal(t, "Makan siang tim", m.Items()[1].Description)
	assert.Equal(t, "txn-0", m.Items()[0].ID, "other rows keep their position")
	assert.Len(t, svc.listCalls, 1, "edit must not trigger a refetch")
}

func TestTransactionListCreateRefetches(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	m, cmd = m.Update(CreateDoneMsg{})
	m = drain(t, m, cmd)

	assert.Len(t, svc.listCalls, 2, "create reloads the current page")
	assert.Equal(t, 0, svc.listCalls[1].Offset)
}

func TestTransactionListFetchErrorKeepsItems(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)
	require.Len(t, m.Items(), 3)

	svc.listErr = fmt.Errorf("server down")
	cmd = m.Refetch()
	m = drain(t, m, cmd)

	assert.Len(t, m.Items(), 3, "prior page stays visible after a failed fetch")
	assert.False(t, m.Loading())
	assert.Len(t, svc.listCalls, 2, "no automatic retry")
}

func TestTransactionListSearchDebounce(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	m, _ = m.Update(keyMsg("/"))
	require.Equal(t, ModeSearch, m.mode)

	// Three quick keystrokes; only the final debounce tick is current.
	for _, r := range []string{"k", "o", "p"} {
		m, _ = m.Update(keyMsg(r))
	}

	m, cmd = m.Update(searchDebounceMsg{seq: m.searchSeq - 1})
	m = drain(t, m, cmd)
	assert.Len(t, svc.listCalls, 1, "superseded debounce ticks fetch nothing")

	m, cmd = m.Update(searchDebounceMsg{seq: m.searchSeq})
	m = drain(t, m, cmd)
	require.Len(t, svc.listCalls, 2)
	assert.Equal(t, "kop", svc.listCalls[1].Search)
	assert.Equal(t, 0, svc.listCalls[1].Offset)
}

func TestTransactionListCategoryCycle(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)
	m.SetCategories([]model.Category{
		{ID: "cat-food", Name: "Makanan"},
		{ID: "cat-transport", Name: "Transportasi"},
	})

	m, cmd = m.Update(keyMsg("c"))
	m = drain(t, m, cmd)
	assert.Equal(t, "cat-food", svc.listCalls[1].CategoryID)

	m, cmd = m.Update(keyMsg("c"))
	m = drain(t, m, cmd)
	assert.Equal(t, "cat-transport", svc.listCalls[2].CategoryID)

	// Cycling past the end clears the filter.
	m, cmd = m.Update(keyMsg("c"))
	m = drain(t, m, cmd)
	assert.Empty(t, svc.listCalls[3].CategoryID)
}

func TestTransactionListSelectEmitsMsg(t *testing.T) {
	svc := &fakeTransactionService{listItems: sampleTransactions(3), listTotal: 3}

	m, cmd := newTestList(svc).Init()
	m = drain(t, m, cmd)

	m, cmd = m.Update(keyMsg("j"))
	_ = drain(t, m, cmd)
	m, cmd = m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(TransactionSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "txn-1", msg.Transaction.ID)
}
