package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "small amount", amount: 500, want: "Rp 500"},
		{name: "thousands", amount: 45000, want: "Rp 45.000"},
		{name: "millions", amount: 1250000, want: "Rp 1.250.000"},
		{name: "zero", amount: 0, want: "Rp 0"},
		{name: "negative", amount: -45000, want: "-Rp 45.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatIDR(tt.amount))
		})
	}
}

func TestAiLimitLabel(t *testing.T) {
	unlimited := UnlimitedAiLimit
	custom := 50

	tests := []struct {
		limit  *int
		name   string
		want   string
		global int
	}{
		{name: "unlimited override", limit: &unlimited, global: 25, want: "∞"},
		{name: "custom override", limit: &custom, global: 25, want: "50/hari"},
		{name: "global default", limit: nil, global: 25, want: "25/hari"},
		{name: "global unlimited", limit: nil, global: UnlimitedAiLimit, want: "∞"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AiLimitLabel(tt.limit, tt.global))
		})
	}
}

func TestListParamsValues(t *testing.T) {
	p := ListParams{
		Month:     "2024-05",
		Search:    "kopi",
		SortBy:    SortByDate,
		SortOrder: SortDesc,
		Limit:     20,
		Offset:    40,
	}

	q := p.Values()
	assert.Equal(t, "2024-05", q.Get("month"))
	assert.Equal(t, "kopi", q.Get("search"))
	assert.Equal(t, "date", q.Get("sortBy"))
	assert.Equal(t, "desc", q.Get("sortOrder"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "40", q.Get("offset"))
	assert.NotContains(t, q, "categoryId")
	assert.NotContains(t, q, "startDate")
}

func TestListParamsValues_EmptyIsEmpty(t *testing.T) {
	assert.Empty(t, ListParams{}.Values())
}

func TestListParamsResetPage(t *testing.T) {
	p := ListParams{Search: "kopi", Limit: 20, Offset: 60}
	reset := p.ResetPage()

	assert.Equal(t, 0, reset.Offset)
	assert.Equal(t, "kopi", reset.Search)
	assert.Equal(t, 20, reset.Limit)
	// Original is untouched.
	assert.Equal(t, 60, p.Offset)
}

func TestTransactionAmountValue(t *testing.T) {
	txn := Transaction{Amount: "45000"}
	assert.InDelta(t, 45000.0, txn.AmountValue(), 0.001)

	txn.Amount = "garbage"
	assert.Zero(t, txn.AmountValue())
}

func TestTransactionDay(t *testing.T) {
	txn := Transaction{Date: "2024-05-12"}
	d := txn.Day()
	require.False(t, d.IsZero())
	assert.Equal(t, "2024-05-12", d.Format(DateLayout))

	txn.Date = "2024-05-12T00:00:00Z"
	assert.Equal(t, "2024-05-12", txn.Day().Format(DateLayout))

	txn.Date = "not a date"
	assert.True(t, txn.Day().IsZero())
}

func TestTransactionIsExpense(t *testing.T) {
	uncategorized := Transaction{}
	assert.True(t, uncategorized.IsExpense())

	income := Transaction{Category: &Category{Type: CategoryTypeIncome}}
	assert.False(t, income.IsExpense())

	expense := Transaction{Category: &Category{Type: CategoryTypeExpense}}
	assert.True(t, expense.IsExpense())
}
