package model

// CategoryTotal is one row of the monthly stats breakdown.
type CategoryTotal struct {
	Category *CategoryRef `json:"category"`
	Total    float64      `json:"total"`
	Count    int          `json:"count"`
}

// TransactionStats is the response of GET /api/transactions/stats.
type TransactionStats struct {
	Month        string          `json:"month"`
	TotalExpense float64         `json:"totalExpense"`
	TotalIncome  float64         `json:"totalIncome"`
	ByCategory   []CategoryTotal `json:"byCategory"`
}

// CategoryShare is one entry of the ranked per-category analytics list.
type CategoryShare struct {
	Category   *CategoryRef `json:"category"`
	Total      float64      `json:"total"`
	Percentage float64      `json:"percentage"`
}

// Analytics is the server-computed monthly aggregate. The client treats
// it as read-only.
type Analytics struct {
	Month            string          `json:"month"`
	TotalExpense     float64         `json:"totalExpense"`
	PrevMonthExpense float64         `json:"prevMonthExpense"`
	PercentChange    float64         `json:"percentChange"`
	TransactionCount int             `json:"transactionCount"`
	TopCategories    []CategoryShare `json:"topCategories"`
}

// Insight is the response of POST /api/transactions/insight.
type Insight struct {
	Insight string `json:"insight"`
	Month   string `json:"month,omitempty"`
}
