package model

// CategoryType indicates whether a category tracks spending or income.
type CategoryType string

const (
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "EXPENSE"
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "INCOME"
)

// Category represents a transaction category as served by the backend.
// Global categories are shared across all users; user-owned ones are not.
type Category struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	IconSlug string       `json:"iconSlug"`
	ColorHex string       `json:"colorHex"`
	IsGlobal bool         `json:"isGlobal"`
	// Keywords feed the backend's AI matcher; the client only displays them.
	Keywords []string `json:"keywords,omitempty"`
}

// CategoryRef is the trimmed category shape embedded in stats and
// analytics rows. A nil ref means "uncategorized".
type CategoryRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IconSlug string `json:"iconSlug"`
	ColorHex string `json:"colorHex"`
}

// CreateCategoryInput is the payload for POST /api/admin/categories.
type CreateCategoryInput struct {
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	IconSlug string       `json:"iconSlug,omitempty"`
	ColorHex string       `json:"colorHex,omitempty"`
	Keywords []string     `json:"keywords,omitempty"`
}

// UpdateCategoryInput is the partial payload for PUT /api/admin/categories/:id.
type UpdateCategoryInput struct {
	Name     string       `json:"name,omitempty"`
	Type     CategoryType `json:"type,omitempty"`
	IconSlug string       `json:"iconSlug,omitempty"`
	ColorHex string       `json:"colorHex,omitempty"`
	Keywords []string     `json:"keywords,omitempty"`
}
