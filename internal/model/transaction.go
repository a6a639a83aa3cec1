package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Transaction is a single income or expense record. Amount travels as a
// decimal string to preserve precision and is always non-negative; the
// direction comes from the linked category's type.
type Transaction struct {
	ID            string   `json:"id"`
	UserID        string   `json:"userId"`
	CategoryID    string   `json:"categoryId"`
	Amount        string   `json:"amount"`
	Description   string   `json:"description"`
	Date          string   `json:"date"`
	IsAiGenerated bool     `json:"isAiGenerated"`
	AiConfidence  *float64 `json:"aiConfidence"`
	CreatedAt     string   `json:"createdAt"`

	// Category is the denormalized snapshot embedded for display.
	// Nil means the transaction is uncategorized.
	Category *Category `json:"category"`
}

// CreateTransactionInput is the payload for POST /api/transactions.
type CreateTransactionInput struct {
	CategoryID  string `json:"categoryId,omitempty"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// UpdateTransactionInput is the partial payload for PUT /api/transactions/:id.
type UpdateTransactionInput struct {
	CategoryID  string `json:"categoryId,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// AiParseResult is the response of POST /api/transactions/ai: the created
// transaction plus what the parser detected in the free-text input.
type AiParseResult struct {
	Transaction Transaction `json:"transaction"`
	Parsed      struct {
		Original string `json:"original"`
		Detected struct {
			Description  string  `json:"description"`
			Amount       float64 `json:"amount"`
			CategoryName string  `json:"categoryName"`
			Confidence   float64 `json:"confidence"`
			Date         string  `json:"date,omitempty"`
		} `json:"detected"`
	} `json:"parsed"`
}

// DateLayout is the calendar-day format used on the wire and in the UI.
const DateLayout = "2006-01-02"

// IsExpense reports whether the transaction reduces the balance.
// Uncategorized transactions count as expenses.
func (t *Transaction) IsExpense() bool {
	return t.Category == nil || t.Category.Type == CategoryTypeExpense
}

// AmountValue parses the decimal amount string. Unparseable amounts
// read as zero so a bad record never breaks rendering.
func (t *Transaction) AmountValue() float64 {
	v, err := strconv.ParseFloat(t.Amount, 64)
	if err != nil {
		return 0
	}
	return v
}

// Day returns the calendar day of the transaction, tolerating both bare
// dates and full RFC 3339 timestamps from the backend.
func (t *Transaction) Day() time.Time {
	if d, err := time.Parse(DateLayout, t.Date); err == nil {
		return d
	}
	if d, err := time.Parse(time.RFC3339, t.Date); err == nil {
		return d
	}
	return time.Time{}
}

// FormatIDR renders an amount in rupiah with thousand separators,
// e.g. FormatIDR(45000) == "Rp 45.000".
func FormatIDR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(int64(amount), 10)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if neg {
		return fmt.Sprintf("-Rp %s", b.String())
	}
	return fmt.Sprintf("Rp %s", b.String())
}
