package model

import (
	"net/url"
	"strconv"
)

// Sort keys accepted by GET /api/transactions.
const (
	SortByDate   = "date"
	SortByAmount = "amount"
	SortAsc      = "asc"
	SortDesc     = "desc"
)

// ListParams is the transaction filter criteria. Every field is
// independently optional; the zero value means "no filter". The params
// are client-only state and are never persisted.
type ListParams struct {
	Month      string
	CategoryID string
	Search     string
	StartDate  string
	EndDate    string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// Values serializes the params as query parameters, omitting unset fields.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Month != "" {
		q.Set("month", p.Month)
	}
	if p.CategoryID != "" {
		q.Set("categoryId", p.CategoryID)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	return q
}

// WithOffset returns a copy of the params pointing at another page.
func (p ListParams) WithOffset(offset int) ListParams {
	p.Offset = offset
	return p
}

// ResetPage returns a copy of the params rewound to the first page.
// Every filter change goes through this before fetching.
func (p ListParams) ResetPage() ListParams {
	p.Offset = 0
	return p
}

// AdminUserListParams filters the admin user list. Uses page-numbered
// pagination rather than offsets.
type AdminUserListParams struct {
	Search string
	Role   Role
	Page   int
	Limit  int
}

// Values serializes the params as query parameters, omitting unset fields.
func (p AdminUserListParams) Values() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Role != "" {
		q.Set("role", string(p.Role))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}
