package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cape-app/cape/internal/model"
)

// ListTransactions fetches one page of transactions matching the params.
// Sorting and pagination are entirely server-side; the client never
// re-sorts or deduplicates.
func (c *Client) ListTransactions(ctx context.Context, params model.ListParams) ([]model.Transaction, *Pagination, error) {
	var transactions []model.Transaction
	page, err := c.get(ctx, "/api/transactions", params.Values(), &transactions)
	if err != nil {
		return nil, nil, err
	}
	return transactions, page, nil
}

// CreateTransaction records a manual transaction.
func (c *Client) CreateTransaction(ctx context.Context, input model.CreateTransactionInput) (*model.Transaction, error) {
	var txn model.Transaction
	if _, err := c.send(ctx, http.MethodPost, "/api/transactions", input, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateTransaction applies a partial update to a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id string, input model.UpdateTransactionInput) (*model.Transaction, error) {
	var txn model.Transaction
	path := fmt.Sprintf("/api/transactions/%s", url.PathEscape(id))
	if _, err := c.send(ctx, http.MethodPut, path, input, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/transactions/%s", url.PathEscape(id))
	_, err := c.send(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// TransactionStats fetches the monthly totals. Month is "YYYY-MM";
// empty means the current month, decided server-side.
func (c *Client) TransactionStats(ctx context.Context, month string) (*model.TransactionStats, error) {
	q := url.Values{}
	if month != "" {
		q.Set("month", month)
	}

	var stats model.TransactionStats
	if _, err := c.get(ctx, "/api/transactions/stats", q, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ParseWithAi sends free-text input to the backend parser, which creates
// the detected transaction and reports its confidence.
func (c *Client) ParseWithAi(ctx context.Context, input string) (*model.AiParseResult, error) {
	body := struct {
		Input string `json:"input"`
	}{Input: input}

	var result model.AiParseResult
	if _, err := c.send(ctx, http.MethodPost, "/api/transactions/ai", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
