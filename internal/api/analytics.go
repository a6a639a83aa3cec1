package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cape-app/cape/internal/model"
)

// Analytics fetches the server-computed monthly aggregate.
func (c *Client) Analytics(ctx context.Context, month string) (*model.Analytics, error) {
	q := url.Values{}
	if month != "" {
		q.Set("month", month)
	}

	var analytics model.Analytics
	if _, err := c.get(ctx, "/api/transactions/analytics", q, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// Insight asks the backend for a free-text spending insight.
func (c *Client) Insight(ctx context.Context, month string) (*model.Insight, error) {
	body := struct {
		Month string `json:"month,omitempty"`
	}{Month: month}

	var insight model.Insight
	if _, err := c.send(ctx, http.MethodPost, "/api/transactions/insight", body, &insight); err != nil {
		return nil, err
	}
	return &insight, nil
}
