package api

import (
	"context"

	"github.com/cape-app/cape/internal/model"
)

// ListCategories fetches all categories visible to the caller.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if _, err := c.get(ctx, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
