package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cape-app/cape/internal/model"
)

// ListAdminUsers fetches one page of the admin user list.
func (c *Client) ListAdminUsers(ctx context.Context, params model.AdminUserListParams) ([]model.AdminUser, *Pagination, error) {
	var users []model.AdminUser
	page, err := c.get(ctx, "/api/admin/users", params.Values(), &users)
	if err != nil {
		return nil, nil, err
	}
	return users, page, nil
}

// CreateAdminUser creates a new admin account.
func (c *Client) CreateAdminUser(ctx context.Context, input model.CreateAdminInput) (*model.AdminUser, error) {
	var user model.AdminUser
	if _, err := c.send(ctx, http.MethodPost, "/api/admin/users", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAdminUser removes a user account.
func (c *Client) DeleteAdminUser(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/users/%s", url.PathEscape(id))
	_, err := c.send(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// SetAiAccess toggles the AI smart-input feature for a user.
func (c *Client) SetAiAccess(ctx context.Context, id string, enabled bool) error {
	body := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}

	path := fmt.Sprintf("/api/admin/users/%s/ai-access", url.PathEscape(id))
	_, err := c.send(ctx, http.MethodPut, path, body, nil)
	return err
}

// SetAiLimit overrides a user's daily AI quota. A nil limit restores the
// global default; model.UnlimitedAiLimit (-1) removes the cap.
func (c *Client) SetAiLimit(ctx context.Context, id string, limit *int) error {
	body := struct {
		Limit *int `json:"limit"`
	}{Limit: limit}

	path := fmt.Sprintf("/api/admin/users/%s/ai-limit", url.PathEscape(id))
	_, err := c.send(ctx, http.MethodPut, path, body, nil)
	return err
}

// CreateCategory creates a category through the admin surface.
func (c *Client) CreateCategory(ctx context.Context, input model.CreateCategoryInput) (*model.Category, error) {
	var category model.Category
	if _, err := c.send(ctx, http.MethodPost, "/api/admin/categories", input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies a partial update to a category.
func (c *Client) UpdateCategory(ctx context.Context, id string, input model.UpdateCategoryInput) (*model.Category, error) {
	var category model.Category
	path := fmt.Sprintf("/api/admin/categories/%s", url.PathEscape(id))
	if _, err := c.send(ctx, http.MethodPut, path, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategoryResult reports how many transactions lost their category.
// Deletion detaches referencing transactions, it never cascades.
type DeleteCategoryResult struct {
	Message              string `json:"message"`
	OrphanedTransactions int    `json:"orphanedTransactions"`
}

// DeleteCategory removes a category and detaches its transactions.
func (c *Client) DeleteCategory(ctx context.Context, id string) (*DeleteCategoryResult, error) {
	var result DeleteCategoryResult
	path := fmt.Sprintf("/api/admin/categories/%s", url.PathEscape(id))
	if _, err := c.send(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminSettings fetches the global settings map. Values are strings;
// the AI daily limit default lives under "ai_daily_limit_default".
func (c *Client) AdminSettings(ctx context.Context) (map[string]string, error) {
	var settings map[string]string
	if _, err := c.get(ctx, "/api/admin/settings", nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateAdminSetting sets one global setting.
func (c *Client) UpdateAdminSetting(ctx context.Context, key, value string) error {
	body := struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{Key: key, Value: value}

	_, err := c.send(ctx, http.MethodPut, "/api/admin/settings", body, nil)
	return err
}
