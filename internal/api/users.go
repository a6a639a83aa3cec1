package api

import (
	"context"
	"net/http"

	"github.com/cape-app/cape/internal/model"
)

// Profile fetches the caller's own profile.
func (c *Client) Profile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if _, err := c.get(ctx, "/api/users/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile changes the caller's display name. Email is immutable.
func (c *Client) UpdateProfile(ctx context.Context, fullName string) (*model.UserProfile, error) {
	body := struct {
		FullName string `json:"fullName,omitempty"`
	}{FullName: fullName}

	var profile model.UserProfile
	if _, err := c.send(ctx, http.MethodPut, "/api/users/profile", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
