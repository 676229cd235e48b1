package api

import (
	"context"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

// GetProfile returns the profile of the authenticated user.
func (c *Client) GetProfile(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.get(ctx, "/profile", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile replaces the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, u *model.User) (*model.User, error) {
	var out model.User
	if err := c.put(ctx, "/profile", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
