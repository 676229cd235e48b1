package api

import (
	"context"
	"fmt"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("api: login: response has no token")
	}
	return &resp, nil
}

// Signup registers a new account and returns its token.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.post(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("api: signup: response has no token")
	}
	return &resp, nil
}
