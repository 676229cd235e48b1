package api

import (
	"context"
	"net/url"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

// ListClients returns the trainer's clients.
func (c *Client) ListClients(ctx context.Context) ([]model.Client, error) {
	var out []model.Client
	if err := c.get(ctx, "/clients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetClient returns one client summary.
func (c *Client) GetClient(ctx context.Context, id string) (*model.Client, error) {
	var out model.Client
	if err := c.get(ctx, "/clients/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientWeightHistory returns the weight series of one client.
func (c *Client) ClientWeightHistory(ctx context.Context, id string) ([]model.WeightLog, error) {
	var out []model.WeightLog
	if err := c.get(ctx, "/clients/"+url.PathEscape(id)+"/weight-logs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignClient links an existing client account, by email, to the trainer.
func (c *Client) AssignClient(ctx context.Context, email string) (*model.Client, error) {
	var out model.Client
	body := map[string]string{"email": email}
	if err := c.post(ctx, "/clients", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTrainers returns the trainers a client can pick from.
func (c *Client) ListTrainers(ctx context.Context) ([]model.Trainer, error) {
	var out []model.Trainer
	if err := c.get(ctx, "/trainers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrainer returns one trainer card.
func (c *Client) GetTrainer(ctx context.Context, id string) (*model.Trainer, error) {
	var out model.Trainer
	if err := c.get(ctx, "/trainers/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
