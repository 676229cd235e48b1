package api

import (
	"context"
	"net/url"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

// ListWeightLogs returns the caller's own weight series.
func (c *Client) ListWeightLogs(ctx context.Context) ([]model.WeightLog, error) {
	var out []model.WeightLog
	if err := c.get(ctx, "/weight-logs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateWeightLog(ctx context.Context, w *model.WeightLog) (*model.WeightLog, error) {
	var out model.WeightLog
	if err := c.post(ctx, "/weight-logs", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWeightLog(ctx context.Context, id string) error {
	return c.delete(ctx, "/weight-logs/"+url.PathEscape(id))
}

// GetWeeklyGoal returns the current week's goal of the caller.
func (c *Client) GetWeeklyGoal(ctx context.Context) (*model.WeeklyGoal, error) {
	var out model.WeeklyGoal
	if err := c.get(ctx, "/weekly-goals/current", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWeeklyGoal saves g, creating it when it has no ID yet.
func (c *Client) UpdateWeeklyGoal(ctx context.Context, g *model.WeeklyGoal) (*model.WeeklyGoal, error) {
	var out model.WeeklyGoal
	var err error
	if g.ID == "" {
		err = c.post(ctx, "/weekly-goals", g, &out)
	} else {
		err = c.put(ctx, "/weekly-goals/"+url.PathEscape(g.ID), g, &out)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
