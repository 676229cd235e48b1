package api

import (
	"context"
	"net/url"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

// ListWorkoutPlans returns the plans visible to the caller: authored plans
// for a trainer, assigned plans for a client.
func (c *Client) ListWorkoutPlans(ctx context.Context) ([]model.WorkoutPlan, error) {
	var out []model.WorkoutPlan
	if err := c.get(ctx, "/workout-plans", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetWorkoutPlan(ctx context.Context, id string) (*model.WorkoutPlan, error) {
	var out model.WorkoutPlan
	if err := c.get(ctx, "/workout-plans/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWorkoutPlan(ctx context.Context, p *model.WorkoutPlan) (*model.WorkoutPlan, error) {
	var out model.WorkoutPlan
	if err := c.post(ctx, "/workout-plans", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorkoutPlan(ctx context.Context, p *model.WorkoutPlan) (*model.WorkoutPlan, error) {
	var out model.WorkoutPlan
	if err := c.put(ctx, "/workout-plans/"+url.PathEscape(p.ID), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWorkoutPlan(ctx context.Context, id string) error {
	return c.delete(ctx, "/workout-plans/"+url.PathEscape(id))
}

// ListExercises returns the exercises of one plan.
func (c *Client) ListExercises(ctx context.Context, planID string) ([]model.Exercise, error) {
	var out []model.Exercise
	if err := c.get(ctx, "/workout-plans/"+url.PathEscape(planID)+"/exercises", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateExercise adds an exercise to e.PlanID.
func (c *Client) CreateExercise(ctx context.Context, e *model.Exercise) (*model.Exercise, error) {
	var out model.Exercise
	if err := c.post(ctx, "/workout-plans/"+url.PathEscape(e.PlanID)+"/exercises", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExercise(ctx context.Context, e *model.Exercise) (*model.Exercise, error) {
	var out model.Exercise
	if err := c.put(ctx, "/exercises/"+url.PathEscape(e.ID), e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExercise(ctx context.Context, id string) error {
	return c.delete(ctx, "/exercises/"+url.PathEscape(id))
}
