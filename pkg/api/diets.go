package api

import (
	"context"
	"net/url"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

func (c *Client) ListDietPlans(ctx context.Context) ([]model.DietPlan, error) {
	var out []model.DietPlan
	if err := c.get(ctx, "/diet-plans", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDietPlan(ctx context.Context, id string) (*model.DietPlan, error) {
	var out model.DietPlan
	if err := c.get(ctx, "/diet-plans/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDietPlan(ctx context.Context, d *model.DietPlan) (*model.DietPlan, error) {
	var out model.DietPlan
	if err := c.post(ctx, "/diet-plans", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDietPlan(ctx context.Context, d *model.DietPlan) (*model.DietPlan, error) {
	var out model.DietPlan
	if err := c.put(ctx, "/diet-plans/"+url.PathEscape(d.ID), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDietPlan(ctx context.Context, id string) error {
	return c.delete(ctx, "/diet-plans/"+url.PathEscape(id))
}

// ListMeals returns the meals of one diet plan.
func (c *Client) ListMeals(ctx context.Context, dietPlanID string) ([]model.Meal, error) {
	var out []model.Meal
	if err := c.get(ctx, "/diet-plans/"+url.PathEscape(dietPlanID)+"/meals", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMeal adds a meal to m.DietPlanID.
func (c *Client) CreateMeal(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	var out model.Meal
	if err := c.post(ctx, "/diet-plans/"+url.PathEscape(m.DietPlanID)+"/meals", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMeal(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	var out model.Meal
	if err := c.put(ctx, "/meals/"+url.PathEscape(m.ID), m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.delete(ctx, "/meals/"+url.PathEscape(id))
}
