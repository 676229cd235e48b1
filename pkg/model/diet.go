package model

import (
	"strings"
	"time"
)

// DietPlan groups the meals a trainer prescribes for a client.
type DietPlan struct {
	ID            string    `json:"id,omitempty"`
	TrainerID     string    `json:"trainerId,omitempty"`
	ClientID      string    `json:"clientId,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DailyCalories int       `json:"dailyCalories,omitempty"`
	Meals         []Meal    `json:"meals,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// Validate checks the fields required by the diet plan form.
func (d *DietPlan) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	if d.DailyCalories < 0 {
		return ErrNonPositive
	}
	for i := range d.Meals {
		if err := d.Meals[i].validateFields(); err != nil {
			return err
		}
	}
	return nil
}

// TotalCalories sums the calories of all meals in the plan.
func (d *DietPlan) TotalCalories() int {
	total := 0
	for _, m := range d.Meals {
		total += m.Calories
	}
	return total
}

// Meal is one entry of a diet plan.
type Meal struct {
	ID         string  `json:"id,omitempty"`
	DietPlanID string  `json:"dietPlanId,omitempty"`
	Name       string  `json:"name"`
	Time       string  `json:"time,omitempty"` // "08:00"
	Calories   int     `json:"calories"`
	ProteinG   float64 `json:"protein,omitempty"`
	CarbsG     float64 `json:"carbs,omitempty"`
	FatG       float64 `json:"fat,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// Validate checks a standalone meal, which must belong to a diet plan.
func (m *Meal) Validate() error {
	if strings.TrimSpace(m.DietPlanID) == "" {
		return ErrPlanRequired
	}
	return m.validateFields()
}

func (m *Meal) validateFields() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameRequired
	}
	if m.Calories < 0 || m.ProteinG < 0 || m.CarbsG < 0 || m.FatG < 0 {
		return ErrNonPositive
	}
	return nil
}
