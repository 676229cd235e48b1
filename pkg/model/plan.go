package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNonPositive    = errors.New("value must be positive")
	ErrPlanRequired   = errors.New("plan id is required")
	ErrInvalidDay     = errors.New("day must be between 1 and 7")
	ErrClientRequired = errors.New("client id is required")
)

// WorkoutPlan is a trainer-authored programme assigned to one client.
type WorkoutPlan struct {
	ID            string     `json:"id,omitempty"`
	TrainerID     string     `json:"trainerId,omitempty"`
	ClientID      string     `json:"clientId,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"` // beginner, intermediate, advanced
	DurationWeeks int        `json:"durationWeeks,omitempty"`
	Exercises     []Exercise `json:"exercises,omitempty"`
	CreatedAt     time.Time  `json:"createdAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt,omitempty"`
}

// Validate checks the fields required by the workout plan form.
func (p *WorkoutPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.DurationWeeks < 0 {
		return ErrNonPositive
	}
	for i := range p.Exercises {
		if err := p.Exercises[i].validateFields(); err != nil {
			return err
		}
	}
	return nil
}

// Exercise is one line of a workout plan.
type Exercise struct {
	ID          string  `json:"id,omitempty"`
	PlanID      string  `json:"planId,omitempty"`
	Name        string  `json:"name"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	WeightKg    float64 `json:"weightKg,omitempty"`
	RestSeconds int     `json:"restSeconds,omitempty"`
	Day         int     `json:"day,omitempty"` // 1 = Monday, 0 = unscheduled
	Notes       string  `json:"notes,omitempty"`
}

// Validate checks a standalone exercise, which must belong to a plan.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.PlanID) == "" {
		return ErrPlanRequired
	}
	return e.validateFields()
}

func (e *Exercise) validateFields() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrNameRequired
	}
	if e.Sets <= 0 || e.Reps <= 0 {
		return ErrNonPositive
	}
	if e.WeightKg < 0 || e.RestSeconds < 0 {
		return ErrNonPositive
	}
	if e.Day < 0 || e.Day > 7 {
		return ErrInvalidDay
	}
	return nil
}

// Volume is sets x reps x weight, the usual tonnage figure shown on plan cards.
func (e *Exercise) Volume() float64 {
	return float64(e.Sets*e.Reps) * e.WeightKg
}
