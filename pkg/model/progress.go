package model

import (
	"strings"
	"time"
)

// Client is the trainer-side summary of one client. History is only
// populated by endpoints that embed the weight series.
type Client struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email,omitempty"`
	Weight     float64     `json:"weight"`
	Progress   float64     `json:"progress"` // percent of current goal
	LastActive time.Time   `json:"lastActive,omitempty"`
	History    []WeightLog `json:"history,omitempty"`
}

// Trainer is the public trainer card shown to clients.
type Trainer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	Specialty   string  `json:"specialty,omitempty"`
	Bio         string  `json:"bio,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ClientCount int     `json:"clientCount,omitempty"`
}

// WeightLog is a single body-weight measurement.
type WeightLog struct {
	ID       string    `json:"id,omitempty"`
	ClientID string    `json:"clientId,omitempty"`
	WeightKg float64   `json:"weight"`
	LoggedAt time.Time `json:"date"`
	Note     string    `json:"note,omitempty"`
}

// Validate checks the weight entry form.
func (w *WeightLog) Validate() error {
	if w.WeightKg <= 0 {
		return ErrNonPositive
	}
	return nil
}

// WeeklyGoal tracks the targets for one week starting at WeekStart.
type WeeklyGoal struct {
	ID             string    `json:"id,omitempty"`
	ClientID       string    `json:"clientId,omitempty"`
	WeekStart      time.Time `json:"weekStart"`
	WorkoutsTarget int       `json:"workoutsTarget"`
	WorkoutsDone   int       `json:"workoutsDone"`
	CaloriesTarget int       `json:"caloriesTarget,omitempty"`
	WeightTargetKg float64   `json:"weightTarget,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

// Validate checks the weekly goal form.
func (g *WeeklyGoal) Validate() error {
	if strings.TrimSpace(g.ClientID) == "" {
		return ErrClientRequired
	}
	if g.WorkoutsTarget < 0 || g.WorkoutsDone < 0 || g.CaloriesTarget < 0 || g.WeightTargetKg < 0 {
		return ErrNonPositive
	}
	return nil
}

// Completion returns the share of target workouts done, clamped to [0, 100].
// A goal with no target counts as not started.
func (g *WeeklyGoal) Completion() float64 {
	if g.WorkoutsTarget <= 0 {
		return 0
	}
	pct := float64(g.WorkoutsDone) / float64(g.WorkoutsTarget) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
