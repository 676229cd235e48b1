// Package dashboard assembles the home screens. Each load fetches its
// independent resources concurrently and fails as a whole if any fetch fails.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NicolasHaas/fitcoach/pkg/api"
	"github.com/NicolasHaas/fitcoach/pkg/chart"
	"github.com/NicolasHaas/fitcoach/pkg/model"
)

// ActiveWindow is how recently a client must have been active to count as active.
const ActiveWindow = 7 * 24 * time.Hour

// DefaultBox is the trend chart area used when the caller has no layout of its own.
var DefaultBox = chart.Box{Width: 320, Height: 180, Padding: 16}

// Source is the subset of the API client the dashboards read from.
type Source interface {
	GetProfile(ctx context.Context) (*model.User, error)
	ListClients(ctx context.Context) ([]model.Client, error)
	ClientWeightHistory(ctx context.Context, clientID string) ([]model.WeightLog, error)
	ListWeightLogs(ctx context.Context) ([]model.WeightLog, error)
	GetWeeklyGoal(ctx context.Context) (*model.WeeklyGoal, error)
}

// Trainer is the trainer home screen.
type Trainer struct {
	Profile         *model.User
	Clients         []model.Client
	ActiveClients   int
	AverageProgress float64
}

// Client is the client home screen. Goal is nil when no goal is set for the
// current week.
type Client struct {
	Logs   []model.WeightLog
	Goal   *model.WeeklyGoal
	Trend  Trend
	Loaded time.Time
}

// Trend is a weight chart with its caption.
type Trend struct {
	Series  []chart.Point
	Path    chart.Path
	Summary chart.Summary
	Empty   bool
}

// Loader builds dashboards from a Source.
type Loader struct {
	src Source
	box chart.Box
	now func() time.Time
}

// NewLoader creates a loader drawing trends into box. A zero box uses DefaultBox.
func NewLoader(src Source, box chart.Box) *Loader {
	if box == (chart.Box{}) {
		box = DefaultBox
	}
	return &Loader{src: src, box: box, now: time.Now}
}

// LoadTrainer fetches the profile and the client list together.
func (l *Loader) LoadTrainer(ctx context.Context) (*Trainer, error) {
	var (
		profile *model.User
		clients []model.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = l.src.GetProfile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = l.src.ListClients(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: trainer: %w", err)
	}

	d := &Trainer{Profile: profile, Clients: clients}
	cutoff := l.now().Add(-ActiveWindow)
	var total float64
	for _, c := range clients {
		if c.LastActive.After(cutoff) {
			d.ActiveClients++
		}
		total += c.Progress
	}
	if len(clients) > 0 {
		d.AverageProgress = total / float64(len(clients))
	}
	return d, nil
}

// LoadClient fetches the caller's weight logs and weekly goal together and
// computes the weight trend.
func (l *Loader) LoadClient(ctx context.Context) (*Client, error) {
	var (
		logs []model.WeightLog
		goal *model.WeeklyGoal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = l.src.ListWeightLogs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		goal, err = l.src.GetWeeklyGoal(gctx)
		if errors.Is(err, api.ErrNotFound) {
			goal, err = nil, nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: client: %w", err)
	}

	return &Client{
		Logs:   logs,
		Goal:   goal,
		Trend:  l.trend(logs),
		Loaded: l.now(),
	}, nil
}

// ClientTrend is the trainer's view of one client's weight history.
func (l *Loader) ClientTrend(ctx context.Context, clientID string) (Trend, error) {
	logs, err := l.src.ClientWeightHistory(ctx, clientID)
	if err != nil {
		return Trend{}, fmt.Errorf("dashboard: client %s trend: %w", clientID, err)
	}
	return l.trend(logs), nil
}

// Trend computes the chart for logs already in hand.
func (l *Loader) Trend(logs []model.WeightLog) Trend {
	return l.trend(logs)
}

func (l *Loader) trend(logs []model.WeightLog) Trend {
	series := chart.WeightSeries(logs)
	summary, ok := chart.Summarize(series)
	return Trend{
		Series:  series,
		Path:    chart.LinePath(series, l.box),
		Summary: summary,
		Empty:   !ok,
	}
}
