package chart

import (
	"sort"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

const labelLayout = "Jan 2"

// WeightSeries orders logs by date and labels each point with its day.
// The input slice is not modified.
func WeightSeries(logs []model.WeightLog) []Point {
	sorted := make([]model.WeightLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoggedAt.Before(sorted[j].LoggedAt)
	})

	points := make([]Point, len(sorted))
	for i, l := range sorted {
		points[i] = Point{Label: l.LoggedAt.Format(labelLayout), Value: l.WeightKg}
	}
	return points
}

// Summary describes a series for the caption under a trend chart.
type Summary struct {
	First     float64
	Last      float64
	Min       float64
	Max       float64
	Change    float64 // Last - First
	ChangePct float64 // Change relative to First, 0 when First is 0
}

// Summarize returns false for an empty series.
func Summarize(series []Point) (Summary, bool) {
	if len(series) == 0 {
		return Summary{}, false
	}
	s := Summary{
		First: series[0].Value,
		Last:  series[len(series)-1].Value,
		Min:   series[0].Value,
		Max:   series[0].Value,
	}
	for _, p := range series[1:] {
		if p.Value < s.Min {
			s.Min = p.Value
		}
		if p.Value > s.Max {
			s.Max = p.Value
		}
	}
	s.Change = s.Last - s.First
	if s.First != 0 {
		s.ChangePct = s.Change * 100 / s.First
	}
	return s, true
}
