package chart

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

var testBox = Box{Width: 300, Height: 200, Padding: 20}

func TestLinePathEmpty(t *testing.T) {
	p := LinePath(nil, testBox)
	if len(p.Coords) != 0 || p.D != "" {
		t.Errorf("LinePath(nil) = %+v, want empty", p)
	}
}

func TestLinePathSinglePoint(t *testing.T) {
	p := LinePath([]Point{{Label: "Mon", Value: 80}}, testBox)

	if len(p.Coords) != 1 {
		t.Fatalf("coords = %d, want 1", len(p.Coords))
	}
	c := p.Coords[0]
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
		t.Fatalf("single point produced non-finite coordinate %+v", c)
	}
	if c.X != 150 || c.Y != 100 {
		t.Errorf("single point = (%v, %v), want centre (150, 100)", c.X, c.Y)
	}
	if p.D != "M150,100" {
		t.Errorf("D = %q, want M150,100", p.D)
	}
}

func TestLinePathCommands(t *testing.T) {
	series := []Point{{"a", 80}, {"b", 79}, {"c", 81}, {"d", 78.5}, {"e", 77}}
	p := LinePath(series, testBox)

	if len(p.Commands) != len(series) {
		t.Fatalf("commands = %d, want %d", len(p.Commands), len(series))
	}
	if !strings.HasPrefix(p.Commands[0], "M") {
		t.Errorf("first command %q is not a move", p.Commands[0])
	}
	for i, cmd := range p.Commands[1:] {
		if !strings.HasPrefix(cmd, "L") {
			t.Errorf("command %d = %q, want a line", i+1, cmd)
		}
	}
	if got := strings.Fields(p.D); len(got) != len(series) {
		t.Errorf("D has %d commands, want %d", len(got), len(series))
	}
}

func TestLinePathScaling(t *testing.T) {
	p := LinePath([]Point{{"a", 10}, {"b", 20}, {"c", 15}}, testBox)

	want := []Coord{
		{X: 20, Y: 180, Label: "a", Value: 10},  // min at the bottom
		{X: 150, Y: 20, Label: "b", Value: 20},  // max at the top
		{X: 280, Y: 100, Label: "c", Value: 15}, // midpoint
	}
	if diff := cmp.Diff(want, p.Coords); diff != "" {
		t.Errorf("coords mismatch (-want +got):\n%s", diff)
	}
	if p.D != "M20,180 L150,20 L280,100" {
		t.Errorf("D = %q", p.D)
	}
	if p.Min != 10 || p.Max != 20 {
		t.Errorf("min/max = %v/%v, want 10/20", p.Min, p.Max)
	}
}

func TestLinePathFlatSeries(t *testing.T) {
	p := LinePath([]Point{{"a", 70}, {"b", 70}}, testBox)
	for _, c := range p.Coords {
		if c.Y != 100 {
			t.Errorf("flat series y = %v, want 100", c.Y)
		}
	}
}

func TestLinePathDegenerateBox(t *testing.T) {
	p := LinePath([]Point{{"a", 1}, {"b", 2}}, Box{Width: 10, Height: 10, Padding: 20})
	for _, c := range p.Coords {
		if c.X != 20 || c.Y != 20 {
			t.Errorf("coord in collapsed box = %+v, want (20, 20)", c)
		}
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.001, "0"},
		{12.5, "12.5"},
		{33.333333, "33.33"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := formatNum(tt.in); got != tt.want {
			t.Errorf("formatNum(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWeightSeriesSortsByDate(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 8, 0, 0, 0, time.UTC) }
	logs := []model.WeightLog{
		{WeightKg: 79, LoggedAt: day(3)},
		{WeightKg: 81, LoggedAt: day(1)},
		{WeightKg: 80, LoggedAt: day(2)},
	}

	got := WeightSeries(logs)
	want := []Point{{"Mar 1", 81}, {"Mar 2", 80}, {"Mar 3", 79}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WeightSeries mismatch (-want +got):\n%s", diff)
	}
	if logs[0].WeightKg != 79 {
		t.Errorf("input slice was reordered")
	}
}

func TestSummarize(t *testing.T) {
	if _, ok := Summarize(nil); ok {
		t.Errorf("Summarize(nil) ok = true")
	}

	s, ok := Summarize([]Point{{"a", 80}, {"b", 82}, {"c", 76}})
	if !ok {
		t.Fatalf("Summarize ok = false")
	}
	want := Summary{First: 80, Last: 76, Min: 76, Max: 82, Change: -4, ChangePct: -5}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}
