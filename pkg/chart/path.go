// Package chart turns numeric series into polyline coordinates for the
// progress charts. It does no drawing: callers render the path string.
package chart

import (
	"math"
	"strconv"
	"strings"
)

// Point is one labelled sample of a series.
type Point struct {
	Label string
	Value float64
}

// Box is the drawing area. Padding is applied on all four sides.
type Box struct {
	Width   float64
	Height  float64
	Padding float64
}

// Coord is a Point mapped into the Box. Y grows downwards, so larger values
// get smaller Y.
type Coord struct {
	X     float64
	Y     float64
	Label string
	Value float64
}

// Path is the result of LinePath.
type Path struct {
	Coords   []Coord
	Commands []string // "M x,y" then "L x,y" per remaining point
	D        string   // Commands joined with spaces, usable as an SVG path
	Min      float64
	Max      float64
}

// LinePath spaces the points evenly across the box width and scales values
// between the series min and max onto the box height. A single point is
// centred; a flat series sits on the vertical middle.
func LinePath(series []Point, box Box) Path {
	if len(series) == 0 {
		return Path{}
	}

	innerW := math.Max(box.Width-2*box.Padding, 0)
	innerH := math.Max(box.Height-2*box.Padding, 0)

	lo, hi := series[0].Value, series[0].Value
	for _, p := range series[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	span := hi - lo

	coords := make([]Coord, len(series))
	for i, p := range series {
		x := box.Padding + innerW/2
		if len(series) > 1 {
			x = box.Padding + float64(i)*innerW/float64(len(series)-1)
		}
		y := box.Padding + innerH/2
		if span > 0 {
			y = box.Padding + (1-(p.Value-lo)/span)*innerH
		}
		coords[i] = Coord{X: x, Y: y, Label: p.Label, Value: p.Value}
	}

	cmds := make([]string, len(coords))
	for i, c := range coords {
		op := "L"
		if i == 0 {
			op = "M"
		}
		cmds[i] = op + formatNum(c.X) + "," + formatNum(c.Y)
	}

	return Path{
		Coords:   coords,
		Commands: cmds,
		D:        strings.Join(cmds, " "),
		Min:      lo,
		Max:      hi,
	}
}

// formatNum rounds to two decimals and drops trailing zeros.
func formatNum(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
