package grid

import (
	"math"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
)

// SquareSize is the grid spacing in physical units.
const SquareSize = 1.0

// Renderer draws a unit grid over the calibrated floor plan. At most one
// grid layer is live at any time.
type Renderer struct {
	surface render.Surface
	layer   render.Handle
	drawn   bool
}

// NewRenderer creates a grid renderer for surface.
func NewRenderer(surface render.Surface) *Renderer {
	return &Renderer{surface: surface}
}

// Render replaces the current grid with one derived from cal.
func (g *Renderer) Render(cal calibration.Calibration) error {
	lines, err := Lines(cal)
	if err != nil {
		return err
	}
	g.Clear()
	g.layer = g.surface.AddLines(lines, render.GridStyle)
	g.drawn = true
	return nil
}

// Clear removes the grid if one is drawn.
func (g *Renderer) Clear() {
	if !g.drawn {
		return
	}
	g.surface.Remove(g.layer)
	g.drawn = false
}

// Lines returns the grid lines in display space: vertical lines at every
// physical x in 0..ceil(width), horizontal lines at every physical y in
// 0..ceil(height).
func Lines(cal calibration.Calibration) ([]render.Line, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	w, h := cal.PhysicalWidth, cal.PhysicalHeight()
	cols := int(math.Ceil(w / SquareSize))
	rows := int(math.Ceil(h / SquareSize))

	lines := make([]render.Line, 0, cols+rows+2)
	for i := 0; i <= cols; i++ {
		x := float64(i) * SquareSize
		l, err := segment(cal, calibration.PhysicalPoint{X: x, Y: 0}, calibration.PhysicalPoint{X: x, Y: h})
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	for j := 0; j <= rows; j++ {
		y := float64(j) * SquareSize
		l, err := segment(cal, calibration.PhysicalPoint{X: 0, Y: y}, calibration.PhysicalPoint{X: w, Y: y})
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func segment(cal calibration.Calibration, a, b calibration.PhysicalPoint) (render.Line, error) {
	from, err := calibration.ToDisplay(a, cal)
	if err != nil {
		return render.Line{}, err
	}
	to, err := calibration.ToDisplay(b, cal)
	if err != nil {
		return render.Line{}, err
	}
	return render.Line{From: from, To: to}, nil
}
