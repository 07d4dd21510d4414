package grid

import (
	"errors"
	"testing"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
)

func TestLinesSpanCalibratedArea(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		w, h, unit float64
		wantV      int
		wantH      int
	}{
		{name: "integer extent", w: 500, h: 300, unit: 50, wantV: 51, wantH: 31},
		{name: "fractional extent", w: 450, h: 100, unit: 4.5, wantV: 6, wantH: 2},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cal, err := calibration.NewCalibration(tc.w, tc.h, tc.unit)
			if err != nil {
				t.Fatalf("NewCalibration: %v", err)
			}
			lines, err := Lines(cal)
			if err != nil {
				t.Fatalf("Lines: %v", err)
			}
			var vertical, horizontal int
			for _, l := range lines {
				if l.From.X == l.To.X {
					vertical++
				} else {
					horizontal++
				}
			}
			if vertical != tc.wantV || horizontal != tc.wantH {
				t.Fatalf("vertical=%d horizontal=%d want %d,%d", vertical, horizontal, tc.wantV, tc.wantH)
			}
		})
	}
}

func TestLinesUseDisplaySpace(t *testing.T) {
	t.Parallel()

	cal, _ := calibration.NewCalibration(500, 300, 50)
	lines, err := Lines(cal)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	// First horizontal line is physical y=0, the bottom edge of the plan.
	bottom := lines[51]
	if bottom.From.Y != 30 || bottom.To.Y != 30 {
		t.Fatalf("physical y=0 line at display y=%v,%v want 30", bottom.From.Y, bottom.To.Y)
	}
	first := lines[0]
	if first.From != (calibration.DisplayPoint{X: 0, Y: 30}) || first.To != (calibration.DisplayPoint{X: 0, Y: 0}) {
		t.Fatalf("x=0 line=%+v", first)
	}
}

func TestRenderKeepsSingleLayer(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	g := NewRenderer(canvas)
	cal, _ := calibration.NewCalibration(500, 300, 50)

	if err := g.Render(cal); err != nil {
		t.Fatalf("Render: %v", err)
	}
	finer, _ := cal.WithPhysicalWidth(100)
	if err := g.Render(finer); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := canvas.Count(render.KindLines); n != 1 {
		t.Fatalf("grid layers=%d want 1", n)
	}
	layers := canvas.Layers()
	if got := len(layers[0].Lines); got != 101+61 {
		t.Fatalf("lines=%d want %d", got, 101+61)
	}

	g.Clear()
	g.Clear()
	if n := canvas.Count(render.KindLines); n != 0 {
		t.Fatalf("grid layers after Clear=%d", n)
	}
}

func TestRenderInvalidCalibrationKeepsGrid(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	g := NewRenderer(canvas)
	cal, _ := calibration.NewCalibration(500, 300, 50)
	_ = g.Render(cal)

	if err := g.Render(calibration.Calibration{PixelWidth: 1}); !errors.Is(err, calibration.ErrInvalidCalibration) {
		t.Fatalf("err=%v want ErrInvalidCalibration", err)
	}
	if n := canvas.Count(render.KindLines); n != 1 {
		t.Fatalf("grid layers=%d want 1", n)
	}
}
