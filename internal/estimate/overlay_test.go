package estimate

import (
	"testing"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
)

func TestAddAndClear(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	o := NewOverlay(canvas)
	cal, _ := calibration.NewCalibration(500, 300, 50)

	if err := o.Add(cal, calibration.PhysicalPoint{X: 10, Y: 5}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	markers := canvas.Markers(render.EstimateStyle.Color)
	if len(markers) != 1 {
		t.Fatalf("markers=%d want 1", len(markers))
	}
	if markers[0].Position != (calibration.DisplayPoint{X: 10, Y: 25}) {
		t.Fatalf("marker at %+v want {10 25}", markers[0].Position)
	}
	if markers[0].Label != "Est: 10.00, 5.00" {
		t.Fatalf("label=%q", markers[0].Label)
	}

	o.Clear()
	if o.Len() != 0 || canvas.Count(render.KindMarker) != 0 {
		t.Fatalf("after Clear len=%d markers=%d", o.Len(), canvas.Count(render.KindMarker))
	}
	o.Clear()
}

func TestRenderReprojects(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	o := NewOverlay(canvas)
	cal, _ := calibration.NewCalibration(500, 300, 50)
	_ = o.Add(cal, calibration.PhysicalPoint{X: 1, Y: 1})
	_ = o.Add(cal, calibration.PhysicalPoint{X: 2, Y: 2})

	wider, _ := cal.WithPhysicalWidth(100)
	if err := o.Render(wider); err != nil {
		t.Fatalf("Render: %v", err)
	}
	markers := canvas.Markers(render.EstimateStyle.Color)
	if len(markers) != 2 {
		t.Fatalf("markers=%d want 2", len(markers))
	}
	if markers[0].Position != (calibration.DisplayPoint{X: 1, Y: 59}) {
		t.Fatalf("reprojected marker at %+v want {1 59}", markers[0].Position)
	}
	if got := o.Positions(); len(got) != 2 || got[1] != (calibration.PhysicalPoint{X: 2, Y: 2}) {
		t.Fatalf("Positions()=%v", got)
	}
}

func TestAddInvalidCalibration(t *testing.T) {
	t.Parallel()

	o := NewOverlay(render.NewCanvas())
	if err := o.Add(calibration.Calibration{}, calibration.PhysicalPoint{}); err == nil {
		t.Fatal("Add with zero calibration should fail")
	}
	if o.Len() != 0 {
		t.Fatalf("Len()=%d want 0", o.Len())
	}
}
