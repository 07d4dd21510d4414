package estimate

import (
	"fmt"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
)

type entry struct {
	position calibration.PhysicalPoint
	handle   render.Handle
}

// Overlay keeps the rendered position estimates so they can be cleared
// together. It is view state only.
type Overlay struct {
	surface render.Surface
	entries []entry
}

// NewOverlay creates an empty overlay on surface.
func NewOverlay(surface render.Surface) *Overlay {
	return &Overlay{surface: surface}
}

// Add renders an estimate marker at p.
func (o *Overlay) Add(cal calibration.Calibration, p calibration.PhysicalPoint) error {
	d, err := calibration.ToDisplay(p, cal)
	if err != nil {
		return err
	}
	h := o.surface.AddMarker(marker(p, d))
	o.entries = append(o.entries, entry{position: p, handle: h})
	return nil
}

// Render re-projects every estimate with cal, e.g. after recalibration.
func (o *Overlay) Render(cal calibration.Calibration) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	for i, e := range o.entries {
		d, err := calibration.ToDisplay(e.position, cal)
		if err != nil {
			return err
		}
		o.surface.Remove(e.handle)
		o.entries[i].handle = o.surface.AddMarker(marker(e.position, d))
	}
	return nil
}

// Clear removes every estimate marker.
func (o *Overlay) Clear() {
	for _, e := range o.entries {
		o.surface.Remove(e.handle)
	}
	o.entries = nil
}

// Len returns the number of estimates shown.
func (o *Overlay) Len() int { return len(o.entries) }

// Positions returns the estimates in the order they were added.
func (o *Overlay) Positions() []calibration.PhysicalPoint {
	out := make([]calibration.PhysicalPoint, len(o.entries))
	for i, e := range o.entries {
		out[i] = e.position
	}
	return out
}

func marker(p calibration.PhysicalPoint, d calibration.DisplayPoint) render.Marker {
	return render.Marker{
		Position: d,
		Label:    fmt.Sprintf("Est: %.2f, %.2f", p.X, p.Y),
		Style:    render.EstimateStyle,
	}
}
