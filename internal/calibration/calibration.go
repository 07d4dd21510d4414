package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// DefaultPhysicalWidth is the physical width (in meters) assumed when the
// operator does not supply one.
const DefaultPhysicalWidth = 50.0

// ErrInvalidCalibration is returned for non-positive image dimensions or
// physical width.
var ErrInvalidCalibration = errors.New("invalid calibration")

// PhysicalPoint is a location on the floor plan in physical units.
// Origin is the bottom-left corner, y grows upward.
type PhysicalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DisplayPoint is a location on the rendering surface in physical units.
// Origin is the top-left corner, y grows downward.
type DisplayPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PixelPoint is a location in image pixel space (top-left origin).
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Calibration anchors physical units to the pixels of one floor-plan image.
type Calibration struct {
	PixelWidth    float64 `json:"pixel_width"`
	PixelHeight   float64 `json:"pixel_height"`
	PhysicalWidth float64 `json:"physical_width"`
}

// NewCalibration validates and builds a calibration.
func NewCalibration(pixelWidth, pixelHeight, physicalWidth float64) (Calibration, error) {
	c := Calibration{
		PixelWidth:    pixelWidth,
		PixelHeight:   pixelHeight,
		PhysicalWidth: physicalWidth,
	}
	if err := c.Validate(); err != nil {
		return Calibration{}, err
	}
	return c, nil
}

// Validate reports ErrInvalidCalibration when any dimension is not a
// positive finite number.
func (c Calibration) Validate() error {
	if !positive(c.PixelWidth) {
		return fmt.Errorf("%w: pixel width %v", ErrInvalidCalibration, c.PixelWidth)
	}
	if !positive(c.PixelHeight) {
		return fmt.Errorf("%w: pixel height %v", ErrInvalidCalibration, c.PixelHeight)
	}
	if !positive(c.PhysicalWidth) {
		return fmt.Errorf("%w: physical width %v", ErrInvalidCalibration, c.PhysicalWidth)
	}
	return nil
}

// WithPhysicalWidth returns a copy of c calibrated to a new physical width.
func (c Calibration) WithPhysicalWidth(physicalWidth float64) (Calibration, error) {
	return NewCalibration(c.PixelWidth, c.PixelHeight, physicalWidth)
}

// Scale returns pixels per physical unit.
func (c Calibration) Scale() float64 {
	return c.PixelWidth / c.PhysicalWidth
}

// PhysicalHeight returns the floor-plan height in physical units.
func (c Calibration) PhysicalHeight() float64 {
	return c.PixelHeight / c.Scale()
}

// Bounds returns the physical extent of the floor plan.
func (c Calibration) Bounds() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: 0, Hi: c.PhysicalWidth},
		Y: r1.Interval{Lo: 0, Hi: c.PhysicalHeight()},
	}
}

// Contains reports whether p lies on the floor plan (edges included).
func (c Calibration) Contains(p PhysicalPoint) bool {
	return c.Bounds().ContainsPoint(r2.Point{X: p.X, Y: p.Y})
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
