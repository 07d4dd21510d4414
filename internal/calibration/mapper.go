package calibration

// ToDisplay converts a physical point into display space. The y axis is
// flipped around the physical height of the floor plan.
func ToDisplay(p PhysicalPoint, c Calibration) (DisplayPoint, error) {
	if err := c.Validate(); err != nil {
		return DisplayPoint{}, err
	}
	return DisplayPoint{X: p.X, Y: c.PhysicalHeight() - p.Y}, nil
}

// ToPhysical is the inverse of ToDisplay for the same calibration.
func ToPhysical(d DisplayPoint, c Calibration) (PhysicalPoint, error) {
	if err := c.Validate(); err != nil {
		return PhysicalPoint{}, err
	}
	return PhysicalPoint{X: d.X, Y: c.PhysicalHeight() - d.Y}, nil
}

// PixelToPhysical converts an image pixel into physical space.
func PixelToPhysical(px PixelPoint, c Calibration) (PhysicalPoint, error) {
	if err := c.Validate(); err != nil {
		return PhysicalPoint{}, err
	}
	s := c.Scale()
	return PhysicalPoint{X: px.X / s, Y: (c.PixelHeight - px.Y) / s}, nil
}

// PhysicalToPixel converts a physical point into image pixel space.
func PhysicalToPixel(p PhysicalPoint, c Calibration) (PixelPoint, error) {
	if err := c.Validate(); err != nil {
		return PixelPoint{}, err
	}
	s := c.Scale()
	return PixelPoint{X: p.X * s, Y: c.PixelHeight - p.Y*s}, nil
}
