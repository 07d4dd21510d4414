package render

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
)

// WriteSVG draws the canvas at image pixel resolution. When imageHref is
// set the floor plan is embedded as the background.
func (c *Canvas) WriteSVG(w io.Writer, cal calibration.Calibration, imageHref string) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	s := cal.Scale()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%.0f" height="%.0f" viewBox="0 0 %.2f %.2f">`+"\n",
		cal.PixelWidth, cal.PixelHeight, cal.PixelWidth, cal.PixelHeight)
	if imageHref != "" {
		fmt.Fprintf(bw, `<image xlink:href="%s" x="0" y="0" width="%.0f" height="%.0f"/>`+"\n",
			html.EscapeString(imageHref), cal.PixelWidth, cal.PixelHeight)
	}

	// Lines first so markers stay on top.
	layers := c.Layers()
	for _, l := range layers {
		if l.Kind != KindLines {
			continue
		}
		fmt.Fprintf(bw, `<g stroke="%s" stroke-width="%.1f">`+"\n", html.EscapeString(l.Style.Color), l.Style.Weight)
		for _, ln := range l.Lines {
			fmt.Fprintf(bw, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
				ln.From.X*s, ln.From.Y*s, ln.To.X*s, ln.To.Y*s)
		}
		bw.WriteString("</g>\n")
	}
	for _, l := range layers {
		if l.Kind != KindMarker {
			continue
		}
		m := l.Marker
		x, y := m.Position.X*s, m.Position.Y*s
		color := html.EscapeString(m.Style.Color)
		fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%.1f" stroke="%s" fill="%s"/>`+"\n", x, y, m.Style.Radius, color, color)
		if m.Label != "" {
			fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" font-size="12" fill="%s">%s</text>`+"\n",
				x+m.Style.Radius+2, y+4, color, html.EscapeString(m.Label))
		}
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}
