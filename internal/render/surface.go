package render

import (
	"sort"
	"sync"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
)

// Handle identifies one rendered layer on a Surface.
type Handle uint64

// Kind classifies a layer.
type Kind int

const (
	KindMarker Kind = iota
	KindLines
)

// Style controls how a layer is drawn.
type Style struct {
	Color  string  `json:"color"`
	Radius float64 `json:"radius,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

var (
	RouterStyle   = Style{Color: "red", Radius: 6}
	EstimateStyle = Style{Color: "blue", Radius: 6}
	GridStyle     = Style{Color: "#888", Weight: 1}
)

// Marker is a labelled point in display space.
type Marker struct {
	Position calibration.DisplayPoint `json:"position"`
	Label    string                   `json:"label"`
	Style    Style                    `json:"style"`
}

// Line is a straight segment in display space.
type Line struct {
	From calibration.DisplayPoint `json:"from"`
	To   calibration.DisplayPoint `json:"to"`
}

// Layer is one entry of the handle table.
type Layer struct {
	Handle Handle  `json:"handle"`
	Kind   Kind    `json:"kind"`
	Marker *Marker `json:"marker,omitempty"`
	Lines  []Line  `json:"lines,omitempty"`
	Style  Style   `json:"style"`
}

// Surface is the rendering collaborator. Remove must be safe to call for
// handles that are unknown or already removed.
type Surface interface {
	AddMarker(m Marker) Handle
	AddLines(lines []Line, style Style) Handle
	Remove(h Handle) bool
}

// Canvas is an in-memory Surface that keeps every live layer in a handle
// table.
type Canvas struct {
	mu     sync.Mutex
	next   Handle
	layers map[Handle]Layer
}

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{layers: make(map[Handle]Layer)}
}

// AddMarker adds a marker layer.
func (c *Canvas) AddMarker(m Marker) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	c.layers[c.next] = Layer{Handle: c.next, Kind: KindMarker, Marker: &m, Style: m.Style}
	return c.next
}

// AddLines adds a group of lines as a single layer.
func (c *Canvas) AddLines(lines []Line, style Style) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	cp := make([]Line, len(lines))
	copy(cp, lines)
	c.layers[c.next] = Layer{Handle: c.next, Kind: KindLines, Lines: cp, Style: style}
	return c.next
}

// Remove deletes a layer and reports whether it existed.
func (c *Canvas) Remove(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.layers[h]; !ok {
		return false
	}
	delete(c.layers, h)
	return true
}

// Layer looks up a live layer.
func (c *Canvas) Layer(h Handle) (Layer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.layers[h]
	return l, ok
}

// Layers returns the live layers in creation order.
func (c *Canvas) Layers() []Layer {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Layer, 0, len(c.layers))
	for _, l := range c.layers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Count returns the number of live layers of the given kind.
func (c *Canvas) Count(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.layers {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

// Markers returns live markers with the given colour, in creation order.
func (c *Canvas) Markers(color string) []Marker {
	var out []Marker
	for _, l := range c.Layers() {
		if l.Kind == KindMarker && l.Style.Color == color {
			out = append(out, *l.Marker)
		}
	}
	return out
}
