package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
)

var (
	// ErrInvalidRouter is returned when a declaration contains an empty id.
	ErrInvalidRouter = errors.New("invalid router")
	// ErrPersistFailed is returned when the backend rejects a declaration.
	// The in-memory registry still holds the new routers.
	ErrPersistFailed = errors.New("router persistence failed")
)

// Router is a declared router identity at a physical position.
type Router struct {
	ID       string
	Position calibration.PhysicalPoint
}

// Store persists the full router list.
type Store interface {
	SetRouters(ctx context.Context, routers []models.RouterSpec) error
}

// Registry maps router ids to positions. Rendered markers live in a
// separate id -> handle table so domain data never carries render state.
type Registry struct {
	surface render.Surface
	store   Store

	order     []string
	positions map[string]calibration.PhysicalPoint
	markers   map[string]render.Handle
}

// New creates an empty registry rendering onto surface and persisting to
// store. store may be nil for an offline registry.
func New(surface render.Surface, store Store) *Registry {
	return &Registry{
		surface:   surface,
		store:     store,
		positions: make(map[string]calibration.PhysicalPoint),
		markers:   make(map[string]render.Handle),
	}
}

// Declare replaces the entire registry with routers. Duplicate ids keep the
// position of their last occurrence and the order of their first.
func (r *Registry) Declare(ctx context.Context, routers []Router) error {
	for i, rt := range routers {
		if rt.ID == "" {
			return fmt.Errorf("%w: entry %d has an empty id", ErrInvalidRouter, i)
		}
	}

	r.removeMarkers()
	r.order = r.order[:0]
	r.positions = make(map[string]calibration.PhysicalPoint, len(routers))
	for _, rt := range routers {
		if _, seen := r.positions[rt.ID]; !seen {
			r.order = append(r.order, rt.ID)
		}
		r.positions[rt.ID] = rt.Position
	}

	if r.store == nil {
		return nil
	}
	if err := r.store.SetRouters(ctx, r.Specs()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}

// Render draws one marker per router, replacing any marker it drew before.
func (r *Registry) Render(cal calibration.Calibration) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	for _, id := range r.order {
		if h, ok := r.markers[id]; ok {
			r.surface.Remove(h)
			delete(r.markers, id)
		}
		d, err := calibration.ToDisplay(r.positions[id], cal)
		if err != nil {
			return err
		}
		r.markers[id] = r.surface.AddMarker(render.Marker{
			Position: d,
			Label:    id,
			Style:    render.RouterStyle,
		})
	}
	return nil
}

// LoadFrom merges backend-reported positions into the registry. Positions
// from the backend win; markers are left for the next Render.
func (r *Registry) LoadFrom(state map[string]calibration.PhysicalPoint) {
	var added []string
	for id, p := range state {
		if id == "" {
			continue
		}
		if _, ok := r.positions[id]; !ok {
			added = append(added, id)
		}
		r.positions[id] = p
	}
	sort.Strings(added)
	r.order = append(r.order, added...)
}

// IDs returns the declared router ids in order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Routers returns the declared routers in order.
func (r *Registry) Routers() []Router {
	out := make([]Router, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Router{ID: id, Position: r.positions[id]})
	}
	return out
}

// Position looks up a router.
func (r *Registry) Position(id string) (calibration.PhysicalPoint, bool) {
	p, ok := r.positions[id]
	return p, ok
}

// Len returns the number of declared routers.
func (r *Registry) Len() int { return len(r.order) }

// Specs converts the registry into its wire form.
func (r *Registry) Specs() []models.RouterSpec {
	out := make([]models.RouterSpec, 0, len(r.order))
	for _, id := range r.order {
		p := r.positions[id]
		out = append(out, models.RouterSpec{SSID: id, X: p.X, Y: p.Y})
	}
	return out
}

func (r *Registry) removeMarkers() {
	for id, h := range r.markers {
		r.surface.Remove(h)
		delete(r.markers, id)
	}
}
