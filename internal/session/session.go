package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/estimate"
	"github.com/jengzang/fingerprint-calibrator/internal/grid"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/registry"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
	"github.com/jengzang/fingerprint-calibrator/internal/workflow"
)

// ErrNotCalibrated is returned when an operation needs a calibration that
// has not been set yet.
var ErrNotCalibrated = errors.New("map not calibrated")

// Backend is everything the session needs from the fingerprint backend.
type Backend interface {
	registry.Store
	workflow.Backend
	ImageMetadata(ctx context.Context) (models.ImageMetadata, error)
	State(ctx context.Context) (models.StateResponse, error)
}

// Session owns the active calibration and every view component built on it.
type Session struct {
	backend Backend
	surface render.Surface

	meta       models.ImageMetadata
	cal        calibration.Calibration
	calibrated bool

	routers   *registry.Registry
	estimates *estimate.Overlay
	grid      *grid.Renderer
	capture   *workflow.Workflow
}

// New wires a session. Nothing is fetched until Open or Setup.
func New(backend Backend, surface render.Surface, operator workflow.Operator) *Session {
	s := &Session{
		backend:   backend,
		surface:   surface,
		routers:   registry.New(surface, backend),
		estimates: estimate.NewOverlay(surface),
		grid:      grid.NewRenderer(surface),
	}
	s.capture = workflow.New(backend, s.routers, s, operator)
	return s
}

// Setup opens the image, calibrates it to physicalWidth and restores the
// backend state.
func (s *Session) Setup(ctx context.Context, physicalWidth float64) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	if err := s.Calibrate(physicalWidth); err != nil {
		return err
	}
	return s.Restore(ctx)
}

// Open fetches the image metadata used to seed the calibration.
func (s *Session) Open(ctx context.Context) error {
	meta, err := s.backend.ImageMetadata(ctx)
	if err != nil {
		return fmt.Errorf("failed to load image metadata: %w", err)
	}
	if meta.WidthPx <= 0 || meta.HeightPx <= 0 {
		return fmt.Errorf("%w: image %q is %dx%d", calibration.ErrInvalidCalibration, meta.Path, meta.WidthPx, meta.HeightPx)
	}
	s.meta = meta
	log.Printf("Loaded floor plan %s (%dx%d px)", meta.Path, meta.WidthPx, meta.HeightPx)
	return nil
}

// Calibrate sets the physical width of the image and redraws the grid,
// routers and estimates with the new scale. An invalid width leaves the
// previous calibration in place.
func (s *Session) Calibrate(physicalWidth float64) error {
	cal, err := calibration.NewCalibration(float64(s.meta.WidthPx), float64(s.meta.HeightPx), physicalWidth)
	if err != nil {
		return err
	}
	s.cal = cal
	s.calibrated = true

	if err := s.grid.Render(cal); err != nil {
		return err
	}
	if err := s.routers.Render(cal); err != nil {
		return err
	}
	if err := s.estimates.Render(cal); err != nil {
		return err
	}
	log.Printf("Calibrated: %.2f x %.2f m, %.3f px/m", cal.PhysicalWidth, cal.PhysicalHeight(), cal.Scale())
	return nil
}

// Restore merges the routers reported by the backend.
func (s *Session) Restore(ctx context.Context) error {
	st, err := s.backend.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	positions := make(map[string]calibration.PhysicalPoint, len(st.Routers))
	for id, xy := range st.Routers {
		positions[id] = calibration.PhysicalPoint{X: xy[0], Y: xy[1]}
	}
	s.routers.LoadFrom(positions)
	if s.calibrated {
		return s.routers.Render(s.cal)
	}
	return nil
}

// DeclareRouters replaces the router set and redraws it. The routers are
// drawn even when persisting them failed.
func (s *Session) DeclareRouters(ctx context.Context, routers []registry.Router) error {
	err := s.routers.Declare(ctx, routers)
	if errors.Is(err, registry.ErrInvalidRouter) {
		return err
	}
	if s.calibrated {
		if rerr := s.routers.Render(s.cal); rerr != nil {
			return rerr
		}
	}
	return err
}

// Click runs a capture at a display point using the active calibration.
func (s *Session) Click(ctx context.Context, d calibration.DisplayPoint) (workflow.Result, error) {
	if !s.calibrated {
		return workflow.Result{}, ErrNotCalibrated
	}
	p, err := calibration.ToPhysical(d, s.cal)
	if err != nil {
		return workflow.Result{}, err
	}
	if !s.cal.Contains(p) {
		log.Printf("Capture at (%.2f, %.2f) lies outside the floor plan", p.X, p.Y)
	}
	return s.capture.Capture(ctx, p)
}

// AddEstimate renders a backend estimate with the active calibration.
func (s *Session) AddEstimate(p calibration.PhysicalPoint) error {
	if !s.calibrated {
		return ErrNotCalibrated
	}
	return s.estimates.Add(s.cal, p)
}

// ClearEstimates removes every estimate marker.
func (s *Session) ClearEstimates() {
	s.estimates.Clear()
}

// Calibration returns the active calibration.
func (s *Session) Calibration() (calibration.Calibration, bool) {
	return s.cal, s.calibrated
}

// Metadata returns the loaded image metadata.
func (s *Session) Metadata() models.ImageMetadata { return s.meta }

// Routers returns the declared routers.
func (s *Session) Routers() []registry.Router { return s.routers.Routers() }

// Estimates returns the estimates currently shown.
func (s *Session) Estimates() []calibration.PhysicalPoint { return s.estimates.Positions() }

// State returns the capture workflow state.
func (s *Session) State() workflow.State { return s.capture.State() }

// OnTransition installs an observer for capture state changes.
func (s *Session) OnTransition(fn func(from, to workflow.State)) {
	s.capture.OnTransition = fn
}
