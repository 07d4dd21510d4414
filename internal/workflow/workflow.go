package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

var (
	// ErrNoRoutersConfigured is returned when a capture starts with no routers.
	ErrNoRoutersConfigured = errors.New("no routers configured")
	// ErrCaptureInProgress is returned when a capture starts while another
	// one has not returned to Idle.
	ErrCaptureInProgress = errors.New("capture already in progress")
	// ErrRequestFailed wraps scan and save failures.
	ErrRequestFailed = errors.New("request failed")
	// ErrOperatorAborted is returned when the operator could not answer the
	// confirmation. Nothing is saved.
	ErrOperatorAborted = errors.New("operator aborted capture")
	// ErrSaveRejected is returned when the backend answers ok=false.
	ErrSaveRejected = errors.New("backend rejected fingerprint")
)

// Backend issues scan and save requests.
type Backend interface {
	Scan(ctx context.Context, ssids []string) (models.Readings, error)
	Save(ctx context.Context, req models.SaveRequest) (models.SaveResponse, error)
}

// RouterSource lists the routers to scan.
type RouterSource interface {
	IDs() []string
}

// EstimateSink renders a backend position estimate.
type EstimateSink interface {
	AddEstimate(p calibration.PhysicalPoint) error
}

// Operator is the human in the loop.
type Operator interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
	Notify(n Notification)
}

// Prompt is what the operator approves before a fingerprint is saved.
type Prompt struct {
	Position calibration.PhysicalPoint
	SSIDs    []string
	Readings models.Readings
}

// Outcome is the terminal result of one capture.
type Outcome int

const (
	OutcomeSaved Outcome = iota
	OutcomeDeclined
	OutcomeNoRouters
	OutcomeRejected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeDeclined:
		return "declined"
	case OutcomeNoRouters:
		return "no routers"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result describes a finished capture.
type Result struct {
	Outcome  Outcome
	Position calibration.PhysicalPoint
	Readings models.Readings
	Estimate *calibration.PhysicalPoint
}

// Workflow runs the click -> scan -> confirm -> save -> estimate sequence.
// Only one capture runs at a time; a capture started while another is
// active is rejected.
type Workflow struct {
	backend   Backend
	routers   RouterSource
	estimates EstimateSink
	operator  Operator

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)

	mu    sync.Mutex
	state State
}

// New creates an idle workflow.
func New(backend Backend, routers RouterSource, estimates EstimateSink, operator Operator) *Workflow {
	return &Workflow{
		backend:   backend,
		routers:   routers,
		estimates: estimates,
		operator:  operator,
		state:     StateIdle,
	}
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Capture runs one capture at physical point p and always leaves the
// workflow Idle. Every failure is also reported to the operator.
func (w *Workflow) Capture(ctx context.Context, p calibration.PhysicalPoint) (Result, error) {
	res := Result{Position: p}

	ids, err := w.begin()
	if err != nil {
		if errors.Is(err, ErrNoRoutersConfigured) {
			res.Outcome = OutcomeNoRouters
			w.operator.Notify(Notification{Kind: NoticeNoRouters, Message: "No routers configured. Declare routers first."})
		} else {
			res.Outcome = OutcomeRejected
			w.operator.Notify(Notification{Kind: NoticeBusy, Message: "A capture is already in progress."})
		}
		return res, err
	}
	defer w.transition(StateIdle)

	readings, err := w.backend.Scan(ctx, ids)
	if err != nil {
		return w.fail(res, "Scan failed", err)
	}
	res.Readings = readings

	w.transition(StateAwaitingConfirmation)
	ok, err := w.operator.Confirm(ctx, Prompt{Position: p, SSIDs: ids, Readings: readings})
	if err != nil {
		res.Outcome = OutcomeDeclined
		w.operator.Notify(Notification{Kind: NoticeDeclined, Message: "Capture cancelled."})
		return res, fmt.Errorf("%w: %w", ErrOperatorAborted, err)
	}
	if !ok {
		res.Outcome = OutcomeDeclined
		w.operator.Notify(Notification{Kind: NoticeDeclined, Message: "Fingerprint discarded."})
		return res, nil
	}

	w.transition(StateSaving)
	saved, err := w.backend.Save(ctx, models.SaveRequest{X: p.X, Y: p.Y, RSSI: readings})
	if err != nil {
		return w.fail(res, "Save failed", err)
	}
	if !saved.OK {
		return w.fail(res, "Save failed", ErrSaveRejected)
	}

	res.Outcome = OutcomeSaved
	if saved.Est != nil {
		est := calibration.PhysicalPoint{X: saved.Est[0], Y: saved.Est[1]}
		res.Estimate = &est
		if err := w.estimates.AddEstimate(est); err != nil {
			log.Printf("Failed to render estimate %+v: %v", est, err)
		}
	}
	w.operator.Notify(Notification{Kind: NoticeSaved, Message: "Saved!", Estimate: res.Estimate})
	return res, nil
}

func (w *Workflow) begin() ([]string, error) {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return nil, ErrCaptureInProgress
	}
	ids := w.routers.IDs()
	if len(ids) == 0 {
		w.mu.Unlock()
		return nil, ErrNoRoutersConfigured
	}
	w.state = StateAwaitingScan
	w.mu.Unlock()

	if w.OnTransition != nil {
		w.OnTransition(StateIdle, StateAwaitingScan)
	}
	return ids, nil
}

func (w *Workflow) fail(res Result, msg string, cause error) (Result, error) {
	w.transition(StateFailed)
	res.Outcome = OutcomeFailed
	err := fmt.Errorf("%w: %s: %w", ErrRequestFailed, msg, cause)
	w.operator.Notify(Notification{Kind: NoticeFailed, Message: fmt.Sprintf("%s: %v", msg, cause)})
	return res, err
}

func (w *Workflow) transition(to State) {
	w.mu.Lock()
	from := w.state
	w.state = to
	w.mu.Unlock()

	if from != to && w.OnTransition != nil {
		w.OnTransition(from, to)
	}
}
