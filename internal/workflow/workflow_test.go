package workflow

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

type fakeBackend struct {
	mu       sync.Mutex
	scans    [][]string
	saves    []models.SaveRequest
	readings models.Readings
	scanErr  error
	saveResp models.SaveResponse
	saveErr  error
	scanGate chan struct{}
}

func (f *fakeBackend) Scan(ctx context.Context, ssids []string) (models.Readings, error) {
	f.mu.Lock()
	f.scans = append(f.scans, ssids)
	gate := f.scanGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.readings, f.scanErr
}

func (f *fakeBackend) Save(ctx context.Context, req models.SaveRequest) (models.SaveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, req)
	return f.saveResp, f.saveErr
}

func (f *fakeBackend) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scans), len(f.saves)
}

type staticRouters []string

func (s staticRouters) IDs() []string { return s }

type fakeSink struct {
	added []calibration.PhysicalPoint
}

func (f *fakeSink) AddEstimate(p calibration.PhysicalPoint) error {
	f.added = append(f.added, p)
	return nil
}

type fakeOperator struct {
	mu         sync.Mutex
	approve    bool
	confirmErr error
	prompts    []Prompt
	notes      []Notification
}

func (f *fakeOperator) Confirm(_ context.Context, p Prompt) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	return f.approve, f.confirmErr
}

func (f *fakeOperator) Notify(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, n)
}

func (f *fakeOperator) last() Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notes[len(f.notes)-1]
}

func TestCaptureNoRouters(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	op := &fakeOperator{approve: true}
	w := New(backend, staticRouters(nil), &fakeSink{}, op)

	res, err := w.Capture(context.Background(), calibration.PhysicalPoint{X: 1, Y: 1})
	if !errors.Is(err, ErrNoRoutersConfigured) {
		t.Fatalf("err=%v want ErrNoRoutersConfigured", err)
	}
	if res.Outcome != OutcomeNoRouters {
		t.Fatalf("outcome=%v", res.Outcome)
	}
	if scans, _ := backend.counts(); scans != 0 {
		t.Fatalf("scan issued with zero routers: %d", scans)
	}
	if op.last().Kind != NoticeNoRouters {
		t.Fatalf("notification=%+v", op.last())
	}
	if w.State() != StateIdle {
		t.Fatalf("state=%v want Idle", w.State())
	}
}

func TestCaptureSavedWithEstimate(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		readings: models.Readings{"A": -40, "B": -61},
		saveResp: models.SaveResponse{OK: true, Est: &[2]float64{10, 5}},
	}
	op := &fakeOperator{approve: true}
	sink := &fakeSink{}
	w := New(backend, staticRouters{"A", "B", "C"}, sink, op)

	var transitions []State
	w.OnTransition = func(_, to State) { transitions = append(transitions, to) }

	res, err := w.Capture(context.Background(), calibration.PhysicalPoint{X: 3, Y: 4})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if res.Outcome != OutcomeSaved || res.Estimate == nil || *res.Estimate != (calibration.PhysicalPoint{X: 10, Y: 5}) {
		t.Fatalf("result=%+v", res)
	}
	if !reflect.DeepEqual(sink.added, []calibration.PhysicalPoint{{X: 10, Y: 5}}) {
		t.Fatalf("estimates=%v", sink.added)
	}
	want := []State{StateAwaitingScan, StateAwaitingConfirmation, StateSaving, StateIdle}
	if !reflect.DeepEqual(transitions, want) {
		t.Fatalf("transitions=%v want %v", transitions, want)
	}
	if !reflect.DeepEqual(backend.scans[0], []string{"A", "B", "C"}) {
		t.Fatalf("scanned %v", backend.scans[0])
	}
	if got := backend.saves[0]; got.X != 3 || got.Y != 4 || got.RSSI["B"] != -61 {
		t.Fatalf("save request=%+v", got)
	}
	if op.last().Kind != NoticeSaved {
		t.Fatalf("notification=%+v", op.last())
	}
	// Partial result: C was requested but not returned.
	if lines := op.prompts[0].Lines(); lines[2] != "C: unknown" || lines[0] != "A: -40 dBm" {
		t.Fatalf("prompt lines=%v", lines)
	}
}

func TestCaptureSavedWithoutEstimate(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{readings: models.Readings{}, saveResp: models.SaveResponse{OK: true}}
	sink := &fakeSink{}
	w := New(backend, staticRouters{"A"}, sink, &fakeOperator{approve: true})

	res, err := w.Capture(context.Background(), calibration.PhysicalPoint{})
	if err != nil || res.Outcome != OutcomeSaved || res.Estimate != nil {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if len(sink.added) != 0 {
		t.Fatalf("estimate rendered without est: %v", sink.added)
	}
}

func TestCaptureDeclined(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{readings: models.Readings{"A": -50}}
	op := &fakeOperator{approve: false}
	w := New(backend, staticRouters{"A"}, &fakeSink{}, op)

	res, err := w.Capture(context.Background(), calibration.PhysicalPoint{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if res.Outcome != OutcomeDeclined {
		t.Fatalf("outcome=%v want declined", res.Outcome)
	}
	if _, saves := backend.counts(); saves != 0 {
		t.Fatalf("declined capture issued %d saves", saves)
	}
	if w.State() != StateIdle {
		t.Fatalf("state=%v", w.State())
	}
}

func TestCaptureOperatorAbort(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{readings: models.Readings{"A": -50}}
	closed := errors.New("input closed")
	op := &fakeOperator{approve: true, confirmErr: closed}
	w := New(backend, staticRouters{"A"}, &fakeSink{}, op)

	var states []State
	w.OnTransition = func(_, to State) { states = append(states, to) }

	res, err := w.Capture(context.Background(), calibration.PhysicalPoint{X: 1, Y: 1})
	if !errors.Is(err, ErrOperatorAborted) || !errors.Is(err, closed) {
		t.Fatalf("err=%v want ErrOperatorAborted", err)
	}
	if errors.Is(err, ErrRequestFailed) {
		t.Fatalf("operator abort reported as request failure: %v", err)
	}
	if res.Outcome != OutcomeDeclined {
		t.Fatalf("outcome=%v want declined", res.Outcome)
	}
	for _, s := range states {
		if s == StateFailed || s == StateSaving {
			t.Fatalf("unexpected transition to %v in %v", s, states)
		}
	}
	if _, saves := backend.counts(); saves != 0 {
		t.Fatalf("aborted capture issued %d saves", saves)
	}
	if op.last().Kind != NoticeDeclined {
		t.Fatalf("notification=%+v", op.last())
	}
	if w.State() != StateIdle {
		t.Fatalf("state=%v", w.State())
	}
}

func TestCaptureFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	tests := []struct {
		name      string
		backend   *fakeBackend
		wantSaves int
		wantCause error
	}{
		{name: "scan error", backend: &fakeBackend{scanErr: boom}, wantSaves: 0, wantCause: boom},
		{name: "save error", backend: &fakeBackend{saveErr: boom}, wantSaves: 1, wantCause: boom},
		{name: "save not ok", backend: &fakeBackend{saveResp: models.SaveResponse{OK: false, Est: &[2]float64{1, 1}}}, wantSaves: 1, wantCause: ErrSaveRejected},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			op := &fakeOperator{approve: true}
			sink := &fakeSink{}
			w := New(tc.backend, staticRouters{"A"}, sink, op)

			var sawFailed bool
			w.OnTransition = func(_, to State) {
				if to == StateFailed {
					sawFailed = true
				}
			}

			res, err := w.Capture(context.Background(), calibration.PhysicalPoint{})
			if !errors.Is(err, ErrRequestFailed) || !errors.Is(err, tc.wantCause) {
				t.Fatalf("err=%v", err)
			}
			if res.Outcome != OutcomeFailed || !sawFailed {
				t.Fatalf("outcome=%v sawFailed=%v", res.Outcome, sawFailed)
			}
			if _, saves := tc.backend.counts(); saves != tc.wantSaves {
				t.Fatalf("saves=%d want %d", saves, tc.wantSaves)
			}
			if len(sink.added) != 0 {
				t.Fatal("estimate rendered on failure")
			}
			if op.last().Kind != NoticeFailed {
				t.Fatalf("notification=%+v", op.last())
			}
			if w.State() != StateIdle {
				t.Fatalf("state=%v want Idle", w.State())
			}
		})
	}
}

func TestCaptureRejectsOverlap(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	backend := &fakeBackend{readings: models.Readings{"A": -50}, saveResp: models.SaveResponse{OK: true}, scanGate: gate}
	op := &fakeOperator{approve: true}
	w := New(backend, staticRouters{"A"}, &fakeSink{}, op)

	scanning := make(chan struct{})
	w.OnTransition = func(_, to State) {
		if to == StateAwaitingScan {
			close(scanning)
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := w.Capture(context.Background(), calibration.PhysicalPoint{X: 1})
		done <- err
	}()
	<-scanning

	res, err := w.Capture(context.Background(), calibration.PhysicalPoint{X: 2})
	if !errors.Is(err, ErrCaptureInProgress) || res.Outcome != OutcomeRejected {
		t.Fatalf("overlapping capture res=%+v err=%v", res, err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if scans, saves := backend.counts(); scans != 1 || saves != 1 {
		t.Fatalf("scans=%d saves=%d want 1,1", scans, saves)
	}
	if w.State() != StateIdle {
		t.Fatalf("state=%v", w.State())
	}
}

func TestPromptSummary(t *testing.T) {
	t.Parallel()

	p := Prompt{
		Position: calibration.PhysicalPoint{X: 1.5, Y: 2},
		SSIDs:    []string{"lab", "hall"},
		Readings: models.Readings{"lab": -42.5},
	}
	want := "Scan results at (1.50, 2.00):\nlab: -42.5 dBm\nhall: unknown\n"
	if got := p.Summary(); got != want {
		t.Fatalf("Summary()=%q want %q", got, want)
	}
}
