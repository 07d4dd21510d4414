package workflow

import (
	"fmt"
	"math"
	"strings"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

// State of the capture workflow.
type State int

const (
	StateIdle State = iota
	StateAwaitingScan
	StateAwaitingConfirmation
	StateSaving
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAwaitingScan:
		return "AwaitingScan"
	case StateAwaitingConfirmation:
		return "AwaitingConfirmation"
	case StateSaving:
		return "Saving"
	case StateFailed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// NoticeKind classifies an operator notification.
type NoticeKind int

const (
	NoticeSaved NoticeKind = iota
	NoticeDeclined
	NoticeNoRouters
	NoticeBusy
	NoticeFailed
)

// Notification is shown to the operator.
type Notification struct {
	Kind     NoticeKind
	Message  string
	Estimate *calibration.PhysicalPoint
}

// Lines formats the readings for every requested ssid. Missing or
// non-finite values are shown as unknown.
func (p Prompt) Lines() []string {
	lines := make([]string, 0, len(p.SSIDs))
	for _, id := range p.SSIDs {
		lines = append(lines, fmt.Sprintf("%s: %s", id, FormatReading(p.Readings, id)))
	}
	return lines
}

// Summary is the full confirmation text.
func (p Prompt) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scan results at (%.2f, %.2f):\n", p.Position.X, p.Position.Y)
	for _, l := range p.Lines() {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatReading renders one reading in dBm.
func FormatReading(r models.Readings, ssid string) string {
	v, ok := r[ssid]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return "unknown"
	}
	return fmt.Sprintf("%g dBm", v)
}
