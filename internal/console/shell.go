package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/fingerprint-calibrator/internal/calibration"
	"github.com/jengzang/fingerprint-calibrator/internal/registry"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
	"github.com/jengzang/fingerprint-calibrator/internal/session"
)

// ErrUsage is returned for malformed commands.
var ErrUsage = errors.New("usage")

const help = `Commands:
  width <meters>            set the physical width of the floor plan
  routers <ssid, x, y ; ...> declare routers (x from left, y from bottom, meters)
  click <x> <y>             capture at a display point (y from top, meters)
  clickp <x> <y>            capture at a physical point (y from bottom, meters)
  clear                     remove estimate markers
  svg <file>                write the current map as SVG
  state                     show calibration, routers and workflow state
  help                      show this message
  quit                      exit
`

// Shell runs calibrator commands read from the operator.
type Shell struct {
	session  *session.Session
	canvas   *render.Canvas
	operator *Operator

	// ImageBase prefixes the image path in SVG output, usually the backend URL.
	ImageBase string
}

// NewShell creates a shell over an already wired session.
func NewShell(s *session.Session, canvas *render.Canvas, op *Operator) *Shell {
	return &Shell{session: s, canvas: canvas, operator: op}
}

// Run reads commands until quit or the input ends.
func (sh *Shell) Run(ctx context.Context) error {
	sh.operator.Printf("%s", help)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		sh.operator.Printf("> ")
		line, err := sh.operator.ReadLine()
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := sh.Exec(ctx, line)
		if err != nil {
			sh.operator.Printf("Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line. quit is true for the quit command.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	cmd, rest = strings.ToLower(cmd), strings.TrimSpace(rest)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		sh.operator.Printf("%s", help)
		return false, nil
	case "width":
		w, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return false, fmt.Errorf("%w: width <meters>", ErrUsage)
		}
		if err := sh.session.Calibrate(w); err != nil {
			return false, err
		}
		cal, _ := sh.session.Calibration()
		sh.operator.Printf("Map is %.2f x %.2f m\n", cal.PhysicalWidth, cal.PhysicalHeight())
		return false, nil
	case "routers":
		routers, err := ParseRouters(rest)
		if err != nil {
			return false, err
		}
		if err := sh.session.DeclareRouters(ctx, routers); err != nil {
			return false, err
		}
		sh.operator.Printf("Declared %d routers\n", len(sh.session.Routers()))
		return false, nil
	case "click", "clickp":
		x, y, err := parsePair(rest)
		if err != nil {
			return false, fmt.Errorf("%w: %s <x> <y>", ErrUsage, cmd)
		}
		d := calibration.DisplayPoint{X: x, Y: y}
		if cmd == "clickp" {
			cal, ok := sh.session.Calibration()
			if !ok {
				return false, session.ErrNotCalibrated
			}
			if d, err = calibration.ToDisplay(calibration.PhysicalPoint{X: x, Y: y}, cal); err != nil {
				return false, err
			}
		}
		_, err = sh.session.Click(ctx, d)
		return false, err
	case "clear":
		sh.session.ClearEstimates()
		return false, nil
	case "svg":
		if rest == "" {
			return false, fmt.Errorf("%w: svg <file>", ErrUsage)
		}
		return false, sh.writeSVG(rest)
	case "state":
		sh.printState()
		return false, nil
	}
	return false, fmt.Errorf("%w: unknown command %q, try help", ErrUsage, cmd)
}

func (sh *Shell) writeSVG(path string) error {
	cal, ok := sh.session.Calibration()
	if !ok {
		return session.ErrNotCalibrated
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	href := ""
	if p := sh.session.Metadata().Path; p != "" {
		href = sh.ImageBase + p
	}
	if err := sh.canvas.WriteSVG(f, cal, href); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	sh.operator.Printf("Wrote %s\n", path)
	return nil
}

func (sh *Shell) printState() {
	if cal, ok := sh.session.Calibration(); ok {
		sh.operator.Printf("Calibration: %.2f x %.2f m (%.3f px/m)\n", cal.PhysicalWidth, cal.PhysicalHeight(), cal.Scale())
	} else {
		sh.operator.Printf("Calibration: none\n")
	}
	routers := sh.session.Routers()
	sh.operator.Printf("Routers: %d\n", len(routers))
	for _, rt := range routers {
		sh.operator.Printf("  %s (%.2f, %.2f)\n", rt.ID, rt.Position.X, rt.Position.Y)
	}
	sh.operator.Printf("Estimates: %d\n", len(sh.session.Estimates()))
	sh.operator.Printf("Workflow: %s\n", sh.session.State())
}

// ParseRouters reads "SSID, x, y ; SSID2, x2, y2". Empty entries are
// ignored.
func ParseRouters(text string) ([]registry.Router, error) {
	var out []registry.Router
	for i, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cols := strings.Split(part, ",")
		if len(cols) < 3 {
			return nil, fmt.Errorf("%w: entry %d %q needs ssid, x, y", ErrUsage, i+1, part)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(cols[1]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(cols[2]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: entry %d %q has a bad coordinate", ErrUsage, i+1, part)
		}
		out = append(out, registry.Router{
			ID:       strings.TrimSpace(cols[0]),
			Position: calibration.PhysicalPoint{X: x, Y: y},
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: routers <ssid, x, y ; ...>", ErrUsage)
	}
	return out, nil
}

func parsePair(s string) (float64, float64, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 2 {
		return 0, 0, ErrUsage
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
