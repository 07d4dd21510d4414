package scanner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

// NoSignal is reported for requested networks that were not seen.
const NoSignal = -100.0

// ErrScanFailed wraps failures of the platform scan command.
var ErrScanFailed = errors.New("wifi scan failed")

// Scanner measures signal strength for a set of ssids.
type Scanner interface {
	Scan(ctx context.Context, ssids []string) (models.Readings, error)
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Command scans with the platform's wireless tooling.
type Command struct {
	GOOS string
	Run  Runner
}

// NewCommand creates a scanner for the running platform.
func NewCommand() *Command {
	return &Command{GOOS: runtime.GOOS, Run: execRunner}
}

// Scan runs the platform command. Every requested ssid is present in the
// result; unseen networks read NoSignal.
func (c *Command) Scan(ctx context.Context, ssids []string) (models.Readings, error) {
	var (
		name  string
		args  []string
		parse func([]byte, map[string]bool) map[string]float64
	)
	switch c.GOOS {
	case "linux":
		name, args, parse = "nmcli", []string{"-t", "-f", "SSID,SIGNAL", "dev", "wifi", "list"}, parseNmcli
	case "windows":
		name, args, parse = "netsh", []string{"wlan", "show", "networks", "mode=bssid"}, parseNetsh
	case "darwin":
		name, args, parse = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport", []string{"-s"}, parseAirport
	default:
		return nil, fmt.Errorf("%w: unsupported platform %s", ErrScanFailed, c.GOOS)
	}

	out, err := c.Run(ctx, name, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScanFailed, name, err)
	}

	targets := make(map[string]bool, len(ssids))
	readings := make(models.Readings, len(ssids))
	for _, s := range ssids {
		targets[s] = true
		readings[s] = NoSignal
	}
	for ssid, v := range parse(out, targets) {
		readings[ssid] = v
	}
	return readings, nil
}

// percentToDBm maps a 0..100 quality percentage onto -100..-50 dBm.
func percentToDBm(p int) float64 {
	return float64(p)/2 - 100
}

// parseNmcli reads `nmcli -t -f SSID,SIGNAL` output. Colons inside the
// ssid are escaped as "\:".
func parseNmcli(out []byte, targets map[string]bool) map[string]float64 {
	found := make(map[string]float64)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		idx := lastUnescapedColon(line)
		if idx < 0 {
			continue
		}
		ssid := strings.ReplaceAll(line[:idx], `\:`, ":")
		signal, err := strconv.Atoi(line[idx+1:])
		if err != nil || !targets[ssid] {
			continue
		}
		v := percentToDBm(signal)
		if cur, ok := found[ssid]; !ok || v > cur {
			found[ssid] = v
		}
	}
	return found
}

func lastUnescapedColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

var (
	netshSSID   = regexp.MustCompile(`^SSID \d+ : (.*)$`)
	netshSignal = regexp.MustCompile(`^Signal\s*:\s*(\d+)%`)
)

// parseNetsh reads `netsh wlan show networks mode=bssid` output, taking the
// first signal line below each SSID header.
func parseNetsh(out []byte, targets map[string]bool) map[string]float64 {
	found := make(map[string]float64)
	var current string
	var pending bool
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if m := netshSSID.FindStringSubmatch(line); m != nil {
			current, pending = strings.TrimSpace(m[1]), true
			continue
		}
		if !pending {
			continue
		}
		if m := netshSignal.FindStringSubmatch(line); m != nil {
			pending = false
			if !targets[current] {
				continue
			}
			if p, err := strconv.Atoi(m[1]); err == nil {
				found[current] = percentToDBm(p)
			}
		}
	}
	return found
}

var airportLine = regexp.MustCompile(`^\s*(.+?)\s+([0-9a-f]{2}(?::[0-9a-f]{2}){5})\s+(-?\d+)`)

// parseAirport reads `airport -s` output, skipping the header line.
func parseAirport(out []byte, targets map[string]bool) map[string]float64 {
	found := make(map[string]float64)
	sc := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		m := airportLine.FindStringSubmatch(sc.Text())
		if m == nil || !targets[m[1]] {
			continue
		}
		if v, err := strconv.Atoi(m[3]); err == nil {
			found[m[1]] = float64(v)
		}
	}
	return found
}

// Fixed reports the same value for every ssid, with optional overrides.
type Fixed struct {
	Value     float64
	Overrides models.Readings
}

// Scan implements Scanner.
func (f Fixed) Scan(_ context.Context, ssids []string) (models.Readings, error) {
	out := make(models.Readings, len(ssids))
	for _, s := range ssids {
		if v, ok := f.Overrides[s]; ok {
			out[s] = v
			continue
		}
		out[s] = f.Value
	}
	return out, nil
}
