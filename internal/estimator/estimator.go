package estimator

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// Log-distance path loss defaults.
const (
	RSSIAtOneMeter    = -40.0
	PathLossExponent  = 2.0
	UnreachableCutoff = -99.0
	MinAnchors        = 3
)

// PathLoss converts signal strength into distance.
type PathLoss struct {
	RSSIAtOneMeter float64
	Exponent       float64
}

// DefaultPathLoss uses the package defaults.
var DefaultPathLoss = PathLoss{RSSIAtOneMeter: RSSIAtOneMeter, Exponent: PathLossExponent}

// Distance returns the distance in meters for rssi, or +Inf when the
// signal is at or below the unreachable cutoff.
func (m PathLoss) Distance(rssi float64) float64 {
	if rssi <= UnreachableCutoff || math.IsNaN(rssi) {
		return math.Inf(1)
	}
	return math.Pow(10, (m.RSSIAtOneMeter-rssi)/(10*m.Exponent))
}

// Anchor is a router with a known position and a measured distance.
type Anchor struct {
	SSID     string
	Position r2.Point
	Distance float64
}

// Anchors pairs readings with router positions, dropping unknown routers
// and infinite distances. The result is sorted by ssid.
func Anchors(readings map[string]float64, routers map[string]r2.Point, model PathLoss) []Anchor {
	var out []Anchor
	for ssid, rssi := range readings {
		pos, ok := routers[ssid]
		if !ok {
			continue
		}
		d := model.Distance(rssi)
		if math.IsInf(d, 0) || math.IsNaN(d) {
			continue
		}
		out = append(out, Anchor{SSID: ssid, Position: pos, Distance: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SSID < out[j].SSID })
	return out
}

// Trilaterate estimates a position from at least MinAnchors anchors by
// subtracting the first circle equation from the others and solving the
// linear system in the least-squares sense.
func Trilaterate(anchors []Anchor) (r2.Point, bool) {
	if len(anchors) < MinAnchors {
		return r2.Point{}, false
	}

	p1, r1 := anchors[0].Position, anchors[0].Distance
	n := len(anchors) - 1
	a := mat.NewDense(n, 2, nil)
	b := mat.NewVecDense(n, nil)
	for i, an := range anchors[1:] {
		pi, ri := an.Position, an.Distance
		a.Set(i, 0, 2*(pi.X-p1.X))
		a.Set(i, 1, 2*(pi.Y-p1.Y))
		b.SetVec(i, r1*r1-ri*ri+pi.X*pi.X-p1.X*p1.X+pi.Y*pi.Y-p1.Y*p1.Y)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return r2.Point{}, false
	}
	est := r2.Point{X: x.AtVec(0), Y: x.AtVec(1)}
	if math.IsNaN(est.X) || math.IsNaN(est.Y) || math.IsInf(est.X, 0) || math.IsInf(est.Y, 0) {
		return r2.Point{}, false
	}
	return est, true
}

// Estimate runs the full pipeline for one fingerprint.
func Estimate(readings map[string]float64, routers map[string]r2.Point, model PathLoss) (r2.Point, bool) {
	return Trilaterate(Anchors(readings, routers, model))
}
