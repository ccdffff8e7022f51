package animation

import (
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// Curve transforms linear progress t in [0, 1] into eased progress.
// Curves used for frame playback must be monotonic and map 0 to 0 and 1 to 1,
// otherwise the displayed frame would move backwards within a run.
type Curve func(t float64) float64

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return t
}

// curves maps configuration names to easing functions. Only monotonic
// Penner equations are listed.
var curves = map[string]Curve{
	"linear":       LinearCurve,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
}

// CurveByName looks up an easing curve by its configuration name, such as
// "linear" or "in-out-quad". Names are case-insensitive and an empty name
// selects linear.
func CurveByName(name string) (Curve, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return LinearCurve, true
	}
	c, ok := curves[name]
	return c, ok
}

// CurveNames returns the recognized curve names in sorted order.
func CurveNames() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
