package copiclib

import "sort"

type Viewport struct {
	Width  int
	Height int
}

type Monitor struct {
	Width   int
	Height  int
	X       int
	Y       int
	Primary bool
}

// Aspect is width over height, so portrait monitors sort before landscape.
func (m Monitor) Aspect() float64 {
	return float64(m.Width) / float64(m.Height)
}

// A DisplayLayout is an immutable snapshot of the connected monitors.
// Construct a fresh one per query, never mutate one in place.
type DisplayLayout struct {
	Viewport Viewport
	Monitors []Monitor
}

// Leftmost monitor first, matching the order xrandr reports a typical
// horizontal arrangement.
func sortMonitors(monitors []Monitor) {
	sort.SliceStable(monitors, func(i, j int) bool {
		if monitors[i].X != monitors[j].X {
			return monitors[i].X < monitors[j].X
		}
		return monitors[i].Y < monitors[j].Y
	})
}

// monitorsByAspect returns the indices of l.Monitors ordered by ascending
// aspect ratio. The sort is stable: monitors with equal ratios keep their
// layout order.
func (l *DisplayLayout) monitorsByAspect() []int {
	idx := make([]int, len(l.Monitors))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return l.Monitors[idx[a]].Aspect() < l.Monitors[idx[b]].Aspect()
	})
	return idx
}

// EqualForRotation reports whether two layouts are the same for rotation
// purposes: same monitor count and the same multiset of (width, height)
// pairs. Offsets are ignored, monitors shifting around the viewport is not a
// configuration change worth recomposing for.
//
// Known limitation, kept from the original behavior: the daemon's change
// trigger compares only monitor count, so a resize at constant count does
// not force a recomposition until the next scheduled rotation.
func (l *DisplayLayout) EqualForRotation(o *DisplayLayout) bool {
	if l == nil || o == nil {
		return l == o
	}
	if len(l.Monitors) != len(o.Monitors) {
		return false
	}

	a := sortedDimensions(l.Monitors)
	b := sortedDimensions(o.Monitors)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedDimensions(monitors []Monitor) [][2]int {
	dims := make([][2]int, len(monitors))
	for i, m := range monitors {
		dims[i] = [2]int{m.Width, m.Height}
	}
	sort.Slice(dims, func(i, j int) bool {
		if dims[i][0] != dims[j][0] {
			return dims[i][0] < dims[j][0]
		}
		return dims[i][1] < dims[j][1]
	})
	return dims
}
