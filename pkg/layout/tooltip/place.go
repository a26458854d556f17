package tooltip

// Defaults used when the caller has no preference.
const (
	DefaultOffset  = 12.0
	DefaultPadding = 8.0
)

// Point is a position in viewport pixels.
type Point struct {
	X, Y float64
}

// Size is a width and height in pixels. A non-positive dimension means
// unknown.
type Size struct {
	W, H float64
}

// Known reports whether both dimensions are positive.
func (s Size) Known() bool { return s.W > 0 && s.H > 0 }

// Side is where the popup sits relative to the origin on one axis.
type Side string

const (
	SideRight  Side = "right"
	SideLeft   Side = "left"
	SideBelow  Side = "below"
	SideAbove  Side = "above"
	SideCenter Side = "center"
)

// Placement is the popup's top-left corner. Measured is false for the
// provisional placement, which is not clamped.
type Placement struct {
	Left       float64
	Top        float64
	Horizontal Side
	Vertical   Side
	Measured   bool
}

// Quadrant names the chosen sides, e.g. "below-right".
func (p Placement) Quadrant() string {
	return string(p.Vertical) + "-" + string(p.Horizontal)
}

// Place computes the popup position for the given origin, popup size and
// viewport. With an unknown size or viewport it returns the provisional
// origin-offset position.
func Place(origin Point, tip, viewport Size, padding, offset float64) Placement {
	if !tip.Known() || !viewport.Known() {
		return Placement{
			Left:       origin.X + offset,
			Top:        origin.Y + offset,
			Horizontal: SideRight,
			Vertical:   SideBelow,
		}
	}

	left, h := axis(origin.X, tip.W, viewport.W, padding, offset, SideRight, SideLeft)
	top, v := axis(origin.Y, tip.H, viewport.H, padding, offset, SideBelow, SideAbove)
	return Placement{Left: left, Top: top, Horizontal: h, Vertical: v, Measured: true}
}

// axis places the popup along one dimension: after the origin if it fits,
// before it if that fits, centered otherwise, then clamped to
// [padding, extent-size-padding]. When the popup is larger than the
// viewport the lower bound wins.
func axis(origin, size, extent, padding, offset float64, after, before Side) (float64, Side) {
	var pos float64
	var side Side
	switch {
	case extent-origin >= size+offset:
		pos, side = origin+offset, after
	case origin >= size+offset:
		pos, side = origin-offset-size, before
	default:
		pos, side = origin-size/2, SideCenter
	}
	return max(padding, min(pos, extent-size-padding)), side
}
