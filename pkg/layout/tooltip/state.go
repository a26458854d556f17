package tooltip

// Phase is the measurement phase of an open popup.
type Phase int

const (
	// Provisional means the popup has not been measured yet.
	Provisional Phase = iota
	// Measured means the placement is clamped to the viewport.
	Measured
)

func (p Phase) String() string {
	if p == Measured {
		return "measured"
	}
	return "provisional"
}

// Measurement is a fresh report of the popup's rendered size and the
// viewport size.
type Measurement struct {
	Tooltip  Size
	Viewport Size
}

// State is an open popup.
type State struct {
	Phase     Phase
	Origin    Point
	Padding   float64
	Offset    float64
	Tooltip   Size
	Viewport  Size
	Placement Placement
}

// Open starts a popup at origin in the provisional phase.
func Open(origin Point, padding, offset float64) State {
	return State{
		Phase:     Provisional,
		Origin:    origin,
		Padding:   padding,
		Offset:    offset,
		Placement: Place(origin, Size{}, Size{}, padding, offset),
	}
}

// Apply returns the state after a measurement. Measurements with an unknown
// size or viewport leave the popup provisional.
func (s State) Apply(m Measurement) State {
	s.Tooltip = m.Tooltip
	s.Viewport = m.Viewport
	s.Placement = Place(s.Origin, s.Tooltip, s.Viewport, s.Padding, s.Offset)
	if s.Placement.Measured {
		s.Phase = Measured
	} else {
		s.Phase = Provisional
	}
	return s
}

// Moved returns the state for a new origin, keeping the last measurement.
func (s State) Moved(origin Point) State {
	s.Origin = origin
	return s.Apply(Measurement{Tooltip: s.Tooltip, Viewport: s.Viewport})
}
