package theater

import "math"

// Scrubber converts a vertical drag into navigation steps: every threshold
// units of cumulative displacement from the reference position is one step.
// The reference advances with the steps taken so that continued dragging
// keeps stepping, except at the list bounds, where it snaps to the raw
// position to stop displacement from piling up while pinned at an edge.
type Scrubber struct {
	threshold float64
	ref       float64
	active    bool
}

// NewScrubber returns a scrubber stepping once per threshold units.
func NewScrubber(threshold float64) *Scrubber {
	return &Scrubber{threshold: threshold}
}

// Active reports whether a gesture is in progress.
func (s *Scrubber) Active() bool {
	return s.active
}

// Start begins a gesture at vertical position pos.
func (s *Scrubber) Start(pos float64) {
	s.ref = pos
	s.active = true
}

// End releases the gesture.
func (s *Scrubber) End() {
	s.active = false
}

// Move folds a new vertical position into the gesture and returns the
// updated navigation index, given the current index and the active list
// length. Without an active gesture it returns index unchanged.
func (s *Scrubber) Move(pos float64, index, length int) int {
	if !s.active || length == 0 {
		return index
	}
	disp := pos - s.ref
	if math.Abs(disp) < s.threshold {
		return index
	}
	steps := int(math.Floor(math.Abs(disp) / s.threshold))
	dir := 1
	if disp < 0 {
		dir = -1
	}
	target := index + dir*steps
	clamped := target
	if clamped < 0 {
		clamped = 0
	} else if clamped > length-1 {
		clamped = length - 1
	}
	if clamped == 0 || clamped == length-1 {
		s.ref = pos
	} else {
		s.ref += float64(dir*steps) * s.threshold
	}
	return clamped
}
