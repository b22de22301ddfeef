package theater

import "testing"

func TestScrubberStepsPerThreshold(t *testing.T) {
	s := NewScrubber(10)
	s.Start(100)

	if got := s.Move(105, 5, 20); got != 5 {
		t.Errorf("displacement below threshold must not step, got %d", got)
	}
	if got := s.Move(125, 5, 20); got != 7 {
		t.Errorf("expected 2 steps down, got index %d", got)
	}
	// The reference advanced by 2*threshold, so 5 more units is again
	// below threshold.
	if got := s.Move(125, 7, 20); got != 7 {
		t.Errorf("expected no further step at the same position, got %d", got)
	}
}

func TestScrubberBothDirections(t *testing.T) {
	s := NewScrubber(10)
	s.Start(100)
	if got := s.Move(85, 5, 20); got != 4 {
		t.Errorf("expected 1 step up, got index %d", got)
	}
	if got := s.Move(100, 4, 20); got != 5 {
		t.Errorf("expected 1 step back down, got index %d", got)
	}
}

func TestScrubberSnapsAtBounds(t *testing.T) {
	s := NewScrubber(10)
	s.Start(100)

	// A huge drag pins the index at the end and snaps the reference to
	// the raw position: dragging back must step immediately.
	if got := s.Move(1000, 5, 8); got != 7 {
		t.Errorf("expected clamp to last index, got %d", got)
	}
	if got := s.Move(990, 7, 8); got != 6 {
		t.Errorf("expected immediate step after edge snap, got %d", got)
	}
}

func TestScrubberInactive(t *testing.T) {
	s := NewScrubber(10)
	if got := s.Move(500, 3, 10); got != 3 {
		t.Errorf("inactive scrubber must not step, got %d", got)
	}
	s.Start(0)
	s.End()
	if s.Active() {
		t.Error("expected gesture to be released")
	}
}
