package simulation

import "testing"

func TestNewRangeSwapsInvertedBounds(t *testing.T) {
	r := NewRange(10, 4)
	if r.Min != 4 || r.Max != 10 {
		t.Fatalf("expected swapped bounds, got [%f,%f]", r.Min, r.Max)
	}
}

func TestRangeValueMidpointAndWidth(t *testing.T) {
	r := RangeValue{Min: 20, Max: 60}
	if got := r.Midpoint(); got != 40 {
		t.Fatalf("expected midpoint 40, got %f", got)
	}
	if got := r.Width(); got != 40 {
		t.Fatalf("expected width 40, got %f", got)
	}
}

func TestClampRange(t *testing.T) {
	got := clampRange(RangeValue{Min: -20, Max: 350}, 0, 300)
	if got.Min != 0 || got.Max != 300 {
		t.Fatalf("expected [0,300], got [%f,%f]", got.Min, got.Max)
	}
	// A range entirely outside the domain collapses to the boundary.
	got = clampRange(RangeValue{Min: -40, Max: -10}, 0, 300)
	if got.Min != 0 || got.Max != 0 {
		t.Fatalf("expected [0,0], got [%f,%f]", got.Min, got.Max)
	}
}
