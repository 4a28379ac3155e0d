package series

import (
	"math"
	"testing"
)

func TestSeriesRanges(t *testing.T) {
	s := Series{Points: []DataPoint{{X: 3, Y: 9}, {X: 1, Y: 4}, {X: 7, Y: -2}}}

	xMin, xMax, ok := s.XRange()
	if !ok || xMin != 1 || xMax != 7 {
		t.Errorf("XRange = (%v, %v, %v), want (1, 7, true)", xMin, xMax, ok)
	}
	yMin, yMax, ok := s.YRange()
	if !ok || yMin != -2 || yMax != 9 {
		t.Errorf("YRange = (%v, %v, %v), want (-2, 9, true)", yMin, yMax, ok)
	}

	var empty Series
	if _, _, ok := empty.XRange(); ok {
		t.Error("empty series should report ok=false")
	}
}

func TestBarDataValidate(t *testing.T) {
	b := BarData{
		SeriesNames: []string{"a", "b"},
		Categories: []Category{
			{Label: "q1", Values: []float64{1, 2}},
			{Label: "q2", Values: []float64{3}},
		},
	}
	if err := b.Validate(); err == nil {
		t.Error("expected error for ragged category values")
	}

	b.Categories[1].Values = []float64{3, 4}
	if err := b.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	b.SeriesColors = []string{"#ff0000"}
	if err := b.Validate(); err == nil {
		t.Error("expected error for color/series count mismatch")
	}
}

func TestBarDataStackTotal(t *testing.T) {
	b := BarData{
		SeriesNames: []string{"a", "b", "c"},
		Categories: []Category{
			{Label: "q1", Values: []float64{10, 20, 30}},
			{Label: "q2", Values: []float64{5, math.NaN(), 5}},
		},
	}
	if got := b.StackTotal(0); got != 60 {
		t.Errorf("StackTotal(0) = %v, want 60", got)
	}
	if got := b.StackTotal(1); got != 10 {
		t.Errorf("StackTotal(1) = %v, want 10 (NaN skipped)", got)
	}
	if got := b.StackTotal(5); got != 0 {
		t.Errorf("StackTotal out of range = %v, want 0", got)
	}
}

func TestRingBufferEviction(t *testing.T) {
	r := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		r.Append(DataPoint{X: float64(i), Y: float64(i * i)})
	}

	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].X != 2 || snap[2].X != 4 {
		t.Errorf("Snapshot = %+v, want X values 2,3,4 oldest-first", snap)
	}

	oldest, ok := r.Oldest()
	if !ok || oldest.X != 2 {
		t.Errorf("Oldest = %+v, want X=2", oldest)
	}
	latest, ok := r.Latest()
	if !ok || latest.X != 4 {
		t.Errorf("Latest = %+v, want X=4", latest)
	}
}

func TestRingBufferClampX(t *testing.T) {
	r := NewRingBuffer(4)
	for i := 10; i <= 13; i++ {
		r.Append(DataPoint{X: float64(i)})
	}

	tests := []struct {
		x    float64
		want float64
	}{
		{5, 10},   // evicted history clamps to oldest
		{11.5, 11.5},
		{99, 13},
	}
	for _, tt := range tests {
		if got := r.ClampX(tt.x); got != tt.want {
			t.Errorf("ClampX(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}

	empty := NewRingBuffer(2)
	if got := empty.ClampX(42); got != 42 {
		t.Errorf("empty buffer ClampX should pass through, got %v", got)
	}
}
