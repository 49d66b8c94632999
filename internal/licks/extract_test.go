package licks

import (
	"errors"
	"reflect"
	"testing"
)

func TestLicksForBurstRange(t *testing.T) {
	// bursts [0-2], [4-6], [8-9]; licks 3 and 7 are isolated
	onsets := []float64{0, 0.1, 0.2, 3, 6, 6.1, 6.2, 9, 12, 12.1}
	bursts := Segment(onsets, 0.5, 2)
	if len(bursts) != 3 {
		t.Fatalf("expected 3 bursts, got %d", len(bursts))
	}

	tests := []struct {
		name       string
		start, end int
		expected   []float64
		wantRange  IndexRange
		wantErr    bool
	}{
		{name: "first burst", start: 0, end: 0, expected: []float64{0, 0.1, 0.2}, wantRange: IndexRange{0, 3}},
		{name: "middle to last", start: 1, end: 2, expected: []float64{6, 6.1, 6.2, 9, 12, 12.1}, wantRange: IndexRange{4, 10}},
		{name: "all bursts", start: 0, end: 2, expected: onsets, wantRange: IndexRange{0, 10}},
		{name: "start after end", start: 2, end: 1, wantErr: true},
		{name: "negative start", start: -1, end: 1, wantErr: true},
		{name: "end out of bounds", start: 0, end: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, r, err := LicksForBurstRange(onsets, bursts, tt.start, tt.end)
			if tt.wantErr {
				var rangeErr *RangeError
				if !errors.As(err, &rangeErr) {
					t.Fatalf("expected RangeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
			if r != tt.wantRange {
				t.Errorf("range = %+v, expected %+v", r, tt.wantRange)
			}
			if err := ValidateOnsetTimes(got); err != nil {
				t.Errorf("extracted licks are not monotonic: %v", err)
			}
		})
	}
}

func TestOffsetsForLicks(t *testing.T) {
	offsets := []float64{0.05, 0.15, 0.25, 0.35}

	got, err := OffsetsForLicks(offsets, []int{1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{0.15, 0.35}) {
		t.Errorf("got %v", got)
	}

	var mismatch *LengthMismatchError
	if _, err := OffsetsForLicks(nil, []int{0}); !errors.As(err, &mismatch) {
		t.Errorf("expected LengthMismatchError without offsets, got %v", err)
	}

	var rangeErr *RangeError
	if _, err := OffsetsForLicks(offsets, []int{4}); !errors.As(err, &rangeErr) {
		t.Errorf("expected RangeError for out-of-bounds index, got %v", err)
	}
}

func TestLicksInWindow(t *testing.T) {
	onsets := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name        string
		start, stop float64
		expected    IndexRange
	}{
		{name: "inner window", start: 2, stop: 4, expected: IndexRange{1, 3}},
		{name: "whole session", start: 0, stop: 10, expected: IndexRange{0, 5}},
		{name: "between licks", start: 2.2, stop: 2.8, expected: IndexRange{2, 2}},
		{name: "inverted", start: 4, stop: 2, expected: IndexRange{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LicksInWindow(onsets, tt.start, tt.stop); got != tt.expected {
				t.Errorf("got %+v, expected %+v", got, tt.expected)
			}
		})
	}

	if _, err := LicksInWindowChecked(onsets, 4, 2); err == nil {
		t.Error("expected an error for an inverted window")
	}
}
