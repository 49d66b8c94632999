package licks

import "math"

// ValidateOnsetTimes checks that onsets are finite, non-negative and strictly
// increasing. Empty and single-element sequences are valid.
func ValidateOnsetTimes(onsets []float64) error {
	for i, t := range onsets {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return &RangeError{Index: i, Value: t, Reason: "onset time is not a finite number"}
		}
		if t < 0 {
			return &RangeError{Index: i, Value: t, Reason: "onset time is negative"}
		}
		if i > 0 && t <= onsets[i-1] {
			return &OrderingError{Index: i, Previous: onsets[i-1], Value: t}
		}
	}
	return nil
}

// ValidateOnsetOffsetPairs checks that every offset belongs to its onset: same
// length, no offset before its onset and no offset past the next onset.
// Onsets must already have passed ValidateOnsetTimes.
func ValidateOnsetOffsetPairs(onsets, offsets []float64) error {
	if len(onsets) != len(offsets) {
		return &LengthMismatchError{Onsets: len(onsets), Offsets: len(offsets)}
	}

	for i, off := range offsets {
		if math.IsNaN(off) || math.IsInf(off, 0) {
			return &RangeError{Index: i, Value: off, Reason: "offset time is not a finite number"}
		}
		if off < onsets[i] {
			return &PairingError{Index: i, Onset: onsets[i], Offset: off}
		}
		if i+1 < len(onsets) && off > onsets[i+1] {
			return &OverlapError{Index: i, Offset: off, NextOnset: onsets[i+1]}
		}
	}
	return nil
}
