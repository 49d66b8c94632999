package licks

import (
	"fmt"
	"math"
	"sort"
)

// LicksForBurstRange returns the onsets spanning bursts startIdx through endIdx
// (inclusive, 0-based) together with their index range. The slice is contiguous,
// so licks excluded from segmentation that fall between the bursts are included
// and monotonicity is preserved.
func LicksForBurstRange(onsets []float64, bursts []Burst, startIdx, endIdx int) ([]float64, IndexRange, error) {
	if startIdx < 0 || startIdx >= len(bursts) {
		return nil, IndexRange{}, &RangeError{Index: startIdx, Value: float64(startIdx),
			Reason: fmt.Sprintf("start burst index outside [0, %d)", len(bursts))}
	}
	if endIdx < 0 || endIdx >= len(bursts) {
		return nil, IndexRange{}, &RangeError{Index: endIdx, Value: float64(endIdx),
			Reason: fmt.Sprintf("end burst index outside [0, %d)", len(bursts))}
	}
	if startIdx > endIdx {
		return nil, IndexRange{}, &RangeError{Index: startIdx, Value: float64(startIdx),
			Reason: fmt.Sprintf("start burst index is after end burst index %d", endIdx)}
	}

	r := IndexRange{Lo: bursts[startIdx].Start, Hi: bursts[endIdx].End + 1}
	if r.Hi > len(onsets) {
		return nil, IndexRange{}, &RangeError{Index: endIdx, Value: float64(r.Hi),
			Reason: "burst extends past the end of the onset sequence"}
	}
	return onsets[r.Lo:r.Hi], r, nil
}

// OffsetsForLicks returns the offsets paired with the selected onset indices
func OffsetsForLicks(offsets []float64, indices []int) ([]float64, error) {
	if offsets == nil {
		return nil, &LengthMismatchError{Onsets: len(indices), Offsets: 0}
	}
	selected := make([]float64, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(offsets) {
			return nil, &RangeError{Index: idx, Value: float64(idx),
				Reason: fmt.Sprintf("onset index outside [0, %d)", len(offsets))}
		}
		selected[i] = offsets[idx]
	}
	return selected, nil
}

// OffsetsForRange is OffsetsForLicks for a contiguous index range
func OffsetsForRange(offsets []float64, r IndexRange) ([]float64, error) {
	if offsets == nil {
		return nil, &LengthMismatchError{Onsets: r.Len(), Offsets: 0}
	}
	if r.Lo < 0 || r.Hi > len(offsets) || r.Lo > r.Hi {
		return nil, &RangeError{Index: r.Lo, Value: float64(r.Hi),
			Reason: fmt.Sprintf("index range [%d, %d) outside [0, %d)", r.Lo, r.Hi, len(offsets))}
	}
	return offsets[r.Lo:r.Hi], nil
}

// LicksInWindow returns the index range of onsets with start <= t < stop.
// An inverted window yields an empty range.
func LicksInWindow(onsets []float64, start, stop float64) IndexRange {
	lo := sort.SearchFloat64s(onsets, start)
	hi := sort.SearchFloat64s(onsets, stop)
	if hi < lo {
		hi = lo
	}
	return IndexRange{Lo: lo, Hi: hi}
}

// LicksInWindowChecked is LicksInWindow that rejects inverted or non-finite windows
func LicksInWindowChecked(onsets []float64, start, stop float64) (IndexRange, error) {
	if math.IsNaN(start) || math.IsNaN(stop) {
		return IndexRange{}, &RangeError{Index: -1, Value: start, Reason: "window bounds must be numbers"}
	}
	if stop < start {
		return IndexRange{}, &RangeError{Index: -1, Value: stop,
			Reason: fmt.Sprintf("window stop is before window start %v", start)}
	}
	return LicksInWindow(onsets, start, stop), nil
}
