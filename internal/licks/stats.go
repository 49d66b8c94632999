package licks

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LickDurations returns offset-onset for each lick, or nil when offsets are absent
func LickDurations(onsets, offsets []float64) []float64 {
	if offsets == nil {
		return nil
	}
	n := min(len(onsets), len(offsets))
	durations := make([]float64, n)
	floats.SubTo(durations, offsets[:n], onsets[:n])
	return durations
}

// RemoveLongLicks drops every lick whose duration exceeds threshold and returns
// the kept onsets and offsets along with the removed indices. Without offsets
// nothing can be classified and the inputs are returned unchanged.
func RemoveLongLicks(onsets, offsets []float64, threshold float64) ([]float64, []float64, []int) {
	if offsets == nil {
		return onsets, nil, []int{}
	}

	keptOnsets := make([]float64, 0, len(onsets))
	keptOffsets := make([]float64, 0, len(offsets))
	removed := []int{}
	for i, d := range LickDurations(onsets, offsets) {
		if d > threshold {
			removed = append(removed, i)
			continue
		}
		keptOnsets = append(keptOnsets, onsets[i])
		keptOffsets = append(keptOffsets, offsets[i])
	}
	return keptOnsets, keptOffsets, removed
}

// longLickReport summarizes long licks over the unfiltered session. Returns nil
// when offsets are absent.
func longLickReport(onsets, offsets []float64, threshold float64) *LongLickStats {
	if offsets == nil {
		return nil
	}
	report := &LongLickStats{MaxDuration: math.NaN()}
	durations := LickDurations(onsets, offsets)
	if len(durations) == 0 {
		return report
	}
	for _, d := range durations {
		if d > threshold {
			report.Count++
		}
	}
	report.MaxDuration = floats.Max(durations)
	return report
}

// CalculateSegmentStats computes the summary statistics for one segment.
//
// onsets and offsets are the validated, unfiltered arrays (offsets may be nil).
// When removeLongLicks is set and offsets are present, long licks are dropped
// first and bursts must come from Segment over the filtered onsets; totals and
// burst metrics then describe the filtered data. The long-lick report always
// describes the unfiltered data, so it shows what was found and removed.
// A burst that does not index the analyzed licks is a *RangeError.
func CalculateSegmentStats(onsets, offsets []float64, bursts []Burst, longLickThreshold float64, removeLongLicks bool) (SegmentStats, error) {
	analyzed := onsets
	if removeLongLicks && offsets != nil {
		analyzed, _, _ = RemoveLongLicks(onsets, offsets, longLickThreshold)
	}

	for i, b := range bursts {
		if b.Start < 0 || b.End < b.Start || b.End >= len(analyzed) {
			return SegmentStats{}, &RangeError{Index: i, Value: float64(b.End),
				Reason: fmt.Sprintf("burst spans licks %d-%d but only %d licks are analyzed", b.Start, b.End, len(analyzed))}
		}
	}
	return segmentStats(onsets, offsets, analyzed, bursts, longLickThreshold), nil
}

// segmentStats computes the statistics of bursts already known to index analyzed
func segmentStats(onsets, offsets, analyzed []float64, bursts []Burst, longLickThreshold float64) SegmentStats {
	stats := SegmentStats{
		TotalLicks:          len(analyzed),
		BurstCount:          len(bursts),
		MeanLicksPerBurst:   math.NaN(),
		IntraburstFrequency: math.NaN(),
		LongLicks:           longLickReport(onsets, offsets, longLickThreshold),
	}

	if len(bursts) > 0 {
		sizes := make([]float64, len(bursts))
		for i, b := range bursts {
			sizes[i] = float64(b.Licks)
		}
		stats.MeanLicksPerBurst = stat.Mean(sizes, nil)
	}

	if ilis := intraburstIntervals(analyzed, bursts); len(ilis) > 0 {
		if meanILI := stat.Mean(ilis, nil); meanILI > 0 {
			stats.IntraburstFrequency = 1 / meanILI
		}
	}

	return stats
}
