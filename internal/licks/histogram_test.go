package licks

import (
	"iter"
	"math"
	"slices"
	"testing"
)

func checkBins(t *testing.T, got []Bin, centers, values []float64) {
	t.Helper()
	if len(got) != len(values) {
		t.Fatalf("expected %d bins, got %d: %+v", len(values), len(got), got)
	}
	for i, b := range got {
		if math.Abs(b.Center-centers[i]) > 1e-9 || math.Abs(b.Value-values[i]) > 1e-9 {
			t.Errorf("bin %d = %+v, expected (%v, %v)", i, b, centers[i], values[i])
		}
	}
}

func TestILIHistogram(t *testing.T) {
	// intervals 0.05, 0.05, 0.25 and 0.65, the last beyond the range
	onsets := []float64{0, 0.05, 0.1, 0.35, 1.0}
	seq := ILIHistogram(onsets, 5, 0.5)

	first := slices.Collect(seq)
	checkBins(t, first,
		[]float64{0.05, 0.15, 0.25, 0.35, 0.45},
		[]float64{2, 0, 1, 0, 0})

	// the sequence can be consumed again with the same result
	if again := slices.Collect(seq); !slices.Equal(again, first) {
		t.Error("second pass differs from the first")
	}

	edge := slices.Collect(ILIHistogram([]float64{0, 0.5}, 5, 0.5))
	if edge[4].Value != 1 {
		t.Errorf("interval on the upper edge should land in the last bin, got %+v", edge)
	}

	if got := slices.Collect(ILIHistogram([]float64{3}, DefaultILIBins, DefaultILIMax)); len(got) != DefaultILIBins {
		t.Errorf("expected %d empty bins, got %d", DefaultILIBins, len(got))
	}
}

func TestLickLengthHistogram(t *testing.T) {
	if _, ok := LickLengthHistogram([]float64{0, 1}, nil, DefaultLickLengthBinSize, 0.3); ok {
		t.Error("expected ok=false without offsets")
	}

	onsets := []float64{0, 1, 2}
	offsets := []float64{0.015, 1.025, 2.5}
	seq, ok := LickLengthHistogram(onsets, offsets, DefaultLickLengthBinSize, 0.3)
	if !ok {
		t.Fatal("expected a histogram with offsets")
	}
	bins := slices.Collect(seq)
	if len(bins) != 29 {
		t.Fatalf("expected 29 bins, got %d", len(bins))
	}
	if last := bins[len(bins)-1].Center; math.Abs(last-0.285) > 1e-9 {
		t.Errorf("last bin center = %v, expected 0.285 below the threshold", last)
	}
	total := 0.0
	for _, b := range bins {
		total += b.Value
	}
	if total != 2 {
		t.Errorf("expected 2 licks inside the range, got %v", total)
	}
	if bins[1].Value != 1 || bins[2].Value != 1 {
		t.Errorf("unexpected counts in the first bins: %+v", bins[:3])
	}
}

func TestBurstSizeHistogramAndSurvival(t *testing.T) {
	bursts := []Burst{
		{Start: 0, End: 2, Licks: 3},
		{Start: 5, End: 5, Licks: 1},
		{Start: 8, End: 9, Licks: 2},
		{Start: 12, End: 13, Licks: 2},
	}

	checkBins(t, slices.Collect(BurstSizeHistogram(bursts)),
		[]float64{1, 2, 3},
		[]float64{1, 2, 1})

	checkBins(t, slices.Collect(SurvivalSeries(bursts)),
		[]float64{1, 2, 3},
		[]float64{1, 0.75, 0.25})

	if got := slices.Collect(BurstSizeHistogram(nil)); len(got) != 0 {
		t.Errorf("expected no bins without bursts, got %+v", got)
	}
}

func TestSessionHistogram(t *testing.T) {
	onsets := []float64{1, 2, 3, 59, 60}

	checkBins(t, slices.Collect(SessionHistogram(onsets, 30, 60)),
		[]float64{15, 45},
		[]float64{3, 2})

	// without a session length the last onset ends the session
	checkBins(t, slices.Collect(SessionHistogram(onsets, 20, 0)),
		[]float64{10, 30, 50},
		[]float64{3, 0, 2})
}

func TestHistogramStopsEarly(t *testing.T) {
	seqs := map[string]iter.Seq[Bin]{
		"ili":     ILIHistogram([]float64{0, 0.1, 0.2}, 10, 0.5),
		"size":    BurstSizeHistogram([]Burst{{Start: 0, End: 3, Licks: 4}}),
		"session": SessionHistogram([]float64{1, 2, 3}, 1, 10),
	}
	for name, seq := range seqs {
		n := 0
		for range seq {
			n++
			break
		}
		if n != 1 {
			t.Errorf("%s: expected to stop after one bin, got %d", name, n)
		}
	}
}
