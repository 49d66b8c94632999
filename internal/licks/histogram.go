package licks

import (
	"iter"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one point of a histogram-ready series: a bin center and its value
// (a count, or a probability for survival series).
type Bin struct {
	Center float64
	Value  float64
}

// Default histogram layouts used by the plotting layers
const (
	DefaultILIBins           = 50
	DefaultILIMax            = 0.5
	DefaultLickLengthBinSize = 0.01
)

// binCounts counts values into the bins described by dividers. Values outside
// [dividers[0], dividers[last]] are ignored; the upper edge is inclusive.
func binCounts(values, dividers []float64) []float64 {
	counts := make([]float64, len(dividers)-1)
	lo, hi := dividers[0], dividers[len(dividers)-1]

	x := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			x = append(x, v)
		}
	}
	if len(x) == 0 {
		return counts
	}
	slices.Sort(x)

	edges := slices.Clone(dividers)
	edges[len(edges)-1] = math.Nextafter(hi, math.Inf(1))
	return stat.Histogram(counts, edges, x, nil)
}

// evenSeries yields a histogram of values over bins equal-width bins spanning [lo, hi]
func evenSeries(values func() []float64, bins int, lo, hi float64) iter.Seq[Bin] {
	return func(yield func(Bin) bool) {
		if bins < 1 || !(hi > lo) {
			return
		}
		dividers := floats.Span(make([]float64, bins+1), lo, hi)
		counts := binCounts(values(), dividers)
		for i, c := range counts {
			if !yield(Bin{Center: (dividers[i] + dividers[i+1]) / 2, Value: c}) {
				return
			}
		}
	}
}

// ILIHistogram yields the distribution of inter-lick intervals over bins
// equal-width bins on [0, maxILI]
func ILIHistogram(onsets []float64, bins int, maxILI float64) iter.Seq[Bin] {
	return evenSeries(func() []float64 { return InterLickIntervals(onsets) }, bins, 0, maxILI)
}

// LickLengthHistogram yields the distribution of lick durations using bins of
// binWidth seconds. Bin edges run 0, binWidth, ... while below maxLength, so
// the last edge sits under maxLength. ok is false when offsets are absent.
func LickLengthHistogram(onsets, offsets []float64, binWidth, maxLength float64) (seq iter.Seq[Bin], ok bool) {
	if offsets == nil {
		return nil, false
	}
	bins := 0
	if binWidth > 0 && maxLength > 0 {
		edges := int(math.Ceil(maxLength/binWidth - 1e-9))
		bins = edges - 1
	}
	return evenSeries(func() []float64 { return LickDurations(onsets, offsets) }, bins, 0, float64(bins)*binWidth), true
}

// BurstSizeHistogram yields the number of bursts of each size from 1 to the
// largest burst
func BurstSizeHistogram(bursts []Burst) iter.Seq[Bin] {
	return func(yield func(Bin) bool) {
		largest := 0
		for _, b := range bursts {
			largest = max(largest, b.Licks)
		}
		counts := make([]int, largest+1)
		for _, b := range bursts {
			counts[b.Licks]++
		}
		for size := 1; size <= largest; size++ {
			if !yield(Bin{Center: float64(size), Value: float64(counts[size])}) {
				return
			}
		}
	}
}

// SurvivalSeries yields (n, S(n)) pairs of the burst-size survival function
func SurvivalSeries(bursts []Burst) iter.Seq[Bin] {
	return func(yield func(Bin) bool) {
		ns, probs := BurstSurvival(BurstSizes(bursts))
		for i := range ns {
			if !yield(Bin{Center: ns[i], Value: probs[i]}) {
				return
			}
		}
	}
}

// SessionHistogram yields licks per binSize-second bin over [0, L], where L is
// sessionLength if positive and otherwise the last onset
func SessionHistogram(onsets []float64, binSize, sessionLength float64) iter.Seq[Bin] {
	length := sessionLength
	if !(length > 0) && len(onsets) > 0 {
		length = onsets[len(onsets)-1]
	}
	bins := 1
	if binSize > 0 && length > 0 {
		bins = max(1, int(length/binSize))
	}
	return evenSeries(func() []float64 { return onsets }, bins, 0, length)
}

// ILIHistogram yields the ILI distribution of the analyzed licks
func (a *Analysis) ILIHistogram(bins int, maxILI float64) iter.Seq[Bin] {
	return ILIHistogram(a.Onsets, bins, maxILI)
}

// LickLengthHistogram yields the lick-duration distribution of the analyzed
// licks up to the long-lick threshold. ok is false without offsets.
func (a *Analysis) LickLengthHistogram(binWidth float64) (iter.Seq[Bin], bool) {
	return LickLengthHistogram(a.Onsets, a.Offsets, binWidth, a.Params.LongLickThreshold)
}

// BurstSizeHistogram yields the burst-size distribution
func (a *Analysis) BurstSizeHistogram() iter.Seq[Bin] {
	return BurstSizeHistogram(a.Bursts)
}

// SurvivalSeries yields the burst-size survival probabilities
func (a *Analysis) SurvivalSeries() iter.Seq[Bin] {
	return SurvivalSeries(a.Bursts)
}

// SessionHistogram yields licks per time bin of the analyzed licks
func (a *Analysis) SessionHistogram(binSize, sessionLength float64) iter.Seq[Bin] {
	return SessionHistogram(a.Onsets, binSize, sessionLength)
}
