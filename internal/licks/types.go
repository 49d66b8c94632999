// Package licks implements lick microstructure analysis: validation of lick
// timestamps, burst and cluster segmentation, session statistics, long-lick
// detection and the Weibull burst survival fit.
//
// Every function in this package is a pure function of its arguments. Nothing
// is cached between calls and no input slice is modified.
package licks

import "math"

// Burst is a run of consecutive licks whose inter-lick intervals are all at or
// below the segmentation threshold. Start and End are inclusive onset indices.
type Burst struct {
	Start int
	End   int
	Licks int
}

// Contains reports whether onset index i falls inside the burst
func (b Burst) Contains(i int) bool {
	return i >= b.Start && i <= b.End
}

// IndexRange is a half-open range [Lo, Hi) of onset indices
type IndexRange struct {
	Lo int
	Hi int
}

// Len returns the number of indices in the range
func (r IndexRange) Len() int {
	if r.Hi <= r.Lo {
		return 0
	}
	return r.Hi - r.Lo
}

// LongLickStats describes licks whose duration exceeded the long-lick threshold.
// It is only available when offsets were supplied.
type LongLickStats struct {
	Count       int
	MaxDuration float64 // longest lick duration in the session, seconds
}

// SegmentStats is the summary of one analyzed segment (a whole session or an epoch)
type SegmentStats struct {
	TotalLicks          int
	BurstCount          int
	MeanLicksPerBurst   float64 // NaN when there are no bursts
	IntraburstFrequency float64 // Hz; NaN when no intraburst intervals exist

	// LongLicks is nil when offsets were not supplied ("not applicable")
	LongLicks *LongLickStats
}

// Field is one named value of a flattened SegmentStats record
type Field struct {
	Name       string
	Value      float64
	Applicable bool
}

// Fields flattens the stats into an ordered list of named values for display
// and export layers. Long-lick fields are marked not applicable without offsets.
func (s SegmentStats) Fields() []Field {
	fields := []Field{
		{Name: "total_licks", Value: float64(s.TotalLicks), Applicable: true},
		{Name: "n_bursts", Value: float64(s.BurstCount), Applicable: true},
		{Name: "mean_licks_per_burst", Value: s.MeanLicksPerBurst, Applicable: true},
		{Name: "intraburst_freq", Value: s.IntraburstFrequency, Applicable: true},
	}
	if s.LongLicks == nil {
		fields = append(fields,
			Field{Name: "n_long_licks", Value: math.NaN()},
			Field{Name: "max_lick_duration", Value: math.NaN()},
		)
		return fields
	}
	return append(fields,
		Field{Name: "n_long_licks", Value: float64(s.LongLicks.Count), Applicable: true},
		Field{Name: "max_lick_duration", Value: s.LongLicks.MaxDuration, Applicable: true},
	)
}

// WeibullFit holds the parameters of S(n) = exp(-(n/Beta)^Alpha) fitted to the
// burst-size survival function. All three fields are NaN when no fit was possible.
type WeibullFit struct {
	Alpha    float64 // shape
	Beta     float64 // scale
	RSquared float64
}

// Valid reports whether the fit produced finite parameters
func (w WeibullFit) Valid() bool {
	return !math.IsNaN(w.Alpha) && !math.IsNaN(w.Beta) && !math.IsNaN(w.RSquared)
}

func nanFit() WeibullFit {
	return WeibullFit{Alpha: math.NaN(), Beta: math.NaN(), RSquared: math.NaN()}
}

// BurstDetail describes one burst in time units
type BurstDetail struct {
	Number    int // 1-based
	Licks     int
	StartTime float64
	EndTime   float64
	Duration  float64
}
