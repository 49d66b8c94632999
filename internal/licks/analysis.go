package licks

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ClusterStats summarizes cluster segmentation
type ClusterStats struct {
	Count               int
	MeanLicksPerCluster float64 // NaN when there are no clusters
}

// Analysis is the full result of analyzing one session or epoch
type Analysis struct {
	Params Params

	// Input and InputOffsets are the validated arrays as supplied
	Input        []float64
	InputOffsets []float64

	// Onsets and Offsets are the analyzed arrays: the input after long-lick
	// removal. Offsets is nil when none were supplied.
	Onsets  []float64
	Offsets []float64

	// RemovedLongLicks holds input indices dropped by long-lick removal
	RemovedLongLicks []int

	Bursts   []Burst
	Excluded []int

	// Clusters is nil when cluster segmentation is disabled
	Clusters     []Burst
	ClusterStats *ClusterStats

	Stats   SegmentStats
	Weibull WeibullFit

	BurstDetails           []BurstDetail
	InterburstIntervals    []float64
	MeanInterburstInterval float64 // NaN with fewer than two bursts
}

// Analyze validates onsets (and offsets when non-nil) and runs the complete
// microstructure analysis. Validation failures are returned unchanged and no
// partial result is produced.
func Analyze(onsets, offsets []float64, p Params) (*Analysis, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateOnsetTimes(onsets); err != nil {
		return nil, err
	}
	if offsets != nil {
		if err := ValidateOnsetOffsetPairs(onsets, offsets); err != nil {
			return nil, err
		}
	}
	return analyzeValidated(onsets, offsets, p, true), nil
}

// analyzeValidated runs the pipeline on arrays that already passed validation.
// Long licks are removed before segmentation so removal moves burst boundaries.
func analyzeValidated(onsets, offsets []float64, p Params, fitWeibull bool) *Analysis {
	analyzed, analyzedOffsets, removed := onsets, offsets, []int{}
	if p.LongLickRemoval && offsets != nil {
		analyzed, analyzedOffsets, removed = RemoveLongLicks(onsets, offsets, p.LongLickThreshold)
	}

	bursts := Segment(analyzed, p.BurstILIThreshold, p.MinLicksPerBurst)

	a := &Analysis{
		Params:                 p,
		Input:                  onsets,
		InputOffsets:           offsets,
		Onsets:                 analyzed,
		Offsets:                analyzedOffsets,
		RemovedLongLicks:       removed,
		Bursts:                 bursts,
		Excluded:               Excluded(len(analyzed), bursts),
		Stats:                  segmentStats(onsets, offsets, analyzed, bursts, p.LongLickThreshold),
		Weibull:                nanFit(),
		MeanInterburstInterval: math.NaN(),
	}

	if fitWeibull && len(bursts) >= p.MinBurstsForWeibull {
		a.Weibull = FitWeibull(BurstSizes(bursts))
	}

	if p.clustersEnabled() {
		a.Clusters = Segment(analyzed, p.ClusterILIThreshold, p.MinLicksPerBurst)
		a.ClusterStats = &ClusterStats{Count: len(a.Clusters), MeanLicksPerCluster: math.NaN()}
		if len(a.Clusters) > 0 {
			sizes := make([]float64, len(a.Clusters))
			for i, c := range a.Clusters {
				sizes[i] = float64(c.Licks)
			}
			a.ClusterStats.MeanLicksPerCluster = stat.Mean(sizes, nil)
		}
	}

	a.BurstDetails = burstDetails(analyzed, bursts)
	a.InterburstIntervals = interburstIntervals(analyzed, bursts)
	if len(a.InterburstIntervals) > 0 {
		a.MeanInterburstInterval = stat.Mean(a.InterburstIntervals, nil)
	}

	return a
}

func burstDetails(onsets []float64, bursts []Burst) []BurstDetail {
	details := make([]BurstDetail, len(bursts))
	for i, b := range bursts {
		start, end := onsets[b.Start], onsets[b.End]
		details[i] = BurstDetail{
			Number:    i + 1,
			Licks:     b.Licks,
			StartTime: start,
			EndTime:   end,
			Duration:  end - start,
		}
	}
	return details
}

// interburstIntervals returns the gap between the last lick of each burst and
// the first lick of the next one
func interburstIntervals(onsets []float64, bursts []Burst) []float64 {
	if len(bursts) < 2 {
		return []float64{}
	}
	ibis := make([]float64, len(bursts)-1)
	for i := 1; i < len(bursts); i++ {
		ibis[i-1] = onsets[bursts[i].Start] - onsets[bursts[i-1].End]
	}
	return ibis
}
