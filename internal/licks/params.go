package licks

import (
	"fmt"
	"math"
)

// Params controls a microstructure analysis. There are no package defaults;
// callers (normally pkg/config) supply every value explicitly.
type Params struct {
	// BurstILIThreshold is the largest inter-lick interval, in seconds, that keeps
	// two licks in the same burst. An interval equal to the threshold does not split.
	BurstILIThreshold float64

	// ClusterILIThreshold is the coarser gap used for clusters. Zero, or a value
	// equal to BurstILIThreshold, disables cluster segmentation.
	ClusterILIThreshold float64

	// MinLicksPerBurst discards runs with fewer licks than this from burst statistics
	MinLicksPerBurst int

	// LongLickThreshold is the lick duration, in seconds, above which a lick is long
	LongLickThreshold float64

	// LongLickRemoval drops long licks before segmentation. Has no effect without offsets.
	LongLickRemoval bool

	// MinBurstsForWeibull is the burst count below which the Weibull fit is
	// reported as NaN. Zero disables the gate.
	MinBurstsForWeibull int
}

// Validate checks the hard limits of each parameter
func (p Params) Validate() error {
	if !(p.BurstILIThreshold > 0) || math.IsInf(p.BurstILIThreshold, 0) {
		return fmt.Errorf("%w: burst ILI threshold must be a positive number of seconds, got %v", ErrInvalidParams, p.BurstILIThreshold)
	}
	if p.ClusterILIThreshold != 0 && (p.ClusterILIThreshold < p.BurstILIThreshold || math.IsInf(p.ClusterILIThreshold, 0) || math.IsNaN(p.ClusterILIThreshold)) {
		return fmt.Errorf("%w: cluster ILI threshold (%v) must be 0 or at least the burst ILI threshold (%v)",
			ErrInvalidParams, p.ClusterILIThreshold, p.BurstILIThreshold)
	}
	if p.MinLicksPerBurst < 1 {
		return fmt.Errorf("%w: minimum licks per burst must be at least 1, got %d", ErrInvalidParams, p.MinLicksPerBurst)
	}
	if !(p.LongLickThreshold > 0) || math.IsInf(p.LongLickThreshold, 0) {
		return fmt.Errorf("%w: long lick threshold must be a positive number of seconds, got %v", ErrInvalidParams, p.LongLickThreshold)
	}
	if p.MinBurstsForWeibull < 0 {
		return fmt.Errorf("%w: minimum bursts for Weibull fit must not be negative, got %d", ErrInvalidParams, p.MinBurstsForWeibull)
	}
	return nil
}

// clustersEnabled reports whether a distinct cluster threshold was configured
func (p Params) clustersEnabled() bool {
	return p.ClusterILIThreshold > 0 && p.ClusterILIThreshold != p.BurstILIThreshold
}
