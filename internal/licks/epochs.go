package licks

import (
	"fmt"
	"math"
)

// EpochKind identifies how an epoch was selected
type EpochKind string

const (
	EpochTime    EpochKind = "time"
	EpochBursts  EpochKind = "bursts"
	EpochFirstN  EpochKind = "first_n_bursts"
	EpochBetween EpochKind = "between"
	EpochTrial   EpochKind = "trial"
)

// Valid reports whether k is a known epoch method
func (k EpochKind) Valid() bool {
	switch k {
	case EpochTime, EpochBursts, EpochFirstN, EpochBetween, EpochTrial:
		return true
	}
	return false
}

// EpochOptions selects how Analysis.Divide splits a session. N is the number of
// divisions for time and bursts, or the burst count for first_n_bursts.
type EpochOptions struct {
	Kind          EpochKind
	N             int
	SessionLength float64
	Start         float64
	Stop          float64
	MinITI        float64
}

// Epoch is a contiguous sub-range of a session selected for separate analysis
type Epoch struct {
	Kind      EpochKind
	Label     string
	StartTime float64
	EndTime   float64
	Range     IndexRange
}

// EpochResult pairs an epoch with the analysis of its licks
type EpochResult struct {
	Epoch    Epoch
	Analysis *Analysis
}

// TimeDivisions splits [0, L) into n equal windows, where L is sessionLength if
// positive and otherwise the last onset. The last window also takes a lick
// that lands exactly on L.
func TimeDivisions(onsets []float64, n int, sessionLength float64) ([]Epoch, error) {
	if n < 1 {
		return nil, &RangeError{Index: -1, Value: float64(n), Reason: "number of time divisions must be at least 1"}
	}
	length := sessionLength
	if !(length > 0) {
		length = 0
		if len(onsets) > 0 {
			length = onsets[len(onsets)-1]
		}
	}

	width := length / float64(n)
	epochs := make([]Epoch, n)
	for k := range n {
		start := float64(k) * width
		end := float64(k+1) * width
		if k == n-1 {
			end = length
		}
		r := LicksInWindow(onsets, start, end)
		if k == n-1 {
			r.Hi = LicksInWindow(onsets, start, math.Nextafter(end, math.Inf(1))).Hi
		}
		epochs[k] = Epoch{
			Kind:      EpochTime,
			Label:     fmt.Sprintf("T%d", k+1),
			StartTime: start,
			EndTime:   end,
			Range:     r,
		}
	}
	return epochs, nil
}

// BurstDivisions splits the bursts into n consecutive groups of near-equal size.
// Each epoch covers the licks from the first burst of its group to the last.
func BurstDivisions(onsets []float64, bursts []Burst, n int) ([]Epoch, error) {
	if n < 1 || n > len(bursts) {
		return nil, &RangeError{Index: -1, Value: float64(n),
			Reason: fmt.Sprintf("number of burst divisions must be between 1 and the burst count (%d)", len(bursts))}
	}

	epochs := make([]Epoch, 0, n)
	for k := range n {
		first := k * len(bursts) / n
		last := (k+1)*len(bursts)/n - 1
		_, r, err := LicksForBurstRange(onsets, bursts, first, last)
		if err != nil {
			return nil, err
		}
		epochs = append(epochs, Epoch{
			Kind:      EpochBursts,
			Label:     fmt.Sprintf("B%d", k+1),
			StartTime: onsets[r.Lo],
			EndTime:   onsets[r.Hi-1],
			Range:     r,
		})
	}
	return epochs, nil
}

// FirstNBursts selects the licks spanning the first n bursts. With fewer than n
// bursts every burst is used; with none the epoch is empty.
func FirstNBursts(onsets []float64, bursts []Burst, n int) (Epoch, error) {
	if n < 1 {
		return Epoch{}, &RangeError{Index: -1, Value: float64(n), Reason: "number of bursts must be at least 1"}
	}
	epoch := Epoch{Kind: EpochFirstN, Label: fmt.Sprintf("F%d", n)}
	if len(bursts) == 0 {
		return epoch, nil
	}

	_, r, err := LicksForBurstRange(onsets, bursts, 0, min(n, len(bursts))-1)
	if err != nil {
		return Epoch{}, err
	}
	epoch.Range = r
	epoch.StartTime = onsets[r.Lo]
	epoch.EndTime = onsets[r.Hi-1]
	return epoch, nil
}

// Between selects the licks with start <= t < stop
func Between(onsets []float64, start, stop float64) (Epoch, error) {
	r, err := LicksInWindowChecked(onsets, start, stop)
	if err != nil {
		return Epoch{}, err
	}
	return Epoch{
		Kind:      EpochBetween,
		Label:     fmt.Sprintf("%g-%g", start, stop),
		StartTime: start,
		EndTime:   stop,
		Range:     r,
	}, nil
}

// DetectTrials splits a session into trials. A trial starts with the first lick
// and with every lick that follows an inter-lick interval of at least minITI.
func DetectTrials(onsets []float64, minITI float64) ([]Epoch, error) {
	if !(minITI > 0) {
		return nil, &RangeError{Index: -1, Value: minITI, Reason: "minimum inter-trial interval must be positive"}
	}
	if len(onsets) == 0 {
		return []Epoch{}, nil
	}

	var epochs []Epoch
	start := 0
	for i := 1; i <= len(onsets); i++ {
		if i < len(onsets) && onsets[i]-onsets[i-1] < minITI {
			continue
		}
		epochs = append(epochs, Epoch{
			Kind:      EpochTrial,
			Label:     fmt.Sprintf("Trial %d", len(epochs)+1),
			StartTime: onsets[start],
			EndTime:   onsets[i-1],
			Range:     IndexRange{Lo: start, Hi: i},
		})
		start = i
	}
	return epochs, nil
}

// AnalyzeEpochs analyzes each epoch's licks. onsets and offsets are the
// validated, unfiltered arrays the epoch ranges index; epochs are contiguous
// slices of them so they are not re-validated. Long-lick removal runs inside
// each epoch, so its long-lick report covers the epoch's unfiltered licks.
// The Weibull fit is skipped for first-N-burst epochs, which by construction do
// not sample the whole burst-size distribution.
func AnalyzeEpochs(onsets, offsets []float64, epochs []Epoch, p Params) ([]EpochResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	results := make([]EpochResult, 0, len(epochs))
	for _, e := range epochs {
		if e.Range.Lo < 0 || e.Range.Hi > len(onsets) || e.Range.Lo > e.Range.Hi {
			return nil, &RangeError{Index: e.Range.Lo, Value: float64(e.Range.Hi),
				Reason: fmt.Sprintf("epoch %q lies outside the session", e.Label)}
		}
		sub := onsets[e.Range.Lo:e.Range.Hi]
		var subOffsets []float64
		if offsets != nil {
			var err error
			if subOffsets, err = OffsetsForRange(offsets, e.Range); err != nil {
				return nil, err
			}
		}
		results = append(results, EpochResult{
			Epoch:    e,
			Analysis: analyzeValidated(sub, subOffsets, p, e.Kind != EpochFirstN),
		})
	}
	return results, nil
}

// Divide splits the session into epochs whose ranges index a.Input. Time
// windows and trials are cut from the input onsets. Burst epochs are found on
// the analyzed licks and mapped back to the input, so a long lick removed from
// the end of a burst group stays in that group's epoch.
func (a *Analysis) Divide(o EpochOptions) ([]Epoch, error) {
	switch o.Kind {
	case EpochTime:
		return TimeDivisions(a.Input, o.N, o.SessionLength)
	case EpochBursts:
		epochs, err := BurstDivisions(a.Onsets, a.Bursts, o.N)
		if err != nil {
			return nil, err
		}
		for i := range epochs {
			epochs[i].Range = a.inputRange(epochs[i].Range)
		}
		return epochs, nil
	case EpochFirstN:
		e, err := FirstNBursts(a.Onsets, a.Bursts, o.N)
		if err != nil {
			return nil, err
		}
		e.Range = a.inputRange(e.Range)
		return []Epoch{e}, nil
	case EpochBetween:
		e, err := Between(a.Input, o.Start, o.Stop)
		if err != nil {
			return nil, err
		}
		return []Epoch{e}, nil
	case EpochTrial:
		return DetectTrials(a.Input, o.MinITI)
	}
	return nil, fmt.Errorf("unknown epoch method %q", o.Kind)
}

// AnalyzeEpochs analyzes epochs from Divide with the session's parameters
func (a *Analysis) AnalyzeEpochs(epochs []Epoch) ([]EpochResult, error) {
	return AnalyzeEpochs(a.Input, a.InputOffsets, epochs, a.Params)
}

// inputRange maps a range of analyzed licks to the input licks it spans,
// including long licks removed after its last lick and before the next
// analyzed one
func (a *Analysis) inputRange(r IndexRange) IndexRange {
	return IndexRange{Lo: a.inputIndex(r.Lo), Hi: a.inputIndex(r.Hi)}
}

// inputIndex maps an analyzed lick index to its index in a.Input, and
// len(a.Onsets) to len(a.Input). RemovedLongLicks is ascending.
func (a *Analysis) inputIndex(i int) int {
	for _, removed := range a.RemovedLongLicks {
		if removed > i {
			break
		}
		i++
	}
	return i
}
