package licks

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"
)

func TestAnalyzeEmptySession(t *testing.T) {
	a, err := Analyze([]float64{}, nil, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Stats.TotalLicks != 0 || a.Stats.BurstCount != 0 {
		t.Errorf("expected an empty summary, got %+v", a.Stats)
	}
	if !math.IsNaN(a.Stats.MeanLicksPerBurst) || !math.IsNaN(a.Stats.IntraburstFrequency) {
		t.Errorf("expected NaN mean and frequency, got %+v", a.Stats)
	}
	if a.Weibull.Valid() || !math.IsNaN(a.MeanInterburstInterval) {
		t.Errorf("expected no fit and no interburst mean, got %+v %v", a.Weibull, a.MeanInterburstInterval)
	}
	if len(a.Bursts) != 0 || len(a.InterburstIntervals) != 0 {
		t.Errorf("expected no bursts, got %+v", a.Bursts)
	}
}

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	p := testParams()

	tests := []struct {
		name    string
		onsets  []float64
		offsets []float64
		params  Params
		check   func(error) bool
	}{
		{
			name:   "unordered onsets",
			onsets: []float64{0, 0.2, 0.1},
			params: p,
			check: func(err error) bool {
				var e *OrderingError
				return errors.As(err, &e) && e.Index == 2
			},
		},
		{
			name:    "offset count mismatch",
			onsets:  []float64{0, 0.2},
			offsets: []float64{0.1},
			params:  p,
			check: func(err error) bool {
				var e *LengthMismatchError
				return errors.As(err, &e)
			},
		},
		{
			name:   "zero burst threshold",
			onsets: []float64{0, 0.2},
			params: Params{BurstILIThreshold: 0, MinLicksPerBurst: 1, LongLickThreshold: 0.3},
			check:  func(err error) bool { return errors.Is(err, ErrInvalidParams) },
		},
		{
			name:   "cluster threshold below burst threshold",
			onsets: []float64{0, 0.2},
			params: Params{BurstILIThreshold: 0.5, ClusterILIThreshold: 0.2, MinLicksPerBurst: 1, LongLickThreshold: 0.3},
			check:  func(err error) bool { return errors.Is(err, ErrInvalidParams) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(tt.onsets, tt.offsets, tt.params)
			if a != nil {
				t.Errorf("expected no result, got %+v", a)
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	// bursts of 1, 2, 3 and 4 licks separated by roughly two seconds
	onsets := []float64{0, 2, 2.1, 4, 4.1, 4.2, 6, 6.1, 6.2, 6.3}
	input := slices.Clone(onsets)

	p := testParams()
	p.ClusterILIThreshold = 1.95
	p.MinBurstsForWeibull = 3

	a, err := Analyze(onsets, nil, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(onsets, input) {
		t.Errorf("input was modified: %v", onsets)
	}

	if got := BurstSizes(a.Bursts); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("burst sizes = %v", got)
	}
	if !a.Weibull.Valid() {
		t.Errorf("expected a Weibull fit with four bursts, got %+v", a.Weibull)
	}
	if a.Stats.LongLicks != nil {
		t.Errorf("long licks should not be applicable without offsets")
	}

	if a.ClusterStats == nil || a.ClusterStats.Count != 2 || a.ClusterStats.MeanLicksPerCluster != 5 {
		t.Errorf("unexpected cluster stats: %+v", a.ClusterStats)
	}

	if len(a.InterburstIntervals) != 3 || math.Abs(a.MeanInterburstInterval-1.9) > 1e-9 {
		t.Errorf("interburst intervals = %v, mean %v", a.InterburstIntervals, a.MeanInterburstInterval)
	}
	last := a.BurstDetails[3]
	if last.Number != 4 || last.Licks != 4 || last.StartTime != 6 || math.Abs(last.Duration-0.3) > 1e-9 {
		t.Errorf("unexpected burst detail: %+v", last)
	}

	p.MinBurstsForWeibull = 10
	gated, err := Analyze(onsets, nil, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gated.Weibull.Valid() {
		t.Errorf("expected no Weibull fit below the minimum burst count, got %+v", gated.Weibull)
	}

	p.ClusterILIThreshold = 0
	noClusters, err := Analyze(onsets, nil, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noClusters.Clusters != nil || noClusters.ClusterStats != nil {
		t.Error("expected clusters to be disabled")
	}
}

func TestAnalyzeWithLongLickRemoval(t *testing.T) {
	onsets := []float64{0, 0.2, 0.5, 0.8, 1.0}
	offsets := []float64{0.05, 0.25, 0.8, 0.85, 1.05}

	p := testParams()
	p.LongLickThreshold = 0.25
	p.LongLickRemoval = true

	a, err := Analyze(onsets, offsets, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a.RemovedLongLicks, []int{2}) {
		t.Errorf("removed = %v, expected [2]", a.RemovedLongLicks)
	}
	if len(a.Onsets) != 4 || len(a.Offsets) != 4 {
		t.Errorf("expected 4 analyzed licks, got %d/%d", len(a.Onsets), len(a.Offsets))
	}
	if len(a.Bursts) != 2 {
		t.Errorf("expected removal to split the session into 2 bursts, got %d", len(a.Bursts))
	}
	if a.Stats.LongLicks == nil || a.Stats.LongLicks.Count != 1 {
		t.Errorf("expected the removed lick to be counted, got %+v", a.Stats.LongLicks)
	}

	p.LongLickRemoval = false
	kept, err := Analyze(onsets, offsets, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept.RemovedLongLicks) != 0 || len(kept.Bursts) != 1 {
		t.Errorf("expected no removal and a single burst, got %v, %d bursts", kept.RemovedLongLicks, len(kept.Bursts))
	}
}
