package licks

import (
	"math"
	"testing"
)

func TestBurstSurvival(t *testing.T) {
	ns, probs := BurstSurvival([]int{3, 1, 2, 2})

	expectedN := []float64{1, 2, 3}
	expectedS := []float64{1, 0.75, 0.25}
	if len(ns) != len(expectedN) || len(probs) != len(expectedS) {
		t.Fatalf("expected %d points, got %d/%d", len(expectedN), len(ns), len(probs))
	}
	for i := range ns {
		if ns[i] != expectedN[i] || math.Abs(probs[i]-expectedS[i]) > 1e-12 {
			t.Errorf("point %d: got (%v, %v), expected (%v, %v)", i, ns[i], probs[i], expectedN[i], expectedS[i])
		}
	}

	if ns, probs := BurstSurvival(nil); len(ns) != 0 || len(probs) != 0 {
		t.Errorf("expected no points for empty input, got %v %v", ns, probs)
	}
}

func TestFitWeibullInsufficientData(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
	}{
		{name: "no bursts", sizes: nil},
		{name: "one size", sizes: []int{4, 4, 4, 4}},
		{name: "two distinct sizes", sizes: []int{2, 5, 2, 5, 5, 2, 2}},
		{name: "invalid zero size", sizes: []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit := FitWeibull(tt.sizes)
			if !math.IsNaN(fit.Alpha) || !math.IsNaN(fit.Beta) || !math.IsNaN(fit.RSquared) {
				t.Errorf("expected NaN fit, got %+v", fit)
			}
			if fit.Valid() {
				t.Error("NaN fit reported as valid")
			}
		})
	}
}

func TestFitWeibullThreeSizes(t *testing.T) {
	// survival points (2, 2/3) and (3, 1/3) after dropping S(1) = 1
	fit := FitWeibull([]int{1, 2, 3})

	if math.Abs(fit.Alpha-2.4583) > 1e-3 {
		t.Errorf("Alpha = %.4f, expected 2.4583", fit.Alpha)
	}
	if math.Abs(fit.Beta-2.8873) > 1e-3 {
		t.Errorf("Beta = %.4f, expected 2.8873", fit.Beta)
	}
	if math.Abs(fit.RSquared-1) > 1e-9 {
		t.Errorf("RSquared = %v, expected 1 for two exact points", fit.RSquared)
	}
}

func TestFitWeibullGeometricBursts(t *testing.T) {
	var sizes []int
	for size, count := range map[int]int{1: 16, 2: 8, 3: 4, 4: 2, 5: 1} {
		for range count {
			sizes = append(sizes, size)
		}
	}

	fit := FitWeibull(sizes)
	if !fit.Valid() {
		t.Fatalf("expected a valid fit, got %+v", fit)
	}
	if fit.Alpha < 1 || fit.Alpha > 2.5 {
		t.Errorf("Alpha = %.3f outside the expected range", fit.Alpha)
	}
	if fit.RSquared < 0.95 {
		t.Errorf("RSquared = %.3f, expected a close fit", fit.RSquared)
	}
	if math.IsInf(fit.Beta, 0) || fit.Beta <= 0 {
		t.Errorf("Beta = %v, expected a finite positive scale", fit.Beta)
	}

	// order of the sizes must not matter
	reversed := make([]int, len(sizes))
	for i, s := range sizes {
		reversed[len(sizes)-1-i] = s
	}
	if again := FitWeibull(reversed); again != fit {
		t.Errorf("fit depends on input order: %+v vs %+v", again, fit)
	}
}
