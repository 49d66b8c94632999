package licks

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// minDistinctBurstSizes is the smallest number of distinct burst sizes that
// leaves enough survival points for a two-parameter fit.
const minDistinctBurstSizes = 3

// BurstSurvival returns the empirical survival function of burst sizes: for
// every integer n from the smallest to the largest size, the fraction of bursts
// with at least n licks.
func BurstSurvival(sizes []int) ([]float64, []float64) {
	if len(sizes) == 0 {
		return []float64{}, []float64{}
	}
	sorted := slices.Clone(sizes)
	slices.Sort(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	total := float64(len(sorted))
	ns := make([]float64, 0, hi-lo+1)
	probs := make([]float64, 0, hi-lo+1)

	// sorted[idx:] holds every burst with size >= n
	idx := 0
	for n := lo; n <= hi; n++ {
		for idx < len(sorted) && sorted[idx] < n {
			idx++
		}
		ns = append(ns, float64(n))
		probs = append(probs, float64(len(sorted)-idx)/total)
	}
	return ns, probs
}

// FitWeibull fits S(n) = exp(-(n/beta)^alpha) to the burst-size survival
// function using the log-linearized form ln(-ln S) = alpha*ln(n) - alpha*ln(beta).
// Survival points of exactly 0 or 1 are undefined under the transform and are
// skipped. With fewer than three distinct sizes, or when the fit is degenerate,
// all fields are NaN.
func FitWeibull(sizes []int) WeibullFit {
	distinct := slices.Clone(sizes)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	if len(distinct) < minDistinctBurstSizes || distinct[0] < 1 {
		return nanFit()
	}

	ns, probs := BurstSurvival(sizes)
	var xs, ys []float64
	for i, s := range probs {
		if s <= 0 || s >= 1 {
			continue
		}
		xs = append(xs, math.Log(ns[i]))
		ys = append(ys, math.Log(-math.Log(s)))
	}
	if len(xs) < 2 {
		return nanFit()
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	alpha := slope
	beta := math.Exp(-intercept / alpha)
	rsq := stat.RSquared(xs, ys, nil, intercept, slope)

	fit := WeibullFit{Alpha: alpha, Beta: beta, RSquared: rsq}
	if !finitePositive(fit.Alpha) || !finitePositive(fit.Beta) || math.IsNaN(rsq) || math.IsInf(rsq, 0) {
		return nanFit()
	}
	return fit
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
