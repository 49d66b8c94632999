package licks

// Segment partitions onsets into bursts. A run grows while the next inter-lick
// interval is <= iliThreshold and closes at the first larger interval or at the
// end of the sequence. Runs with fewer than minLicks licks are dropped; their
// licks are excluded from burst statistics but still belong to the session.
//
// Clusters are produced by calling Segment with the cluster threshold.
func Segment(onsets []float64, iliThreshold float64, minLicks int) []Burst {
	bursts := []Burst{}
	n := len(onsets)
	if n == 0 {
		return bursts
	}
	if minLicks < 1 {
		minLicks = 1
	}

	start := 0
	for i := 1; i <= n; i++ {
		// i == n closes the final run
		if i < n && onsets[i]-onsets[i-1] <= iliThreshold {
			continue
		}
		if count := i - start; count >= minLicks {
			bursts = append(bursts, Burst{Start: start, End: i - 1, Licks: count})
		}
		start = i
	}

	return bursts
}

// Excluded returns the onset indices in [0, n) that belong to no burst, in order
func Excluded(n int, bursts []Burst) []int {
	excluded := []int{}
	next := 0
	for _, b := range bursts {
		for i := next; i < b.Start && i < n; i++ {
			excluded = append(excluded, i)
		}
		next = b.End + 1
	}
	for i := next; i < n; i++ {
		excluded = append(excluded, i)
	}
	return excluded
}

// BurstSizes returns the lick count of each burst
func BurstSizes(bursts []Burst) []int {
	sizes := make([]int, len(bursts))
	for i, b := range bursts {
		sizes[i] = b.Licks
	}
	return sizes
}

// InterLickIntervals returns the n-1 gaps between consecutive onsets
func InterLickIntervals(onsets []float64) []float64 {
	if len(onsets) < 2 {
		return []float64{}
	}
	ilis := make([]float64, len(onsets)-1)
	for i := 1; i < len(onsets); i++ {
		ilis[i-1] = onsets[i] - onsets[i-1]
	}
	return ilis
}

// intraburstIntervals returns every ILI whose two licks belong to the same burst
func intraburstIntervals(onsets []float64, bursts []Burst) []float64 {
	var ilis []float64
	for _, b := range bursts {
		for i := b.Start + 1; i <= b.End; i++ {
			ilis = append(ilis, onsets[i]-onsets[i-1])
		}
	}
	return ilis
}
