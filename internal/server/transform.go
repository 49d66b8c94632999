package server

import (
	"iter"
	"math"

	"github.com/chrissnell/lickcalc/internal/licks"
	"github.com/chrissnell/lickcalc/internal/store"
	"github.com/chrissnell/lickcalc/pkg/config"
)

// floatPtr returns nil for NaN and infinities, which JSON cannot carry
func floatPtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func paramsToDTO(p licks.Params) ParamsDTO {
	return ParamsDTO{
		InterburstInterval:  p.BurstILIThreshold,
		ClusterInterval:     p.ClusterILIThreshold,
		MinLicksPerBurst:    p.MinLicksPerBurst,
		LongLickThreshold:   p.LongLickThreshold,
		RemoveLongLicks:     p.LongLickRemoval,
		MinBurstsForWeibull: p.MinBurstsForWeibull,
	}
}

func statsToDTO(s licks.SegmentStats) StatsDTO {
	dto := StatsDTO{
		TotalLicks:          s.TotalLicks,
		BurstCount:          s.BurstCount,
		MeanLicksPerBurst:   floatPtr(s.MeanLicksPerBurst),
		IntraburstFrequency: floatPtr(s.IntraburstFrequency),
	}
	if s.LongLicks != nil {
		dto.LongLicksApplicable = true
		dto.LongLicks = &LongLicksDTO{
			Count:       s.LongLicks.Count,
			MaxDuration: floatPtr(s.LongLicks.MaxDuration),
		}
	}
	return dto
}

func weibullToDTO(w licks.WeibullFit) WeibullDTO {
	return WeibullDTO{
		Alpha:    floatPtr(w.Alpha),
		Beta:     floatPtr(w.Beta),
		RSquared: floatPtr(w.RSquared),
	}
}

func burstsToDTO(details []licks.BurstDetail) []BurstDTO {
	out := make([]BurstDTO, len(details))
	for i, d := range details {
		out[i] = BurstDTO{
			Number:    d.Number,
			Licks:     d.Licks,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Duration:  d.Duration,
		}
	}
	return out
}

func binsToDTO(seq iter.Seq[licks.Bin]) []BinDTO {
	out := []BinDTO{}
	for b := range seq {
		out = append(out, BinDTO{X: b.Center, Y: b.Value})
	}
	return out
}

// histogramsToDTO renders every plotting series of an analysis with the
// configured bin layout
func histogramsToDTO(a *licks.Analysis, h config.HistogramConfig, sessionLength float64) *HistogramsDTO {
	dto := &HistogramsDTO{
		Session:   binsToDTO(a.SessionHistogram(h.SessionBinSize, sessionLength)),
		ILI:       binsToDTO(a.ILIHistogram(h.ILIBins, h.ILIMax)),
		BurstSize: binsToDTO(a.BurstSizeHistogram()),
		Survival:  binsToDTO(a.SurvivalSeries()),
	}
	if seq, ok := a.LickLengthHistogram(h.LickLengthBinSize); ok {
		dto.LickLength = binsToDTO(seq)
	}
	return dto
}

func analysisToResponse(req *AnalyzeRequest, a *licks.Analysis) *AnalysisResponse {
	resp := &AnalysisResponse{
		AnimalID:               req.AnimalID,
		Source:                 req.Source,
		Params:                 paramsToDTO(a.Params),
		Stats:                  statsToDTO(a.Stats),
		Weibull:                weibullToDTO(a.Weibull),
		Bursts:                 burstsToDTO(a.BurstDetails),
		ExcludedLicks:          len(a.Excluded),
		RemovedLongLicks:       a.RemovedLongLicks,
		InterburstIntervals:    a.InterburstIntervals,
		MeanInterburstInterval: floatPtr(a.MeanInterburstInterval),
	}
	if a.ClusterStats != nil {
		resp.Clusters = &ClustersDTO{
			Count:               a.ClusterStats.Count,
			MeanLicksPerCluster: floatPtr(a.ClusterStats.MeanLicksPerCluster),
		}
	}
	return resp
}

func epochToDTO(r licks.EpochResult) EpochDTO {
	return EpochDTO{
		Kind:                   string(r.Epoch.Kind),
		Label:                  r.Epoch.Label,
		StartTime:              r.Epoch.StartTime,
		EndTime:                r.Epoch.EndTime,
		Stats:                  statsToDTO(r.Analysis.Stats),
		Weibull:                weibullToDTO(r.Analysis.Weibull),
		MeanInterburstInterval: floatPtr(r.Analysis.MeanInterburstInterval),
	}
}

func recordToDTO(r store.Record) ResultDTO {
	return ResultDTO{
		ID:                     r.ID.String(),
		CreatedAt:              r.CreatedAt,
		AnimalID:               r.AnimalID,
		Source:                 r.Source,
		Epoch:                  r.Epoch,
		Params:                 paramsToDTO(r.Params),
		Stats:                  statsToDTO(r.Stats),
		Weibull:                weibullToDTO(r.Weibull),
		MeanInterburstInterval: floatPtr(r.MeanInterburstInterval),
	}
}

// applyOverrides returns the configured parameters with any request
// overrides applied
func applyOverrides(base licks.Params, o *ParamsOverride) licks.Params {
	if o == nil {
		return base
	}
	p := base
	if o.InterburstInterval != nil {
		p.BurstILIThreshold = *o.InterburstInterval
	}
	if o.ClusterInterval != nil {
		p.ClusterILIThreshold = *o.ClusterInterval
	}
	if o.MinLicksPerBurst != nil {
		p.MinLicksPerBurst = *o.MinLicksPerBurst
	}
	if o.LongLickThreshold != nil {
		p.LongLickThreshold = *o.LongLickThreshold
	}
	if o.RemoveLongLicks != nil {
		p.LongLickRemoval = *o.RemoveLongLicks
	}
	if o.MinBurstsForWeibull != nil {
		p.MinBurstsForWeibull = *o.MinBurstsForWeibull
	}
	return p
}

func epochOptions(e *EpochRequest) licks.EpochOptions {
	return licks.EpochOptions{
		Kind:          licks.EpochKind(e.Method),
		N:             e.N,
		SessionLength: e.SessionLength,
		Start:         e.Start,
		Stop:          e.Stop,
		MinITI:        e.MinITI,
	}
}
