package server

import "time"

// ValidateRequest is the body of POST /api/v1/validate
type ValidateRequest struct {
	Onsets  []float64 `json:"onsets"`
	Offsets []float64 `json:"offsets"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze. Offsets is optional;
// an absent or null offsets field means no offsets were recorded.
type AnalyzeRequest struct {
	AnimalID   string          `json:"animal_id"`
	Source     string          `json:"source"`
	Onsets     []float64       `json:"onsets"`
	Offsets    []float64       `json:"offsets"`
	Params     *ParamsOverride `json:"params"`
	Histograms bool            `json:"histograms"`
	Epochs     *EpochRequest   `json:"epochs"`
	Save       bool            `json:"save"`
}

// ParamsOverride replaces individual configured analysis parameters
type ParamsOverride struct {
	InterburstInterval  *float64 `json:"interburst_interval"`
	ClusterInterval     *float64 `json:"cluster_interval"`
	MinLicksPerBurst    *int     `json:"min_licks_per_burst"`
	LongLickThreshold   *float64 `json:"long_lick_threshold"`
	RemoveLongLicks     *bool    `json:"remove_long_licks"`
	MinBurstsForWeibull *int     `json:"min_bursts_for_weibull"`
}

// EpochRequest asks for the session to be divided and each part analyzed.
// Method is one of time, bursts, first_n_bursts, between or trial.
type EpochRequest struct {
	Method        string  `json:"method"`
	N             int     `json:"n"`
	SessionLength float64 `json:"session_length"`
	Start         float64 `json:"start"`
	Stop          float64 `json:"stop"`
	MinITI        float64 `json:"min_iti"`
}

// ParamsDTO echoes the parameters an analysis was run with
type ParamsDTO struct {
	InterburstInterval  float64 `json:"interburst_interval"`
	ClusterInterval     float64 `json:"cluster_interval"`
	MinLicksPerBurst    int     `json:"min_licks_per_burst"`
	LongLickThreshold   float64 `json:"long_lick_threshold"`
	RemoveLongLicks     bool    `json:"remove_long_licks"`
	MinBurstsForWeibull int     `json:"min_bursts_for_weibull"`
}

// LongLicksDTO is present only when offsets were supplied
type LongLicksDTO struct {
	Count       int      `json:"n_long_licks"`
	MaxDuration *float64 `json:"max_lick_duration"`
}

// StatsDTO is the session summary. Undefined values are null.
type StatsDTO struct {
	TotalLicks          int           `json:"total_licks"`
	BurstCount          int           `json:"n_bursts"`
	MeanLicksPerBurst   *float64      `json:"mean_licks_per_burst"`
	IntraburstFrequency *float64      `json:"intraburst_freq"`
	LongLicksApplicable bool          `json:"long_licks_applicable"`
	LongLicks           *LongLicksDTO `json:"long_licks,omitempty"`
}

// WeibullDTO holds the burst survival fit; all fields are null without a fit
type WeibullDTO struct {
	Alpha    *float64 `json:"alpha"`
	Beta     *float64 `json:"beta"`
	RSquared *float64 `json:"r_squared"`
}

// BurstDTO describes one burst
type BurstDTO struct {
	Number    int     `json:"number"`
	Licks     int     `json:"licks"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
}

// ClustersDTO summarizes cluster segmentation
type ClustersDTO struct {
	Count               int      `json:"n_clusters"`
	MeanLicksPerCluster *float64 `json:"mean_licks_per_cluster"`
}

// BinDTO is one histogram point
type BinDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HistogramsDTO holds the plotting series of an analysis
type HistogramsDTO struct {
	Session    []BinDTO `json:"session"`
	ILI        []BinDTO `json:"ili"`
	LickLength []BinDTO `json:"lick_length,omitempty"`
	BurstSize  []BinDTO `json:"burst_size"`
	Survival   []BinDTO `json:"survival"`
}

// EpochDTO is the analysis of one epoch
type EpochDTO struct {
	Kind                   string     `json:"kind"`
	Label                  string     `json:"label"`
	StartTime              float64    `json:"start_time"`
	EndTime                float64    `json:"end_time"`
	Stats                  StatsDTO   `json:"stats"`
	Weibull                WeibullDTO `json:"weibull"`
	MeanInterburstInterval *float64   `json:"mean_interburst_interval"`
	ResultID               string     `json:"result_id,omitempty"`
}

// AnalysisResponse is the body returned by POST /api/v1/analyze
type AnalysisResponse struct {
	ResultID               string         `json:"result_id,omitempty"`
	AnimalID               string         `json:"animal_id,omitempty"`
	Source                 string         `json:"source,omitempty"`
	Params                 ParamsDTO      `json:"params"`
	Stats                  StatsDTO       `json:"stats"`
	Weibull                WeibullDTO     `json:"weibull"`
	Bursts                 []BurstDTO     `json:"bursts"`
	ExcludedLicks          int            `json:"excluded_licks"`
	RemovedLongLicks       []int          `json:"removed_long_licks"`
	Clusters               *ClustersDTO   `json:"clusters,omitempty"`
	InterburstIntervals    []float64      `json:"interburst_intervals"`
	MeanInterburstInterval *float64       `json:"mean_interburst_interval"`
	Histograms             *HistogramsDTO `json:"histograms,omitempty"`
	Epochs                 []EpochDTO     `json:"epochs,omitempty"`
}

// ResultDTO is one stored row of the results table
type ResultDTO struct {
	ID                     string     `json:"id"`
	CreatedAt              time.Time  `json:"created_at"`
	AnimalID               string     `json:"animal_id"`
	Source                 string     `json:"source"`
	Epoch                  string     `json:"epoch"`
	Params                 ParamsDTO  `json:"params"`
	Stats                  StatsDTO   `json:"stats"`
	Weibull                WeibullDTO `json:"weibull"`
	MeanInterburstInterval *float64   `json:"mean_interburst_interval"`
}

// ResultsResponse is the body returned by GET /api/v1/results
type ResultsResponse struct {
	Results []ResultDTO `json:"results"`
}
