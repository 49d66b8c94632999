package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/chrissnell/lickcalc/internal/licks"
	"github.com/chrissnell/lickcalc/internal/log"
	"github.com/chrissnell/lickcalc/pkg/config"
)

// Session is the input document: onset and optional offset times in seconds
type Session struct {
	Onsets  []float64 `json:"onsets"`
	Offsets []float64 `json:"offsets"`
}

func main() {
	var (
		cfgFile       = flag.String("config", "lickcalc.yaml", "Path to the YAML configuration file")
		input         = flag.String("input", "-", "Session JSON file ({\"onsets\": [...], \"offsets\": [...]}), - for stdin")
		epochs        = flag.String("epochs", "", "Divide the session: time, bursts, first_n_bursts, between or trial")
		n             = flag.Int("n", 3, "Number of divisions (time, bursts) or bursts (first_n_bursts)")
		sessionLength = flag.Float64("session-length", 0, "Session length in seconds for time divisions (0 = last lick)")
		start         = flag.Float64("start", 0, "Window start in seconds (between)")
		stop          = flag.Float64("stop", 0, "Window end in seconds (between)")
		minITI        = flag.Float64("min-iti", 10, "Minimum inter-trial interval in seconds (trial)")
		csvOutput     = flag.String("csv", "", "Optional CSV output file for burst details")
		debug         = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if err := log.Init(*debug, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.LoadConfig(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	for _, w := range cfg.Warnings() {
		log.Warnf("config: %s", w)
	}

	session, err := readSession(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading session: %v\n", err)
		os.Exit(1)
	}
	log.Debugw("session loaded", "onsets", len(session.Onsets), "offsets", len(session.Offsets))

	a, err := licks.Analyze(session.Onsets, session.Offsets, cfg.Params())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Lick Microstructure Analysis\n")
	fmt.Printf("============================\n\n")
	displayParams(a.Params)
	displaySummary("Session", a)

	if *epochs != "" {
		divisions, err := a.Divide(licks.EpochOptions{
			Kind:          licks.EpochKind(*epochs),
			N:             *n,
			SessionLength: *sessionLength,
			Start:         *start,
			Stop:          *stop,
			MinITI:        *minITI,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error dividing session: %v\n", err)
			os.Exit(1)
		}
		results, err := a.AnalyzeEpochs(divisions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error analyzing epochs: %v\n", err)
			os.Exit(1)
		}
		displayEpochs(results)
	}

	if *csvOutput != "" {
		if err := exportBursts(a, *csvOutput); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nBurst details written to %s\n", *csvOutput)
	}
}

func readSession(path string) (*Session, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Session
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("invalid session document: %w", err)
	}
	if s.Onsets == nil {
		return nil, errors.New("session document has no onsets")
	}
	return &s, nil
}

func displayParams(p licks.Params) {
	fmt.Printf("Parameters:\n")
	fmt.Printf("  Interburst Interval: %.3f s\n", p.BurstILIThreshold)
	if p.ClusterILIThreshold > 0 {
		fmt.Printf("  Cluster Interval: %.3f s\n", p.ClusterILIThreshold)
	}
	fmt.Printf("  Min Licks per Burst: %d\n", p.MinLicksPerBurst)
	fmt.Printf("  Long Lick Threshold: %.3f s (removal %s)\n\n", p.LongLickThreshold, onOff(p.LongLickRemoval))
}

func displaySummary(title string, a *licks.Analysis) {
	fmt.Printf("%s Summary:\n", title)
	for _, f := range a.Stats.Fields() {
		fmt.Printf("  %-22s %s\n", f.Name+":", formatField(f))
	}
	fmt.Printf("  %-22s %s\n", "mean_ibi:", formatFloat(a.MeanInterburstInterval, 3))
	if a.ClusterStats != nil {
		fmt.Printf("  %-22s %d\n", "n_clusters:", a.ClusterStats.Count)
		fmt.Printf("  %-22s %s\n", "mean_licks_per_cluster:", formatFloat(a.ClusterStats.MeanLicksPerCluster, 2))
	}
	if len(a.RemovedLongLicks) > 0 {
		fmt.Printf("  %-22s %d\n", "removed_long_licks:", len(a.RemovedLongLicks))
	}

	fmt.Printf("\nWeibull Burst Survival Fit:\n")
	if !a.Weibull.Valid() {
		fmt.Printf("  not available (needs %d bursts of at least 3 distinct sizes)\n\n", a.Params.MinBurstsForWeibull)
		return
	}
	fmt.Printf("  Alpha: %.4f\n", a.Weibull.Alpha)
	fmt.Printf("  Beta:  %.4f\n", a.Weibull.Beta)
	fmt.Printf("  R²:    %.4f\n\n", a.Weibull.RSquared)
}

func displayEpochs(results []licks.EpochResult) {
	fmt.Printf("Epochs:\n")
	fmt.Printf("%-10s %10s %10s %8s %8s %12s %12s\n", "Label", "Start", "End", "Licks", "Bursts", "Licks/Burst", "Freq (Hz)")
	fmt.Printf("%-10s %10s %10s %8s %8s %12s %12s\n", "-----", "-----", "---", "-----", "------", "-----------", "---------")
	for _, r := range results {
		s := r.Analysis.Stats
		fmt.Printf("%-10s %10.2f %10.2f %8d %8d %12s %12s\n",
			r.Epoch.Label, r.Epoch.StartTime, r.Epoch.EndTime, s.TotalLicks, s.BurstCount,
			formatFloat(s.MeanLicksPerBurst, 2), formatFloat(s.IntraburstFrequency, 2))
	}
}

func exportBursts(a *licks.Analysis, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeBursts(f, a.BurstDetails); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeBursts(out io.Writer, details []licks.BurstDetail) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"burst", "licks", "start_time", "end_time", "duration"}); err != nil {
		return err
	}
	for _, d := range details {
		record := []string{
			strconv.Itoa(d.Number),
			strconv.Itoa(d.Licks),
			strconv.FormatFloat(d.StartTime, 'f', -1, 64),
			strconv.FormatFloat(d.EndTime, 'f', -1, 64),
			strconv.FormatFloat(d.Duration, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatField(f licks.Field) string {
	if !f.Applicable {
		return "n/a"
	}
	if f.Value == math.Trunc(f.Value) && !math.IsInf(f.Value, 0) {
		return strconv.FormatFloat(f.Value, 'f', 0, 64)
	}
	return formatFloat(f.Value, 3)
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
