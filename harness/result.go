// Package harness runs an external engine binary over benchmark source
// files and reduces the scraped timings into comparable per-mode results.
package harness

// TrialResult holds one timed engine execution. OK is false when the
// engine output carried no parseable timing line; such trials are dropped
// by the aggregator.
type TrialResult struct {
	ElapsedMs float64
	OK        bool
}

// ModeResult aggregates the successful trials of one (benchmark, mode)
// pair. TrialsMs holds the successful timings in execution order; when it
// is empty the benchmark produced nothing usable under this mode and must
// be excluded from the summary rather than reported as zero.
type ModeResult struct {
	Mode     string    `json:"mode"`
	MedianMs float64   `json:"median_ms"`
	TrialsMs []float64 `json:"trials_ms"`
}

// Missing reports whether no trial of this mode produced a timing.
func (m ModeResult) Missing() bool {
	return len(m.TrialsMs) == 0
}

// SpeedupRecord compares one benchmark across the two modes.
type SpeedupRecord struct {
	Name        string  `json:"name"`
	BaselineMs  float64 `json:"baseline_ms"`
	AlternateMs float64 `json:"alternate_ms"`
	Speedup     float64 `json:"speedup"`
}

// Summary is the aggregate over the full, final record set.
type Summary struct {
	BaselineName  string          `json:"baseline_name"`
	AlternateName string          `json:"alternate_name"`
	Records       []SpeedupRecord `json:"records"`
	MeanSpeedup   float64         `json:"mean_speedup"`
	Target        float64         `json:"target"`
	Pass          bool            `json:"pass"`
}
