package harness

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Aggregate runs warmup unrecorded executions followed by trials timed
// executions of one (benchmark, mode) pair and reduces the successful
// timings to their median. Trials run back to back, never concurrently,
// so they do not contend with each other for the machine.
func (r *Runner) Aggregate(
	ctx context.Context,
	file string,
	mode Mode,
	trials, warmup int,
) (ModeResult, error) {
	for i := 0; i < warmup; i++ {
		if _, err := r.RunTrial(ctx, file, mode); err != nil {
			return ModeResult{}, fmt.Errorf("warmup %s: %w", file, err)
		}
	}

	result := ModeResult{Mode: mode.Name}

	for i := 0; i < trials; i++ {
		trial, err := r.RunTrial(ctx, file, mode)
		if err != nil {
			return ModeResult{}, fmt.Errorf(
				"trial %d of %s: %w", i+1, file, err,
			)
		}

		if !trial.OK {
			continue
		}

		result.TrialsMs = append(result.TrialsMs, trial.ElapsedMs)
	}

	if result.Missing() {
		r.Logger.Warn("no successful trials",
			slog.String("file", file),
			slog.String("mode", mode.Name),
		)

		return result, nil
	}

	result.MedianMs = Median(result.TrialsMs)

	return result, nil
}

// Speedup derives the baseline/alternate ratio for one benchmark. The
// record exists only when both modes produced timings and the alternate
// median is positive; otherwise ok is false and the benchmark is left out
// of the summary entirely, never reported with a fabricated ratio.
func Speedup(name string, baseline, alternate ModeResult) (SpeedupRecord, bool) {
	if baseline.Missing() || alternate.Missing() || alternate.MedianMs <= 0 {
		return SpeedupRecord{}, false
	}

	return SpeedupRecord{
		Name:        name,
		BaselineMs:  baseline.MedianMs,
		AlternateMs: alternate.MedianMs,
		Speedup:     baseline.MedianMs / alternate.MedianMs,
	}, true
}

// Summarize reduces the full record set to its mean speedup and the
// verdict against the target ratio. Call it once, after every record has
// been collected; the mean is not an incremental quantity.
func Summarize(
	baselineName, alternateName string,
	records []SpeedupRecord,
	target float64,
) Summary {
	s := Summary{
		BaselineName:  baselineName,
		AlternateName: alternateName,
		Records:       records,
		Target:        target,
	}

	if len(records) == 0 {
		return s
	}

	speedups := make([]float64, len(records))
	for i, rec := range records {
		speedups[i] = rec.Speedup
	}

	s.MeanSpeedup = Mean(speedups)
	s.Pass = s.MeanSpeedup >= target

	return s
}

// Median returns the middle value of xs after sorting, or the mean of the
// two middle values for even lengths. Empty input yields 0.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}

	return sorted[mid]
}

// Mean returns the arithmetic mean of xs. Empty input yields 0.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	total := 0.0
	for _, x := range xs {
		total += x
	}

	return total / float64(len(xs))
}
