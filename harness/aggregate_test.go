package harness

import (
	"context"
	"math"
	"os"
	"testing"
)

func TestAggregateRepeatedTrials(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_ENGINE", "1")

	r := NewRunner(os.Args[0], discardLogger())

	result, err := r.Aggregate(
		context.Background(), "bench.src", helperMode("ok"), 3, 0,
	)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(result.TrialsMs) != 3 {
		t.Fatalf("trials = %d, want 3", len(result.TrialsMs))
	}
	if result.MedianMs != 42.5 {
		t.Errorf("median = %v, want 42.5", result.MedianMs)
	}
	if result.Mode != "ok" {
		t.Errorf("mode = %q, want ok", result.Mode)
	}
}

func TestAggregateWithWarmup(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_ENGINE", "1")

	r := NewRunner(os.Args[0], discardLogger())

	result, err := r.Aggregate(
		context.Background(), "bench.src", helperMode("ok"), 2, 2,
	)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	// Warmup runs are never recorded.
	if len(result.TrialsMs) != 2 {
		t.Errorf("trials = %d, want 2", len(result.TrialsMs))
	}
}

func TestAggregateAllTrialsDropped(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_ENGINE", "1")

	r := NewRunner(os.Args[0], discardLogger())

	result, err := r.Aggregate(
		context.Background(), "bench.src", helperMode("quiet"), 3, 0,
	)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if !result.Missing() {
		t.Error("expected Missing() for a mode with no parseable trials")
	}
	if result.MedianMs != 0 {
		t.Errorf("median = %v, want 0 for missing mode", result.MedianMs)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"odd length", []float64{10, 20, 15}, 15},
		{"even length", []float64{10, 20}, 15.0},
		{"single", []float64{7}, 7},
		{"unsorted even", []float64{4, 1, 3, 2}, 2.5},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.xs); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.xs, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	xs := []float64{30, 10, 20}
	Median(xs)

	if xs[0] != 30 || xs[1] != 10 || xs[2] != 20 {
		t.Errorf("input mutated: %v", xs)
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"simple", []float64{2, 4, 6}, 4},
		{"single", []float64{9}, 9},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.xs); got != tt.want {
				t.Errorf("Mean(%v) = %v, want %v", tt.xs, got, tt.want)
			}
		})
	}
}

func TestSpeedup(t *testing.T) {
	baseline := ModeResult{Mode: "Interpreter", MedianMs: 100, TrialsMs: []float64{100}}
	alternate := ModeResult{Mode: "VM", MedianMs: 10, TrialsMs: []float64{10}}

	rec, ok := Speedup("fibonacci", baseline, alternate)
	if !ok {
		t.Fatal("expected speedup record")
	}

	if rec.Speedup != 10 {
		t.Errorf("speedup = %v, want 10", rec.Speedup)
	}
	if rec.BaselineMs != 100 || rec.AlternateMs != 10 {
		t.Errorf("medians = %v/%v, want 100/10", rec.BaselineMs, rec.AlternateMs)
	}
	if rec.Name != "fibonacci" {
		t.Errorf("name = %q, want fibonacci", rec.Name)
	}
}

func TestSpeedupOmittedNotNaN(t *testing.T) {
	baseline := ModeResult{MedianMs: 100, TrialsMs: []float64{100}}
	zero := ModeResult{MedianMs: 0, TrialsMs: []float64{0}}

	rec, ok := Speedup("bench", baseline, zero)
	if ok {
		t.Errorf("expected omitted record for zero alternate, got %+v", rec)
	}
	if math.IsNaN(rec.Speedup) {
		t.Error("speedup must never be NaN")
	}
}

func TestSpeedupMissingMode(t *testing.T) {
	present := ModeResult{MedianMs: 50, TrialsMs: []float64{50}}
	missing := ModeResult{}

	if _, ok := Speedup("bench", missing, present); ok {
		t.Error("expected omitted record for missing baseline")
	}
	if _, ok := Speedup("bench", present, missing); ok {
		t.Error("expected omitted record for missing alternate")
	}
}

func TestSummarize(t *testing.T) {
	records := []SpeedupRecord{
		{Name: "a", Speedup: 12},
		{Name: "b", Speedup: 10},
		{Name: "c", Speedup: 14},
	}

	s := Summarize("Interpreter", "VM", records, 10)

	if s.MeanSpeedup != 12 {
		t.Errorf("mean = %v, want 12", s.MeanSpeedup)
	}
	if !s.Pass {
		t.Error("expected pass for mean 12 against target 10")
	}
	if s.BaselineName != "Interpreter" || s.AlternateName != "VM" {
		t.Errorf("mode names = %q/%q", s.BaselineName, s.AlternateName)
	}
}

func TestSummarizeBelowTarget(t *testing.T) {
	records := []SpeedupRecord{
		{Name: "a", Speedup: 2},
		{Name: "b", Speedup: 4},
	}

	s := Summarize("Interpreter", "VM", records, 10)

	if s.MeanSpeedup != 3 {
		t.Errorf("mean = %v, want 3", s.MeanSpeedup)
	}
	if s.Pass {
		t.Error("expected fail for mean 3 against target 10")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("Interpreter", "VM", nil, 10)

	if s.Pass {
		t.Error("empty record set must not pass")
	}
	if s.MeanSpeedup != 0 {
		t.Errorf("mean = %v, want 0", s.MeanSpeedup)
	}
}
