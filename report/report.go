// Package report formats benchmark summaries into the fixed-width
// comparison table shared by every engine implementation.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/enginemark/enginemark/harness"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// WriteHeader prints the 80-column banner that opens a suite run.
func WriteHeader(w io.Writer, title string) {
	rule := strings.Repeat("=", 80)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// Write renders the summary table and the pass/fail verdict banner. The
// column layout is part of the cross-engine output contract and must not
// change shape with the data.
func Write(w io.Writer, s harness.Summary) error {
	if len(s.Records) == 0 {
		return fmt.Errorf("no results to report")
	}

	rule := strings.Repeat("=", 80)

	// Heading.
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	// Table.
	fmt.Fprintf(w, "%-25s %-20s %-15s %-10s\n",
		"Benchmark", s.BaselineName+" (ms)", s.AlternateName+" (ms)", "Speedup")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range s.Records {
		fmt.Fprintf(w, "%-25s %-20.2f %-15.2f %-10.2fx\n",
			r.Name, r.BaselineMs, r.AlternateMs, r.Speedup)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Average speedup: %.2fx\n", s.MeanSpeedup)
	fmt.Fprintln(w)

	// Verdict.
	target := strconv.FormatFloat(s.Target, 'f', -1, 64)
	if s.Pass {
		successColor.Fprintf(w, "✅ SUCCESS: %s achieves %sx+ speedup target!\n",
			s.AlternateName, target)
	} else {
		warnColor.Fprintf(w, "⚠️  %s speedup (%.2fx) below %sx target\n",
			s.AlternateName, s.MeanSpeedup, target)
	}

	return nil
}

// WriteJSON writes the summary as JSON to w.
func WriteJSON(w io.Writer, s harness.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(s)
}
