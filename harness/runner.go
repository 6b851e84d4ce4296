package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// timeMarker is the literal an engine must print ahead of its elapsed
// time, e.g. "Time taken: 12.5 ms".
const timeMarker = "Time taken:"

// Mode is one named execution strategy of the engine under test: the
// argument vector placed before the benchmark file path.
type Mode struct {
	Name string
	Args []string
}

// Runner launches the engine binary for individual benchmark trials.
type Runner struct {
	EnginePath string
	Logger     *slog.Logger
}

// NewRunner creates a Runner for the engine at enginePath.
func NewRunner(enginePath string, logger *slog.Logger) *Runner {
	return &Runner{
		EnginePath: enginePath,
		Logger: logger.With(
			slog.String("engine", filepath.Base(enginePath)),
		),
	}
}

// ResolveEngine makes the engine path absolute and verifies the binary
// exists, so a misconfigured engine fails once up front instead of as a
// silent series of empty trials.
func ResolveEngine(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve engine path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("engine binary %s: %w", abs, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("engine binary %s is a directory", abs)
	}

	return abs, nil
}

// RunTrial executes one benchmark file under the given mode and scrapes
// the timing line from the engine's stdout. A missing or unparseable
// timing is reported via TrialResult.OK rather than as an error: the
// engine ran, it just produced nothing usable, and the caller drops the
// trial. Only a failure to launch the engine at all is an error. The
// child process is waited on regardless of its exit status.
func (r *Runner) RunTrial(
	ctx context.Context,
	file string,
	mode Mode,
) (TrialResult, error) {
	args := make([]string, 0, len(mode.Args)+1)
	args = append(args, mode.Args...)
	args = append(args, file)

	cmd := exec.CommandContext(ctx, r.EnginePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return TrialResult{}, fmt.Errorf(
				"run engine %s: %w", r.EnginePath, err,
			)
		}

		// Non-zero exit is tolerated: the timing line may still be
		// present, and when it is not the trial is simply dropped.
		r.Logger.Debug("engine exited non-zero",
			slog.String("file", file),
			slog.String("mode", mode.Name),
			slog.String("stderr", stderr.String()),
		)
	}

	elapsed, ok := parseTimeTaken(stdout.String())
	if !ok {
		r.Logger.Debug("no timing line in engine output",
			slog.String("file", file),
			slog.String("mode", mode.Name),
		)

		return TrialResult{}, nil
	}

	return TrialResult{ElapsedMs: elapsed, OK: true}, nil
}

// parseTimeTaken extracts the duration from the first line containing the
// time marker: the text between the marker and the next "ms" token,
// trimmed and parsed as a float.
func parseTimeTaken(output string) (float64, bool) {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, timeMarker)
		if idx < 0 {
			continue
		}

		rest := line[idx+len(timeMarker):]
		if cut := strings.Index(rest, "ms"); cut >= 0 {
			rest = rest[:cut]
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return 0, false
		}

		return value, true
	}

	return 0, false
}
