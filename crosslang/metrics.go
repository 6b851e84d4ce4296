package crosslang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ParseMetric scans output for a key=value line matching key and returns
// the float value. Whitespace around both key and value is ignored. A
// missing key and an unparseable value are distinct errors.
func ParseMetric(output, key string) (float64, error) {
	raw, ok := findValue(output, key)
	if !ok {
		return 0, fmt.Errorf("metric %q not found in output", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("metric %q had invalid numeric value %q: %w", key, raw, err)
	}
	return v, nil
}

// ParseChecksum is ParseMetric for the integer checksum keys.
func ParseChecksum(output, key string) (int64, error) {
	raw, ok := findValue(output, key)
	if !ok {
		return 0, fmt.Errorf("checksum %q not found in output", key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("checksum %q had invalid integer value %q: %w", key, raw, err)
	}
	return v, nil
}

// ParseCount is ParseMetric for integer counters such as file totals.
func ParseCount(output, key string) (int, error) {
	raw, ok := findValue(output, key)
	if !ok {
		return 0, fmt.Errorf("metric %q not found in output", key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("metric %q had invalid integer value %q: %w", key, raw, err)
	}
	return v, nil
}

// findValue returns the trimmed value of the first key=value line whose
// trimmed key matches key.
func findValue(output, key string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		k, v, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		if strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// Capture runs a command and returns its combined output. Stderr is
// appended to stdout only when non-empty. A non-zero exit is an error
// carrying the combined output.
func Capture(ctx context.Context, program string, args []string, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	combined := stdout.String()
	if strings.TrimSpace(stderr.String()) != "" {
		combined = combined + "\n" + stderr.String()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", fmt.Errorf("command %q failed with status %d:\n%s",
				program, exitErr.ExitCode(), combined)
		}
		return "", fmt.Errorf("run %q: %w", program, runErr)
	}
	return combined, nil
}
