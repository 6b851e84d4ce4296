// Package crosslang runs benchmark implementations written in different
// languages and compares their reported metrics. Engines communicate
// through key=value lines on stdout; the checksum keys gate every
// comparison so timings are only ever compared across equivalent work.
package crosslang

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Engine is one benchmark implementation to run and compare. The
// upper-cased Name prefixes every metric key the engine is expected to
// print.
type Engine struct {
	Name    string
	Program string
	Args    []string
	Dir     string
}

// Prefix returns the engine's metric key prefix.
func (e Engine) Prefix() string {
	return strings.ToUpper(e.Name)
}

// ParseEngineSpec parses a name=command flag value into an Engine. The
// command is split on whitespace; the first field is the program.
func ParseEngineSpec(spec string) (Engine, error) {
	name, command, found := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return Engine{}, fmt.Errorf("engine spec %q must be name=command", spec)
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Engine{}, fmt.Errorf("engine spec %q has an empty command", spec)
	}

	return Engine{Name: name, Program: fields[0], Args: fields[1:]}, nil
}

// PoolMetrics is one engine's process-pool measurement. HasSerial marks
// whether the engine also reported a serial baseline pass.
type PoolMetrics struct {
	Engine    string
	PoolMs    float64
	Checksum  int64
	SerialMs  float64
	HasSerial bool
}

// SerialSpeedup is the engine's own serial time over its pool time. The
// second return is false when the engine did not report a serial pass;
// the ratio is 0 when the pool time is not positive.
func (m PoolMetrics) SerialSpeedup() (float64, bool) {
	if !m.HasSerial {
		return 0, false
	}
	if m.PoolMs <= 0 {
		return 0, true
	}
	return m.SerialMs / m.PoolMs, true
}

// PoolComparison holds pool metrics for every engine, in run order. The
// first engine is the reference all speedups are computed against.
type PoolComparison struct {
	Engines []PoolMetrics
}

// PoolSpeedup is other's pool time over reference's: how many times
// faster the reference engine ran the workload. The ratio is 0 when the
// reference time is not positive.
func PoolSpeedup(reference, other PoolMetrics) float64 {
	if reference.PoolMs <= 0 {
		return 0
	}
	return other.PoolMs / reference.PoolMs
}

// ComparePool runs every engine's pool benchmark and cross-checks the
// checksums against the first engine's.
func ComparePool(ctx context.Context, engines []Engine) (PoolComparison, error) {
	if len(engines) == 0 {
		return PoolComparison{}, errors.New("no engines to compare")
	}

	var comparison PoolComparison
	for _, engine := range engines {
		output, err := Capture(ctx, engine.Program, engine.Args, engine.Dir)
		if err != nil {
			return PoolComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}

		prefix := engine.Prefix()
		m := PoolMetrics{Engine: engine.Name}

		if m.PoolMs, err = ParseMetric(output, prefix+"_PROCESS_POOL_MS"); err != nil {
			return PoolComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}
		if m.Checksum, err = ParseChecksum(output, prefix+"_PROCESS_POOL_CHECKSUM"); err != nil {
			return PoolComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}
		// The serial baseline is optional.
		if serial, serialErr := ParseMetric(output, prefix+"_SERIAL_MS"); serialErr == nil {
			m.SerialMs = serial
			m.HasSerial = true
		}

		if len(comparison.Engines) > 0 {
			ref := comparison.Engines[0]
			if m.Checksum != ref.Checksum {
				return PoolComparison{}, fmt.Errorf(
					"checksum mismatch: %s=%d %s=%d (workloads are not equivalent)",
					ref.Engine, ref.Checksum, m.Engine, m.Checksum)
			}
		}
		comparison.Engines = append(comparison.Engines, m)
	}

	return comparison, nil
}

// SSGMetrics is one engine's static-site build measurement.
type SSGMetrics struct {
	Engine        string
	Files         int
	BuildMs       float64
	FilesPerSec   float64
	Checksum      int64
	ReadMs        float64
	RenderWriteMs float64
}

// SSGComparison holds build metrics for every engine, in run order. The
// first engine is the reference.
type SSGComparison struct {
	Engines []SSGMetrics
}

// BuildSpeedup is other's build time over reference's, 0 when the
// reference time is not positive.
func BuildSpeedup(reference, other SSGMetrics) float64 {
	if reference.BuildMs <= 0 {
		return 0
	}
	return other.BuildMs / reference.BuildMs
}

// CompareSSG runs every engine's static-site benchmark. File counts are
// checked against the first engine's before checksums, so a workload
// size mismatch is reported as such.
func CompareSSG(ctx context.Context, engines []Engine) (SSGComparison, error) {
	if len(engines) == 0 {
		return SSGComparison{}, errors.New("no engines to compare")
	}

	var comparison SSGComparison
	for _, engine := range engines {
		output, err := Capture(ctx, engine.Program, engine.Args, engine.Dir)
		if err != nil {
			return SSGComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}

		prefix := engine.Prefix()
		m := SSGMetrics{Engine: engine.Name}

		if m.Files, err = ParseCount(output, prefix+"_SSG_FILES"); err != nil {
			return SSGComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}
		if m.BuildMs, err = ParseMetric(output, prefix+"_SSG_BUILD_MS"); err != nil {
			return SSGComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}
		if m.FilesPerSec, err = ParseMetric(output, prefix+"_SSG_FILES_PER_SEC"); err != nil {
			return SSGComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}
		if m.Checksum, err = ParseChecksum(output, prefix+"_SSG_CHECKSUM"); err != nil {
			return SSGComparison{}, fmt.Errorf("engine %s: %w", engine.Name, err)
		}
		// Phase timings are reported by the reference implementations
		// but not required of every engine.
		m.ReadMs, _ = ParseMetric(output, prefix+"_SSG_READ_MS")
		m.RenderWriteMs, _ = ParseMetric(output, prefix+"_SSG_RENDER_WRITE_MS")

		if len(comparison.Engines) > 0 {
			ref := comparison.Engines[0]
			if m.Files != ref.Files {
				return SSGComparison{}, fmt.Errorf(
					"file count mismatch: %s=%d %s=%d (benchmarks must use identical workload)",
					ref.Engine, ref.Files, m.Engine, m.Files)
			}
			if m.Checksum != ref.Checksum {
				return SSGComparison{}, fmt.Errorf(
					"checksum mismatch: %s=%d %s=%d (outputs are not equivalent)",
					ref.Engine, ref.Checksum, m.Engine, m.Checksum)
			}
		}
		comparison.Engines = append(comparison.Engines, m)
	}

	return comparison, nil
}
