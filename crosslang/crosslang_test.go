package crosslang

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestParseEngineSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Engine
	}{
		{"bare program", "go=enginemark", Engine{Name: "go", Program: "enginemark"}},
		{"program with args", "go=enginemark pool --workers 4",
			Engine{Name: "go", Program: "enginemark", Args: []string{"pool", "--workers", "4"}}},
		{"script engine", "python=python3 bench_process_pool.py",
			Engine{Name: "python", Program: "python3", Args: []string{"bench_process_pool.py"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEngineSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParseEngineSpec(%q) failed: %v", tt.spec, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseEngineSpec(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseEngineSpecInvalid(t *testing.T) {
	for _, spec := range []string{"noequals", "=enginemark", "go=", "go=   "} {
		if _, err := ParseEngineSpec(spec); err == nil {
			t.Errorf("ParseEngineSpec(%q): expected error", spec)
		}
	}
}

func TestEnginePrefix(t *testing.T) {
	if got := (Engine{Name: "go"}).Prefix(); got != "GO" {
		t.Errorf("prefix = %q, want GO", got)
	}
	if got := (Engine{Name: "Python"}).Prefix(); got != "PYTHON" {
		t.Errorf("prefix = %q, want PYTHON", got)
	}
}

func TestComparePool(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_CAPTURE", "1")

	engines := []Engine{
		helperEngine("go", "pool-go"),
		helperEngine("rs", "pool-rs"),
	}

	comparison, err := ComparePool(context.Background(), engines)
	if err != nil {
		t.Fatalf("ComparePool failed: %v", err)
	}
	if len(comparison.Engines) != 2 {
		t.Fatalf("engines = %d, want 2", len(comparison.Engines))
	}

	ref := comparison.Engines[0]
	if ref.PoolMs != 2.25 || ref.Checksum != 1500 {
		t.Errorf("reference metrics = %+v", ref)
	}
	if !ref.HasSerial || ref.SerialMs != 10.5 {
		t.Errorf("reference serial = %+v, want 10.5", ref)
	}

	other := comparison.Engines[1]
	if other.HasSerial {
		t.Errorf("engine without serial pass reported one: %+v", other)
	}
	if got := PoolSpeedup(ref, other); got != 2 {
		t.Errorf("speedup = %v, want 2", got)
	}
}

func TestComparePoolChecksumMismatch(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_CAPTURE", "1")

	engines := []Engine{
		helperEngine("go", "pool-go"),
		helperEngine("bad", "pool-badsum"),
	}

	_, err := ComparePool(context.Background(), engines)
	if err == nil {
		t.Fatal("expected checksum mismatch")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("error = %v", err)
	}
}

func TestComparePoolMissingMetric(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_CAPTURE", "1")

	_, err := ComparePool(context.Background(), []Engine{helperEngine("go", "empty")})
	if err == nil {
		t.Fatal("expected error for missing metrics")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v", err)
	}
}

func TestComparePoolNoEngines(t *testing.T) {
	if _, err := ComparePool(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty engine list")
	}
}

func TestCompareSSG(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_CAPTURE", "1")

	engines := []Engine{
		helperEngine("go", "ssg-go"),
		helperEngine("rs", "ssg-rs"),
	}

	comparison, err := CompareSSG(context.Background(), engines)
	if err != nil {
		t.Fatalf("CompareSSG failed: %v", err)
	}

	ref := comparison.Engines[0]
	if ref.Files != 100 || ref.BuildMs != 50 || ref.Checksum != 8600 {
		t.Errorf("reference metrics = %+v", ref)
	}
	if ref.ReadMs != 20 || ref.RenderWriteMs != 30 {
		t.Errorf("reference phase timings = %+v", ref)
	}

	other := comparison.Engines[1]
	if other.ReadMs != 0 || other.RenderWriteMs != 0 {
		t.Errorf("absent phase timings should stay zero: %+v", other)
	}
	if got := BuildSpeedup(ref, other); got != 2.5 {
		t.Errorf("speedup = %v, want 2.5", got)
	}
}

func TestCompareSSGFileCountGateFirst(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_CAPTURE", "1")

	// The engine disagrees on both count and checksum; the count gate
	// must fire first.
	engines := []Engine{
		helperEngine("go", "ssg-go"),
		helperEngine("fc", "ssg-filecount"),
	}

	_, err := CompareSSG(context.Background(), engines)
	if err == nil {
		t.Fatal("expected file count mismatch")
	}
	if !strings.Contains(err.Error(), "file count mismatch") {
		t.Errorf("error = %v", err)
	}
}

func TestCompareSSGChecksumMismatch(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_CAPTURE", "1")

	engines := []Engine{
		helperEngine("go", "ssg-go"),
		helperEngine("sum", "ssg-badsum"),
	}

	_, err := CompareSSG(context.Background(), engines)
	if err == nil {
		t.Fatal("expected checksum mismatch")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("error = %v", err)
	}
}

func TestSerialSpeedup(t *testing.T) {
	m := PoolMetrics{SerialMs: 80, PoolMs: 40, HasSerial: true}
	if got, ok := m.SerialSpeedup(); !ok || got != 2 {
		t.Errorf("speedup = %v/%v, want 2/true", got, ok)
	}

	if _, ok := (PoolMetrics{PoolMs: 40}).SerialSpeedup(); ok {
		t.Error("expected absent speedup without a serial pass")
	}

	m = PoolMetrics{SerialMs: 80, PoolMs: 0, HasSerial: true}
	if got, ok := m.SerialSpeedup(); !ok || got != 0 {
		t.Errorf("speedup = %v/%v, want 0/true for zero pool time", got, ok)
	}
}

func TestPoolSpeedupZeroReference(t *testing.T) {
	if got := PoolSpeedup(PoolMetrics{PoolMs: 0}, PoolMetrics{PoolMs: 10}); got != 0 {
		t.Errorf("speedup = %v, want 0", got)
	}
}

func TestBuildSpeedupZeroReference(t *testing.T) {
	if got := BuildSpeedup(SSGMetrics{BuildMs: 0}, SSGMetrics{BuildMs: 10}); got != 0 {
		t.Errorf("speedup = %v, want 0", got)
	}
}
