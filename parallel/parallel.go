// Package parallel compares a serial string-transform workload against
// the same workload fanned out to a pool of worker processes.
package parallel

import (
	"fmt"
	"runtime"
	"time"
)

const (
	defaultIterations = 500
	defaultChunkSize  = 32
	defaultOp         = "upper"
)

// Options configures a pool run. Zero values fall back to the reference
// workload parameters.
type Options struct {
	Iterations int
	ChunkSize  int
	Workers    int
	Op         string
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = defaultIterations
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Op == "" {
		o.Op = defaultOp
	}
	return o
}

// BenchResult holds one serial-versus-pool measurement.
type BenchResult struct {
	SerialMs   float64 `json:"serial_ms"`
	ParallelMs float64 `json:"process_pool_ms"`
	Checksum   int64   `json:"checksum"`
}

// RunSerial transforms every item in order, iterations times, and
// returns the elapsed milliseconds and the running sum of transformed
// lengths.
func RunSerial(items []string, op string, iterations int) (float64, int64, error) {
	fn, err := lookupTransform(op)
	if err != nil {
		return 0, 0, err
	}

	var checksum int64
	start := time.Now()
	for i := 0; i < iterations; i++ {
		for _, s := range items {
			checksum += int64(len(fn(s)))
		}
	}
	elapsed := time.Since(start)

	return float64(elapsed) / float64(time.Millisecond), checksum, nil
}

// RunParallel runs the same workload through a pool of worker processes.
// The pool lives for exactly one call; spawn and join are part of the
// measured time, as in the reference benchmark.
func RunParallel(items []string, opts Options) (float64, int64, error) {
	opts = opts.withDefaults()
	if _, err := lookupTransform(opts.Op); err != nil {
		return 0, 0, err
	}
	chunks := chunkItems(items, opts.ChunkSize)

	start := time.Now()
	workers, err := startPool(opts.Workers)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		for _, w := range workers {
			w.shutdown()
		}
	}()

	var checksum int64
	for i := 0; i < opts.Iterations; i++ {
		results, err := mapChunks(workers, opts.Op, chunks)
		if err != nil {
			return 0, 0, fmt.Errorf("iteration %d: %w", i, err)
		}
		for _, chunk := range results {
			for _, s := range chunk {
				checksum += int64(len(s))
			}
		}
	}

	for _, w := range workers {
		if err := w.shutdown(); err != nil {
			return 0, 0, fmt.Errorf("join worker: %w", err)
		}
	}
	elapsed := time.Since(start)

	return float64(elapsed) / float64(time.Millisecond), checksum, nil
}

// Bench runs the serial pass and the pool pass over the same items and
// verifies both arrive at the same checksum before reporting any timing.
func Bench(items []string, opts Options) (BenchResult, error) {
	opts = opts.withDefaults()

	serialMs, serialSum, err := RunSerial(items, opts.Op, opts.Iterations)
	if err != nil {
		return BenchResult{}, err
	}

	parallelMs, parallelSum, err := RunParallel(items, opts)
	if err != nil {
		return BenchResult{}, err
	}

	if serialSum != parallelSum {
		return BenchResult{}, fmt.Errorf("checksum mismatch serial=%d parallel=%d", serialSum, parallelSum)
	}

	return BenchResult{
		SerialMs:   serialMs,
		ParallelMs: parallelMs,
		Checksum:   serialSum,
	}, nil
}

func chunkItems(items []string, size int) [][]string {
	if size <= 0 {
		size = defaultChunkSize
	}
	var chunks [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
