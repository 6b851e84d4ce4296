// Package ssg measures a static-site-generator style workload: read a
// generated markdown corpus, wrap every page in an HTML shell, and write
// the rendered site back out. Corpus generation and cleanup stay outside
// the timed region.
package ssg

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/enginemark/enginemark/workload"
)

const defaultFiles = 10000

// Options configures one build run. Zero values fall back to the
// reference workload: 10000 pages under the system temp directory.
type Options struct {
	Files       int
	ScratchRoot string

	// token overrides the random scratch suffix; tests use it to reach
	// into the scratch tree.
	token string
}

func (o Options) withDefaults() Options {
	if o.Files <= 0 {
		o.Files = defaultFiles
	}
	if o.ScratchRoot == "" {
		o.ScratchRoot = os.TempDir()
	}
	if o.token == "" {
		o.token = uuid.NewString()
	}
	return o
}

// Result is one measured build.
type Result struct {
	Files         int     `json:"files"`
	BuildMs       float64 `json:"build_ms"`
	FilesPerSec   float64 `json:"files_per_sec"`
	Checksum      int64   `json:"checksum"`
	ReadMs        float64 `json:"read_ms"`
	RenderWriteMs float64 `json:"render_write_ms"`
}

// Run generates the input corpus and measures the build: a read pass
// over every page in index order, then a render+write pass producing the
// HTML output. The scratch directory is removed on every exit path.
func Run(opts Options) (Result, error) {
	opts = opts.withDefaults()

	scratch := filepath.Join(opts.ScratchRoot, "enginemark-ssg-"+opts.token)
	inputDir := filepath.Join(scratch, "input")
	outputDir := filepath.Join(scratch, "output")
	defer os.RemoveAll(scratch)

	for _, dir := range []string{inputDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create scratch dir: %w", err)
		}
	}
	if _, err := workload.WriteCorpus(workload.Config{Dir: inputDir, Count: opts.Files}); err != nil {
		return Result{}, fmt.Errorf("generate corpus: %w", err)
	}

	start := time.Now()

	contents := make([]string, opts.Files)
	for i := 0; i < opts.Files; i++ {
		raw, err := os.ReadFile(filepath.Join(inputDir, workload.PageFile(i)))
		if err != nil {
			return Result{}, fmt.Errorf("read page %d: %w", i, err)
		}
		contents[i] = string(raw)
	}
	readDone := time.Now()

	var checksum int64
	for i, content := range contents {
		html := renderPage(i, content)
		checksum += int64(len(html))

		path := filepath.Join(outputDir, fmt.Sprintf("post_%d.html", i))
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			return Result{}, fmt.Errorf("write page %d: %w", i, err)
		}
	}
	end := time.Now()

	buildMs := float64(end.Sub(start)) / float64(time.Millisecond)

	result := Result{
		Files:         opts.Files,
		BuildMs:       buildMs,
		Checksum:      checksum,
		ReadMs:        float64(readDone.Sub(start)) / float64(time.Millisecond),
		RenderWriteMs: float64(end.Sub(readDone)) / float64(time.Millisecond),
	}
	if buildMs > 0 {
		result.FilesPerSec = float64(opts.Files) * 1000 / buildMs
	}

	return result, nil
}

// renderPage wraps one page of markdown in the fixed HTML shell shared
// by every engine implementation.
func renderPage(i int, content string) string {
	return fmt.Sprintf("<html><body><h1>Post %d</h1><article>%s</article></body></html>", i, content)
}
