// Package workload generates the deterministic inputs consumed by the
// benchmark harnesses: the markdown page corpus for the static-site
// throughput benchmark and the string items for the process-pool benchmark.
// All content is derived from the item index, so two invocations always
// produce byte-identical workloads.
package workload

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config controls corpus generation parameters.
type Config struct {
	Dir   string
	Count int
}

// Summary contains statistics about a generated corpus.
type Summary struct {
	Files int
	Bytes int64
}

// Page returns the markdown source for page index i.
func Page(i int) string {
	return fmt.Sprintf("# Post %d\n\nGenerated page %d", i, i)
}

// PageFile returns the corpus filename for page index i.
func PageFile(i int) string {
	return fmt.Sprintf("post_%d.md", i)
}

// WriteCorpus populates cfg.Dir with cfg.Count markdown pages and returns
// a Summary. The directory must already exist.
func WriteCorpus(cfg Config) (Summary, error) {
	var summary Summary

	for i := 0; i < cfg.Count; i++ {
		page := Page(i)
		path := filepath.Join(cfg.Dir, PageFile(i))

		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			return summary, fmt.Errorf("write page %d: %w", i, err)
		}

		summary.Files++
		summary.Bytes += int64(len(page))
	}

	return summary, nil
}

// PoolItems returns the n-item string workload for the process-pool
// benchmark: value_1 through value_n.
func PoolItems(n int) []string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf("value_%d", i))
	}

	return items
}
