package kernels

import (
	"fmt"
	"io"
	"time"
)

// RunSuite executes the named kernels (all of them when names is empty)
// and writes the suite report to w. Every kernel section ends with a
// "Time taken" line in the exact format the subprocess runner scrapes,
// so the kernels command is itself a conforming engine under test.
func RunSuite(w io.Writer, names []string) error {
	selected, err := selectKernels(names)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== GO BENCHMARK SUITE ===")
	fmt.Fprintln(w)

	// Warm up.
	fibRecursive(10)
	fibIterative(100)

	for i, k := range selected {
		fmt.Fprintf(w, "%d. %s...\n", i+1, k.Title)

		result, elapsed := k.Run()

		if k.Unit != "" {
			fmt.Fprintf(w, "   Result: %d %s\n", result, k.Unit)
		} else {
			fmt.Fprintf(w, "   Result: %d\n", result)
		}

		fmt.Fprintf(w, "   Time taken: %.3f ms\n",
			float64(elapsed)/float64(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=== BENCHMARK COMPLETE ===")

	return nil
}

func selectKernels(names []string) ([]Kernel, error) {
	if len(names) == 0 {
		return All(), nil
	}

	selected := make([]Kernel, 0, len(names))

	for _, name := range names {
		k, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown kernel %q", name)
		}

		selected = append(selected, k)
	}

	return selected, nil
}
