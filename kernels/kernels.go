// Package kernels implements the fixed set of computational kernels shared
// by every engine under comparison. Each kernel is pure and deterministic:
// for a given input size it produces the same scalar result in every
// language implementation, which is what makes cross-engine timing
// comparisons meaningful.
package kernels

import "time"

// Kernel is one deterministic benchmark unit. Run performs any untimed
// setup, executes the kernel core exactly once, and returns the core's
// result together with the elapsed core time.
type Kernel struct {
	Name  string
	Title string
	Unit  string
	Run   func() (int, time.Duration)
}

// All returns the kernel catalog in suite order, at the reference input
// sizes.
func All() []Kernel {
	return []Kernel{
		{
			Name:  "fib-recursive",
			Title: "Fibonacci Recursive (n=30)",
			Run:   timed(func() int { return fibRecursive(30) }),
		},
		{
			Name:  "fib-iterative",
			Title: "Fibonacci Iterative (n=100000)",
			Run:   timed(func() int { return fibIterative(100000) }),
		},
		{
			Name:  "array-sum",
			Title: "Array Sum (1M elements)",
			Run: func() (int, time.Duration) {
				arr := make([]int, 1000000)
				for i := range arr {
					arr[i] = i
				}

				start := time.Now()
				sum := arraySum(arr)

				return sum, time.Since(start)
			},
		},
		{
			Name:  "hashmap-ops",
			Title: "Hash Map Operations (100k items)",
			Run:   timed(func() int { return hashMapOps(100000) }),
		},
		{
			Name:  "string-concat",
			Title: "String Concatenation (10k chars)",
			Unit:  "chars",
			Run:   timed(func() int { return stringConcat(10000) }),
		},
		{
			Name:  "nested-loops",
			Title: "Nested Loops (1000x1000)",
			Run:   timed(func() int { return nestedLoops(1000) }),
		},
		{
			Name:  "build-array",
			Title: "Array Building (100k elements)",
			Unit:  "elements",
			Run:   timed(func() int { return buildArray(100000) }),
		},
		{
			Name:  "object-creation",
			Title: "Object Creation (100k objects)",
			Unit:  "objects",
			Run:   timed(func() int { return objectCreation(100000) }),
		},
	}
}

// Lookup returns the catalog entry with the given name.
func Lookup(name string) (Kernel, bool) {
	for _, k := range All() {
		if k.Name == name {
			return k, true
		}
	}

	return Kernel{}, false
}

func timed(fn func() int) func() (int, time.Duration) {
	return func() (int, time.Duration) {
		start := time.Now()
		result := fn()

		return result, time.Since(start)
	}
}

// fibRecursive stresses function call overhead.
func fibRecursive(n int) int {
	if n <= 1 {
		return n
	}

	return fibRecursive(n-1) + fibRecursive(n-2)
}

func fibIterative(n int) int {
	if n <= 1 {
		return n
	}

	a, b := 0, 1
	for i := 2; i <= n; i++ {
		a, b = b, a+b
	}

	return b
}

func arraySum(arr []int) int {
	sum := 0
	for _, item := range arr {
		sum += item
	}

	return sum
}

func hashMapOps(n int) int {
	m := make(map[int]int)

	for i := 0; i < n; i++ {
		m[i] = i * 2
	}

	sum := 0
	for i := 0; i < n; i++ {
		sum += m[i]
	}

	return sum
}

// stringConcat grows a string one byte at a time, deliberately quadratic.
func stringConcat(n int) int {
	result := ""
	for i := 0; i < n; i++ {
		result += "x"
	}

	return len(result)
}

func nestedLoops(n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum++
		}
	}

	return sum
}

func buildArray(n int) int {
	arr := make([]int, 0, n)
	for i := 0; i < n; i++ {
		arr = append(arr, i)
	}

	return len(arr)
}

type object struct {
	id    int
	value int
	name  string
}

func objectCreation(n int) int {
	objects := make([]object, 0, n)
	for i := 0; i < n; i++ {
		objects = append(objects, object{
			id:    i,
			value: i * 2,
			name:  "object",
		})
	}

	return len(objects)
}
