package parallel

import (
	"fmt"
	"strings"
)

// transforms maps wire-level op names to their implementations. The
// reference workload uses upper.
var transforms = map[string]func(string) string{
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
	"reverse": reverseString,
}

func lookupTransform(op string) (func(string) string, error) {
	fn, ok := transforms[op]
	if !ok {
		return nil, fmt.Errorf("unknown transform op %q", op)
	}
	return fn, nil
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
