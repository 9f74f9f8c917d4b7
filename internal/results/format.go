package results

import (
	"fmt"
	"strings"
)

// goVerb rewrites a printf-style loader format ("%i", "%.3f", "%g") into a
// Go verb and reports whether values should be printed as integers.
func goVerb(format string) (string, bool) {
	f := strings.TrimSpace(format)
	if f == "" {
		return "%g", false
	}
	if strings.HasSuffix(f, "i") || strings.HasSuffix(f, "d") {
		return strings.TrimSuffix(strings.TrimSuffix(f, "i"), "d") + "d", true
	}
	return f, false
}

// FormatValue renders v with a loader format string.
func FormatValue(format string, v float64) string {
	verb, integer := goVerb(format)
	if integer {
		return fmt.Sprintf(verb, int64(v))
	}
	return fmt.Sprintf(verb, v)
}
