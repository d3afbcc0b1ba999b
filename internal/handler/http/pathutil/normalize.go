// Package pathutil maps request paths to a bounded set of metric labels.
package pathutil

import "strings"

// Other is the label for every path outside the known routes.
const Other = "other"

var knownPaths = map[string]struct{}{
	"/":            {},
	"/api/digest":  {},
	"/api/extract": {},
	"/health":      {},
	"/ready":       {},
	"/live":        {},
	"/metrics":     {},
}

// NormalizePath returns the route label for path. Unknown paths collapse to Other so
// scanners cannot blow up label cardinality.
//
//	NormalizePath("/api/digest/")      // "/api/digest"
//	NormalizePath("/api/digest?x=1")   // "/api/digest"
//	NormalizePath("/wp-login.php")     // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return Other
}

// Cardinality is the number of distinct labels NormalizePath can return.
func Cardinality() int {
	return len(knownPaths) + 1
}
