// Package router decides access and rewrites viewer-request paths to
// concrete versioned asset paths.
package router

import "regexp"

// versionPattern matches a version identifier: "v" followed by digits,
// case-insensitive. The routing algorithm applies this predicate in three
// branches with different consequences (asset paths trust a matching prefix,
// route paths validate it against the active list), so it lives in exactly
// one place.
var versionPattern = regexp.MustCompile(`(?i)^v\d+$`)

// IsVersionSegment reports whether a path segment is shaped like a version
// identifier.
func IsVersionSegment(segment string) bool {
	return versionPattern.MatchString(segment)
}
