package apispec

import (
	"regexp"
	"strings"
)

var pathParamRe = regexp.MustCompile(`\{[^}]+\}`)

// NormalizePath canonicalizes a resource path for cross-referencing: it
// case-folds, strips one leading and one trailing separator, and collapses
// every brace-delimited parameter segment to a single wildcard token. Two
// paths denote the same resource iff their normalized forms are equal.
func NormalizePath(path string) string {
	path = strings.ToLower(path)
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	return pathParamRe.ReplaceAllString(path, "*")
}
