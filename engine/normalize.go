package engine

import "strings"

// NormalizeCode canonicalizes a free-form zone/warehouse code for
// comparison: surrounding whitespace is stripped, internal hyphens are
// removed and the result is upper-cased. "EA2-A", "ea2a " and " EA2A"
// all normalize to "EA2A". Idempotent; empty input yields empty output.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "-", ""))
}

// LocationEqual compares two location codes ignoring case and
// surrounding whitespace only. Hyphens inside a location code are
// significant, so this is deliberately weaker than NormalizeCode.
func LocationEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
