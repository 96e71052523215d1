// Package cachekey maps remote video URLs to stable, filesystem-safe cache
// identifiers. The query string is stripped before hashing so the same asset
// keeps its key across signed-URL token rotations.
package cachekey

import (
	"strconv"
	"strings"
)

// maxSuffixLen bounds the human-readable suffix to stay well clear of
// filesystem path-length limits.
const maxSuffixLen = 50

// defaultSuffix is used when the URL path has no final segment.
const defaultSuffix = "video"

// Derive returns the cache key for sourceURI: a base-36 rendering of a
// 32-bit rolling hash of the query-stripped URI, joined with a sanitized
// form of its last path segment. Deterministic, no filesystem access.
func Derive(sourceURI string) string {
	clean := stripQuery(sourceURI)
	return hashBase36(clean) + "_" + suffix(clean)
}

func stripQuery(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}

// hashBase36 computes h = h*31 + code over every character with signed
// 32-bit wraparound, then renders the absolute value in base 36. Cheap and
// non-cryptographic; the suffix disambiguates near-collisions.
func hashBase36(clean string) string {
	var h int32
	for _, r := range clean {
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

func suffix(clean string) string {
	seg := clean
	if i := strings.LastIndexByte(clean, '/'); i >= 0 {
		seg = clean[i+1:]
	}
	var b strings.Builder
	for _, r := range seg {
		if b.Len() >= maxSuffixLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return defaultSuffix
	}
	return b.String()
}
