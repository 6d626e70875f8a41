// Package imageref handles container image references of the form name:tag.
package imageref

import (
	"strings"

	masterminds "github.com/Masterminds/semver/v3"
)

// LatestTag is the distinguished floating tag.
const LatestTag = "latest"

// StripRegistry removes a registry host prefix from an image reference.
//
//	"registry.example.com/ns/app:1.0" → "ns/app:1.0"
//	"registry:5000/app:1.0"           → "app:1.0"
//	"localhost/app:1.0"               → "localhost/app:1.0"
//	"ns/app:1.0"                      → "ns/app:1.0"
func StripRegistry(ref string) string {
	parts := strings.SplitN(ref, "/", 3)
	switch len(parts) {
	case 2:
		if looksLikeRegistry(parts[0]) {
			return parts[1]
		}
	case 3:
		return parts[1] + "/" + parts[2]
	}
	return ref
}

func looksLikeRegistry(s string) bool {
	return strings.ContainsAny(s, ".:")
}

// Split splits a normalized reference at the first colon.
// "app:1.0" → ("app", "1.0", true); "app" → ("app", "", false).
func Split(ref string) (name, tag string, ok bool) {
	return strings.Cut(ref, ":")
}

// Tag returns the tag component, or "" when the reference carries none.
func Tag(ref string) string {
	_, tag, _ := Split(ref)
	return tag
}

// IsLatest reports whether the reference points at the latest tag.
// A reference without a tag is implicitly latest.
func IsLatest(ref string) bool {
	_, tag, ok := Split(ref)
	if !ok {
		return true
	}
	return tag == LatestTag
}

// Less orders references by image name, then by tag. Tags that parse as
// versions sort semantically and before non-version tags; everything else
// falls back to lexical order.
func Less(a, b string) bool {
	an, at, _ := Split(a)
	bn, bt, _ := Split(b)
	if an != bn {
		return an < bn
	}
	return tagLess(at, bt)
}

func tagLess(a, b string) bool {
	av := parseVersion(a)
	bv := parseVersion(b)
	switch {
	case av != nil && bv != nil:
		if c := av.Compare(bv); c != 0 {
			return c < 0
		}
	case av != nil:
		return true
	case bv != nil:
		return false
	}
	return a < b
}

// parseVersion returns the semver reading of a tag such as "1.2", "v3.22.1"
// or "1.25-alpine", or nil for tags like "latest" and "sha-abc123".
func parseVersion(tag string) *masterminds.Version {
	if tag == "" || tag == LatestTag || strings.HasPrefix(tag, "sha-") {
		return nil
	}
	v, err := masterminds.NewVersion(tag)
	if err != nil {
		return nil
	}
	return v
}
