package service

import (
	"regexp"
	"strings"
)

// KeywordNormalizer canonicalizes raw keyword strings into comparable keys.
type KeywordNormalizer struct {
	spacePattern *regexp.Regexp
	stripPattern *regexp.Regexp
}

// NewKeywordNormalizer creates a new normalizer.
func NewKeywordNormalizer() *KeywordNormalizer {
	return &KeywordNormalizer{
		spacePattern: regexp.MustCompile(`\s+`),
		stripPattern: regexp.MustCompile(`[^a-z0-9 ]`),
	}
}

// Normalize lower-cases, trims, collapses whitespace runs to one space and
// strips every character outside [a-z0-9 ]. Total and idempotent: any
// input, including empty, yields a stable key and never an error.
func (kn *KeywordNormalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(strings.ToLower(s))
	s = kn.spacePattern.ReplaceAllString(s, " ")
	s = kn.stripPattern.ReplaceAllString(s, "")
	// Stripping can leave fresh double spaces ("a - b" -> "a  b");
	// collapse once more so normalize(normalize(x)) == normalize(x).
	s = kn.spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
