// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from display names and
// the tokenizer used to map a slug back onto catalog names.
package slug

import (
	"regexp"
	"strings"
)

// MinTokenLen is the shortest token kept by Tokens. Shorter fragments
// ("a", "of", "io") match too many names to be useful.
const MinTokenLen = 3

// nonAlphanumeric matches runs of anything that isn't a lowercase letter or digit.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string.
// Example: "Compress Video API (Job)" → "compress-video-api-job"
//
// The mapping is lossy: punctuation, case and non-ASCII letters are dropped,
// so distinct names can share a slug.
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Tokens splits a slug into lowercase alphanumeric tokens, discarding tokens
// shorter than MinTokenLen.
func Tokens(s string) []string {
	parts := nonAlphanumeric.Split(strings.ToLower(s), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) >= MinTokenLen {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// MatchesAll reports whether name, lower-cased, contains every token as a
// substring. Token order is irrelevant. An empty token list matches nothing.
func MatchesAll(name string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	lower := strings.ToLower(name)
	for _, tok := range tokens {
		if !strings.Contains(lower, tok) {
			return false
		}
	}
	return true
}
