// Package video parses user-supplied URLs into canonical video identifiers.
package video

import (
	"errors"
	"regexp"
)

// ErrNoIdentifier reports a URL carrying no recognizable video identifier.
// Callers use it to distinguish bad input from downstream failures.
var ErrNoIdentifier = errors.New("could not extract video ID from URL")

// idPatterns are tried in order; the first capturing match wins. Each capture
// stops at the first '&', '?', or whitespace boundary.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^&?\s]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&?\s]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&?\s]+)`),
	regexp.MustCompile(`youtu\.be/([^&?\s]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&?\s]+)`),
}

// ExtractID extracts a video identifier from a URL in any supported shape
// (watch, embed, /v/ path, short link, shorts). The second return is false
// when no shape matches; callers must treat that as a client input error.
func ExtractID(url string) (string, bool) {
	for _, pattern := range idPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}
