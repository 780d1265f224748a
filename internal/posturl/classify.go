// Package posturl recognizes LinkedIn post URLs and pulls the numeric
// activity identifier out of them.
//
// Validation is intentionally loose (any known path marker will do) while
// identifier extraction is strict, because the upstream API accepts only the
// numeric ID and users paste post URLs in many historical formats.
package posturl

import (
	"regexp"
	"strings"

	"postreach/internal/domain"
)

const (
	reasonRequired = "URL is required"
	reasonInvalid  = "Invalid LinkedIn post URL. Please provide a valid LinkedIn post or activity URL."
	reasonValid    = "Valid LinkedIn post URL"
)

var shapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`linkedin\.com/posts/`),
	regexp.MustCompile(`linkedin\.com/feed/update/`),
	regexp.MustCompile(`linkedin\.com/pulse/`),
	regexp.MustCompile(`linkedin\.com/embed/feed/update/`),
}

// Order matters: the first pattern that matches wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`activity[:-](\d+)`),
	regexp.MustCompile(`ugcPost[:-](\d+)`),
	regexp.MustCompile(`update/urn:li:activity:(\d+)`),
	regexp.MustCompile(`update/urn:li:ugcPost:(\d+)`),
	regexp.MustCompile(`-(\d{19,20})-`),
	regexp.MustCompile(`-(\d{19,20})(?:\?|$)`),
}

// Validate checks that rawURL looks like a LinkedIn post URL and returns a
// human-readable message either way.
func Validate(rawURL string) (bool, string) {
	if rawURL == "" {
		return false, reasonRequired
	}
	for _, p := range shapePatterns {
		if p.MatchString(rawURL) {
			return true, reasonValid
		}
	}
	return false, reasonInvalid
}

// Classify validates rawURL and extracts its activity identifier.
// An unrecognized URL yields an *InvalidURLError. A recognized URL without an
// extractable identifier is not an error here; the returned reference simply
// has no ActivityID.
func Classify(rawURL string) (domain.PostReference, error) {
	rawURL = strings.TrimSpace(rawURL)
	if ok, reason := Validate(rawURL); !ok {
		return domain.PostReference{}, &InvalidURLError{URL: rawURL, Reason: reason}
	}

	ref := domain.PostReference{URL: rawURL}
	if id, ok := ExtractPostID(rawURL); ok {
		ref.ActivityID = id
	}
	return ref, nil
}

// ExtractPostID returns the digit run captured by the first matching
// identifier pattern.
func ExtractPostID(rawURL string) (string, bool) {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// RequireActivityID is Classify for callers that cannot proceed without an
// identifier.
func RequireActivityID(rawURL string) (domain.PostReference, error) {
	ref, err := Classify(rawURL)
	if err != nil {
		return ref, err
	}
	if !ref.HasActivityID() {
		return ref, ErrIdentifierNotFound
	}
	return ref, nil
}
