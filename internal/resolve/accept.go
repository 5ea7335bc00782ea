package resolve

import (
	"regexp"
	"strings"

	"github.com/specmock/specmock/internal/models"
)

// SelectContent picks at most one declared content for a request. Accepted
// patterns are evaluated in the order the client listed them; the first
// pattern matching any declared content type wins and that declared type is
// selected. With no Accept header the first declared content is used. The
// selection is deterministic for a given (header, declared types) pair.
func SelectContent(accept string, contents []models.MediaTypeContent) *models.MediaTypeContent {
	if len(contents) == 0 {
		return nil
	}
	if accept == "" {
		return &contents[0]
	}
	for _, pattern := range splitAccept(accept) {
		re, err := patternRegexp(pattern)
		if err != nil {
			continue
		}
		for i := range contents {
			if re.MatchString(contents[i].MediaType) {
				return &contents[i]
			}
		}
	}
	return nil
}

// splitAccept returns the comma-separated type patterns in client order.
// Media-type parameters (";q=0.8" and friends) are dropped; only the pattern
// itself participates in matching.
func splitAccept(header string) []string {
	parts := strings.Split(header, ",")
	patterns := parts[:0]
	for _, p := range parts {
		if i := strings.IndexByte(p, ';'); i >= 0 {
			p = p[:i]
		}
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// patternRegexp converts an Accept pattern to a regular expression: the
// literal "/" is escaped and each "*" matches one or more of any character,
// so "*/*" and "application/*" behave as media-type wildcards.
func patternRegexp(pattern string) (*regexp.Regexp, error) {
	pattern = strings.ReplaceAll(pattern, "/", `\/`)
	pattern = strings.ReplaceAll(pattern, "*", ".+")
	return regexp.Compile(pattern)
}
