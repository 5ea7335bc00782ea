package models

import (
	"strings"
	"time"
)

// Exchange represents one recorded HTTP request/response pair loaded from a
// traffic archive. It is immutable once loaded; replay never synthesizes data
// that was not recorded.
type Exchange struct {
	Method          string        `json:"method"`
	URL             string        `json:"url"`
	RequestHeaders  []HeaderValue `json:"requestHeaders,omitempty"`
	Status          int           `json:"status"`
	ResponseHeaders []HeaderValue `json:"responseHeaders,omitempty"`
	Body            []byte        `json:"body,omitempty"`
	Timing          time.Duration `json:"timing"`
}

// HeaderValue is a single header name/value pair. Headers are kept as an
// ordered list rather than a map so that replay preserves recorded order.
type HeaderValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Header returns the first value for the named header, case-insensitively.
func Header(headers []HeaderValue, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}
