package archive

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specmock/specmock/internal/models"
	"github.com/tidwall/gjson"
)

// HAR (HTTP Archive 1.2) wire types.

type har struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Version string     `json:"version"`
	Creator harCreator `json:"creator"`
	Entries []harEntry `json:"entries"`
}

type harCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type harEntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Time            float64     `json:"time"` // total elapsed time in milliseconds
	Request         harRequest  `json:"request"`
	Response        harResponse `json:"response"`
}

type harRequest struct {
	Method  string         `json:"method"`
	URL     string         `json:"url"`
	Headers []harNameValue `json:"headers"`
	Query   []harNameValue `json:"queryString"`
}

type harResponse struct {
	Status     int            `json:"status"`
	StatusText string         `json:"statusText"`
	Headers    []harNameValue `json:"headers"`
	Content    harContent     `json:"content"`
}

type harNameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harContent struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
	Encoding string `json:"encoding"`
}

// Options control how archive entries are converted to exchanges.
type Options struct {
	// IncludeStatic keeps entries for static assets (scripts, styles, images,
	// fonts). They are filtered out by default since they rarely belong in a
	// mocked API surface.
	IncludeStatic bool
}

// staticExtensions lists asset extensions filtered out by default.
var staticExtensions = map[string]bool{
	".js": true, ".css": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".svg": true, ".ico": true, ".woff": true, ".woff2": true,
	".ttf": true, ".eot": true, ".map": true,
}

// headers that describe the recording transport, not the exchange itself.
var excludedResponseHeaders = map[string]bool{
	"content-length":    true,
	"content-encoding":  true,
	"transfer-encoding": true,
	"connection":        true,
	"date":              true,
}

// Load reads a HAR file from disk and returns the recorded exchanges in
// archive order.
func Load(path string, opts Options) ([]models.Exchange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	exchanges, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}
	return exchanges, nil
}

// Parse decodes HAR JSON and converts every entry into an Exchange,
// preserving archive order. Multiple entries for the same (method, url) each
// become their own exchange; dispatch-time first-match semantics decide which
// one answers.
func Parse(data []byte, opts Options) ([]models.Exchange, error) {
	var archive har
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("parse HAR: %w", err)
	}
	if archive.Log.Version == "" {
		return nil, fmt.Errorf("parse HAR: missing log.version")
	}

	exchanges := make([]models.Exchange, 0, len(archive.Log.Entries))
	for _, entry := range archive.Log.Entries {
		if !opts.IncludeStatic && isStaticAsset(entry.Request.URL, entry.Response.Content.MimeType) {
			continue
		}
		exchanges = append(exchanges, entryToExchange(entry))
	}
	return exchanges, nil
}

// entryToExchange converts one HAR entry. Absent data stays absent: an entry
// with no recorded body replays with no body.
func entryToExchange(entry harEntry) models.Exchange {
	ex := models.Exchange{
		Method: strings.ToUpper(entry.Request.Method),
		URL:    entry.Request.URL,
		Status: entry.Response.Status,
	}

	for _, h := range entry.Request.Headers {
		ex.RequestHeaders = append(ex.RequestHeaders, models.HeaderValue{Name: h.Name, Value: h.Value})
	}
	for _, h := range entry.Response.Headers {
		if excludedResponseHeaders[strings.ToLower(h.Name)] {
			continue
		}
		ex.ResponseHeaders = append(ex.ResponseHeaders, models.HeaderValue{Name: h.Name, Value: h.Value})
	}

	ex.Body = decodeContent(entry.Response.Content)

	if _, ok := models.Header(ex.ResponseHeaders, "Content-Type"); !ok {
		if ct := contentType(entry.Response.Content, ex.Body); ct != "" {
			ex.ResponseHeaders = append(ex.ResponseHeaders, models.HeaderValue{Name: "Content-Type", Value: ct})
		}
	}

	if entry.Time > 0 {
		ex.Timing = time.Duration(entry.Time * float64(time.Millisecond))
	}
	return ex
}

// decodeContent returns the recorded body bytes, honoring base64 encoding.
func decodeContent(content harContent) []byte {
	if content.Text == "" {
		return nil
	}
	if content.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(content.Text)
		if err == nil {
			return decoded
		}
		// Undecodable content is replayed as recorded.
	}
	return []byte(content.Text)
}

// contentType picks a content type for entries whose recorded headers lack
// one: the recorded mime type when present, otherwise sniffed from the body.
func contentType(content harContent, body []byte) string {
	if content.MimeType != "" {
		return content.MimeType
	}
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		return "application/json"
	}
	return "text/plain"
}

// isStaticAsset reports whether an entry records a static asset fetch.
func isStaticAsset(requestURL, mimeType string) bool {
	if parsed, err := url.Parse(requestURL); err == nil {
		if staticExtensions[strings.ToLower(filepath.Ext(parsed.Path))] {
			return true
		}
	}

	mimeType = strings.ToLower(mimeType)
	for _, prefix := range []string{
		"text/javascript", "application/javascript", "text/css",
		"image/", "font/", "application/font",
	} {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
