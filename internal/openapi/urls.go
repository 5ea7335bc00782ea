package openapi

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/specmock/specmock/internal/models"
)

var pathParamPattern = regexp.MustCompile(`\{([^/{}]+)\}`)

// PathPattern converts an OpenAPI path template to the engine's matcher
// syntax: "/users/{id}" becomes "/users/:id".
func PathPattern(path string) string {
	return pathParamPattern.ReplaceAllString(path, ":$1")
}

// ServerRoots returns the candidate server roots to intercept for an
// operation: the v2 basePath verbatim when declared, otherwise every declared
// v3 server URL, otherwise the root path.
func ServerRoots(op *models.Operation) []string {
	if op.BasePath != "" {
		return []string{op.BasePath}
	}
	if len(op.Servers) > 0 {
		return op.Servers
	}
	return []string{"/"}
}

// JoinURL combines a server root with a path pattern. Absolute roots keep
// their scheme and host; relative roots are joined by path segments without
// duplicate separators.
func JoinURL(root, path string) string {
	if u, err := url.Parse(root); err == nil && u.IsAbs() {
		u.Path = joinPath(u.Path, path)
		return u.String()
	}
	return joinPath(root, path)
}

func joinPath(a, b string) string {
	a = strings.TrimSuffix(a, "/")
	if !strings.HasPrefix(b, "/") {
		b = "/" + b
	}
	return a + b
}
