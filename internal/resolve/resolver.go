// Package resolve implements the response-resolution core: given an
// operation and an intercepted request it decides status code, headers,
// and body. Resolution is a pure function of its inputs; resolvers carry no
// mutable state and are safe for concurrent dispatch.
package resolve

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/specmock/specmock/internal/models"
	"github.com/specmock/specmock/internal/seed"
)

// Query parameters of the per-request override protocol.
const (
	responseParam = "response"
	exampleParam  = "example"
)

// Operation returns a resolver bound to op.
func Operation(op *models.Operation) models.Resolver {
	return func(r *http.Request) *models.Descriptor {
		return resolveOperation(op, r)
	}
}

func resolveOperation(op *models.Operation, r *http.Request) *models.Descriptor {
	if len(op.Responses) == 0 {
		return notImplemented()
	}

	query := r.URL.Query()
	spec, status := selectResponse(op, query.Get(responseParam))
	if spec == nil {
		return notImplemented()
	}

	d := &models.Descriptor{Status: status}
	content := SelectContent(r.Header.Get("Accept"), spec.Contents)

	// Declared header schemas are synthesized first; content-type is appended
	// only when a content was negotiated and no declared header already set
	// one. Headers without a schema are skipped.
	for _, h := range spec.Headers {
		if h.Schema == nil {
			continue
		}
		value := seed.Example(h.Schema)
		if value == nil {
			continue
		}
		d.AddHeader(h.Name, headerString(value))
	}
	if content != nil && !d.HasHeader("content-type") {
		d.AddHeader("content-type", content.MediaType)
	}

	d.Body = synthesizeBody(content, query.Get(exampleParam))
	return d
}

// selectResponse picks the declared response: an explicit ?response=<code>
// override selects that exact declared code or nothing; otherwise "200" is
// preferred, falling back to "default".
func selectResponse(op *models.Operation, override string) (*models.ResponseSpec, int) {
	if override != "" {
		spec := op.Response(override)
		if spec == nil {
			return nil, 0
		}
		if code, err := strconv.Atoi(override); err == nil {
			return spec, code
		}
		return spec, http.StatusOK
	}
	if spec := op.Response("200"); spec != nil {
		return spec, http.StatusOK
	}
	if spec := op.Response("default"); spec != nil {
		return spec, http.StatusOK
	}
	return nil, 0
}

// synthesizeBody attempts, in order: the named example, the first declared
// example, a schema-seeded value, or no body. A request naming a missing
// example gets a textual error payload rather than a failure, and any panic
// during synthesis degrades to an empty body so one malformed response
// definition cannot abort the mock session.
func synthesizeBody(content *models.MediaTypeContent, exampleName string) (body []byte) {
	if content == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("body synthesis failed for %s: %v", content.MediaType, r)
			body = nil
		}
	}()

	if len(content.Examples) > 0 {
		if exampleName != "" {
			ex := content.Example(exampleName)
			if ex == nil {
				return []byte(fmt.Sprintf("Cannot find example by name %q", exampleName))
			}
			return serialize(ex.Value)
		}
		return serialize(content.Examples[0].Value)
	}

	if content.Schema != nil {
		value := seed.Example(content.Schema)
		if value == nil {
			return nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		return data
	}
	return nil
}

// serialize returns text values verbatim and everything else as JSON.
func serialize(value any) []byte {
	if s, ok := value.(string); ok {
		return []byte(s)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return data
}

// headerString renders a synthesized header value: strings as-is, structured
// values as JSON.
func headerString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func notImplemented() *models.Descriptor {
	return &models.Descriptor{Status: http.StatusNotImplemented}
}
