package models

// Operation represents one (method, path) entry derived from an OpenAPI
// document, with every internal $ref already resolved inline. Operations are
// never mutated after derivation.
type Operation struct {
	Method      string         `json:"method"` // GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS
	Path        string         `json:"path"`   // Path template, e.g. /users/{id}
	BasePath    string         `json:"basePath,omitempty"`
	Servers     []string       `json:"servers,omitempty"`
	OperationID string         `json:"operationId,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Responses   []ResponseSpec `json:"responses,omitempty"`
}

// ResponseSpec is one declared response of an Operation. Status is the
// declared response key: a status code string such as "200", or "default".
type ResponseSpec struct {
	Status   string             `json:"status"`
	Headers  []HeaderSpec       `json:"headers,omitempty"`
	Contents []MediaTypeContent `json:"contents,omitempty"`
}

// HeaderSpec declares a response header and the schema its value is
// synthesized from. Headers without a schema are skipped during synthesis.
type HeaderSpec struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema,omitempty"`
}

// MediaTypeContent is one declared response representation. At most one is
// selected per incoming request, driven by the Accept header. Contents and
// Examples preserve document declaration order.
type MediaTypeContent struct {
	MediaType string         `json:"mediaType"`
	Schema    map[string]any `json:"schema,omitempty"`
	Examples  []Example      `json:"examples,omitempty"`
}

// Example is one named example value declared on a content entry.
type Example struct {
	Name  string `json:"name,omitempty"`
	Value any    `json:"value"`
}

// Response returns the declared ResponseSpec with the given status key.
func (o *Operation) Response(status string) *ResponseSpec {
	for i := range o.Responses {
		if o.Responses[i].Status == status {
			return &o.Responses[i]
		}
	}
	return nil
}

// Example returns the declared example with the given name.
func (c *MediaTypeContent) Example(name string) *Example {
	for i := range c.Examples {
		if c.Examples[i].Name == name {
			return &c.Examples[i]
		}
	}
	return nil
}
