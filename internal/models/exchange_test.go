package models

import "testing"

func TestHeader(t *testing.T) {
	headers := []HeaderValue{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "X-Dup", Value: "first"},
		{Name: "X-Dup", Value: "second"},
	}

	tests := []struct {
		name     string
		lookup   string
		expected string
		found    bool
	}{
		{"exact", "Content-Type", "application/json", true},
		{"case insensitive", "content-type", "application/json", true},
		{"first value wins", "x-dup", "first", true},
		{"missing", "Authorization", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Header(headers, tt.lookup)
			if ok != tt.found || got != tt.expected {
				t.Errorf("Header(%q) = %q, %v; expected %q, %v", tt.lookup, got, ok, tt.expected, tt.found)
			}
		})
	}
}

func TestDescriptorHeaders(t *testing.T) {
	d := &Descriptor{Status: 200}
	d.AddHeader("X-One", "1")
	d.AddHeader("X-Two", "2")

	if len(d.Headers) != 2 || d.Headers[0].Name != "X-One" {
		t.Errorf("Expected ordered headers, got %v", d.Headers)
	}
	if !d.HasHeader("x-one") {
		t.Error("Expected case-insensitive HasHeader match")
	}
	if d.HasHeader("X-Three") {
		t.Error("Unexpected HasHeader match")
	}
}

func TestOperationResponse(t *testing.T) {
	op := &Operation{
		Responses: []ResponseSpec{
			{Status: "200"},
			{Status: "default"},
		},
	}

	if op.Response("200") == nil {
		t.Error("Expected declared 200 response")
	}
	if op.Response("default") == nil {
		t.Error("Expected declared default response")
	}
	if op.Response("404") != nil {
		t.Error("Expected nil for undeclared status")
	}
}

func TestMediaTypeContentExample(t *testing.T) {
	c := &MediaTypeContent{
		Examples: []Example{
			{Name: "empty", Value: []any{}},
			{Name: "full", Value: []any{"x"}},
		},
	}

	if ex := c.Example("full"); ex == nil || ex.Name != "full" {
		t.Errorf("Expected named example, got %v", ex)
	}
	if c.Example("missing") != nil {
		t.Error("Expected nil for unknown example name")
	}
}
