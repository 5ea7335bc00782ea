package openapi

import (
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Document is a parsed OpenAPI v2 or v3 document with every internal $ref
// resolved inline. It is read-only after Load.
type Document struct {
	root    *yaml.Node
	version int // 2 or 3
}

// LoadFile reads and loads an OpenAPI document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}
	doc, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("spec %s: %w", path, err)
	}
	return doc, nil
}

// Load parses an OpenAPI document from YAML or JSON bytes. Version 3
// documents are validated with kin-openapi before normalization; a document
// that fails validation or contains an unresolvable or cyclic $ref is
// rejected here, at setup time, rather than surfacing as a broken handler.
func Load(data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse document: empty document")
	}
	root := doc.Content[0]

	var version int
	switch {
	case mapValue(root, "swagger") != nil:
		version = 2
	case mapValue(root, "openapi") != nil:
		version = 3
	default:
		return nil, fmt.Errorf("parse document: neither an OpenAPI v3 nor a Swagger v2 document")
	}

	if version == 3 {
		loader := openapi3.NewLoader()
		t, err := loader.LoadFromData(data)
		if err != nil {
			return nil, fmt.Errorf("load OpenAPI spec: %w", err)
		}
		if err := t.Validate(loader.Context); err != nil {
			return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
		}
	}

	if err := expandRefs(root); err != nil {
		return nil, err
	}

	return &Document{root: root, version: version}, nil
}

// Version returns the major OpenAPI version, 2 or 3.
func (d *Document) Version() int {
	return d.version
}

// Title returns the document's info.title, if any.
func (d *Document) Title() string {
	if info := mapValue(d.root, "info"); info != nil {
		return scalarValue(info, "title")
	}
	return ""
}

// mapValue returns the value node for key in a mapping node, or nil.
func mapValue(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

// scalarValue returns the scalar string value for key, or "".
func scalarValue(n *yaml.Node, key string) string {
	if v := mapValue(n, key); v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}
	return ""
}

// deref follows YAML anchor aliases.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
