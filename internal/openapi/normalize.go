package openapi

import (
	"fmt"
	"strings"

	"github.com/specmock/specmock/internal/models"
	"gopkg.in/yaml.v3"
)

// supportedMethods is the finite HTTP-method set the interception engine can
// dispatch. Path-item keys outside this set (vendor extensions, "trace",
// "parameters", "summary") are silently dropped: a compatibility boundary,
// not an error.
var supportedMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

// Operations flattens the document into its operation list. Declaration order
// of paths, methods, response contents and examples is preserved.
func (d *Document) Operations() ([]models.Operation, error) {
	basePath := scalarValue(d.root, "basePath")
	servers := d.serverURLs()
	produces := stringList(mapValue(d.root, "produces"))

	paths := mapValue(d.root, "paths")
	if paths == nil || paths.Kind != yaml.MappingNode {
		return nil, nil
	}

	var ops []models.Operation
	for i := 0; i+1 < len(paths.Content); i += 2 {
		pathKey := paths.Content[i].Value
		item := deref(paths.Content[i+1])
		if item == nil || item.Kind != yaml.MappingNode {
			continue
		}

		for j := 0; j+1 < len(item.Content); j += 2 {
			method := strings.ToLower(item.Content[j].Value)
			if !supportedMethods[method] {
				continue
			}
			op, err := d.operation(method, pathKey, basePath, servers, produces, deref(item.Content[j+1]))
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), pathKey, err)
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (d *Document) operation(method, path, basePath string, servers, docProduces []string, n *yaml.Node) (models.Operation, error) {
	op := models.Operation{
		Method:      strings.ToUpper(method),
		Path:        path,
		BasePath:    basePath,
		Servers:     servers,
		OperationID: scalarValue(n, "operationId"),
		Summary:     scalarValue(n, "summary"),
	}

	produces := stringList(mapValue(n, "produces"))
	if len(produces) == 0 {
		produces = docProduces
	}

	responses := mapValue(n, "responses")
	if responses == nil || responses.Kind != yaml.MappingNode {
		return op, nil
	}

	for i := 0; i+1 < len(responses.Content); i += 2 {
		status := responses.Content[i].Value
		respNode := deref(responses.Content[i+1])
		spec, err := d.responseSpec(status, produces, respNode)
		if err != nil {
			return op, fmt.Errorf("response %s: %w", status, err)
		}
		op.Responses = append(op.Responses, spec)
	}
	return op, nil
}

func (d *Document) responseSpec(status string, produces []string, n *yaml.Node) (models.ResponseSpec, error) {
	spec := models.ResponseSpec{Status: status}
	if n == nil || n.Kind != yaml.MappingNode {
		return spec, nil
	}

	if headers := mapValue(n, "headers"); headers != nil && headers.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(headers.Content); i += 2 {
			name := headers.Content[i].Value
			hs, err := d.headerSpec(name, deref(headers.Content[i+1]))
			if err != nil {
				return spec, err
			}
			spec.Headers = append(spec.Headers, hs)
		}
	}

	if d.version == 3 {
		contents, err := contentList(mapValue(n, "content"))
		if err != nil {
			return spec, err
		}
		spec.Contents = contents
		return spec, nil
	}

	// Swagger v2: a single response schema shared across the operation's
	// produces list, with literal examples keyed by media type.
	schema, err := decodeSchema(mapValue(n, "schema"))
	if err != nil {
		return spec, err
	}
	examples := mapValue(n, "examples")
	mediaTypes := produces
	if len(mediaTypes) == 0 && (schema != nil || examples != nil) {
		mediaTypes = []string{"application/json"}
	}
	for _, mt := range mediaTypes {
		content := models.MediaTypeContent{MediaType: mt, Schema: schema}
		if ex := mapValue(examples, mt); ex != nil {
			var value any
			if err := ex.Decode(&value); err != nil {
				return spec, fmt.Errorf("example %s: %w", mt, err)
			}
			content.Examples = append(content.Examples, models.Example{Value: value})
		}
		spec.Contents = append(spec.Contents, content)
	}
	return spec, nil
}

// headerSpec extracts a header declaration. In v3 the schema sits under a
// "schema" member; in v2 the header object is itself the schema.
func (d *Document) headerSpec(name string, n *yaml.Node) (models.HeaderSpec, error) {
	hs := models.HeaderSpec{Name: name}
	schemaNode := n
	if d.version == 3 {
		schemaNode = mapValue(n, "schema")
	}
	schema, err := decodeSchema(schemaNode)
	if err != nil {
		return hs, fmt.Errorf("header %s: %w", name, err)
	}
	hs.Schema = schema
	return hs, nil
}

// contentList converts a v3 content mapping, preserving declaration order of
// media types and named examples.
func contentList(n *yaml.Node) ([]models.MediaTypeContent, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, nil
	}

	var contents []models.MediaTypeContent
	for i := 0; i+1 < len(n.Content); i += 2 {
		mediaType := n.Content[i].Value
		mtNode := deref(n.Content[i+1])

		content := models.MediaTypeContent{MediaType: mediaType}

		schema, err := decodeSchema(mapValue(mtNode, "schema"))
		if err != nil {
			return nil, fmt.Errorf("content %s: %w", mediaType, err)
		}
		content.Schema = schema

		if ex := mapValue(mtNode, "example"); ex != nil {
			var value any
			if err := ex.Decode(&value); err != nil {
				return nil, fmt.Errorf("content %s example: %w", mediaType, err)
			}
			content.Examples = append(content.Examples, models.Example{Value: value})
		}

		if named := mapValue(mtNode, "examples"); named != nil && named.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(named.Content); j += 2 {
				exName := named.Content[j].Value
				exNode := deref(named.Content[j+1])

				// OpenAPI wraps example payloads in an Example Object; bare
				// values are tolerated.
				valueNode := mapValue(exNode, "value")
				if valueNode == nil {
					valueNode = exNode
				}
				var value any
				if err := valueNode.Decode(&value); err != nil {
					return nil, fmt.Errorf("content %s example %s: %w", mediaType, exName, err)
				}
				content.Examples = append(content.Examples, models.Example{Name: exName, Value: value})
			}
		}

		contents = append(contents, content)
	}
	return contents, nil
}

// decodeSchema decodes a schema node into a plain value tree for the seeding
// routine. Every handler works on its own decoded copy, so synthesis never
// touches the document.
func decodeSchema(n *yaml.Node) (map[string]any, error) {
	if n == nil {
		return nil, nil
	}
	var schema map[string]any
	if err := n.Decode(&schema); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return schema, nil
}

// serverURLs returns the v3 servers[].url list in declaration order.
func (d *Document) serverURLs() []string {
	servers := mapValue(d.root, "servers")
	if servers == nil || servers.Kind != yaml.SequenceNode {
		return nil
	}
	var urls []string
	for _, s := range servers.Content {
		if u := scalarValue(deref(s), "url"); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// stringList decodes a sequence of scalars (e.g. a v2 produces list).
func stringList(n *yaml.Node) []string {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	var out []string
	for _, c := range n.Content {
		c = deref(c)
		if c != nil && c.Kind == yaml.ScalarNode {
			out = append(out, c.Value)
		}
	}
	return out
}
