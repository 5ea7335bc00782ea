// Package seed generates concrete values conforming to JSON Schema subsets
// found in OpenAPI documents. Generation is deterministic: the same schema
// always seeds the same value, so resolving a request twice yields identical
// responses.
package seed

import (
	"strings"

	"github.com/google/uuid"
)

// maxDepth bounds recursion through self-similar schema shapes.
const maxDepth = 16

// Example produces a value conforming to schema. The schema is first
// normalized on a private deep copy (the caller's schema is never mutated):
// any "examples" keyword at any depth is collapsed to a single "example"
// exemplar, keeping only the first declared value.
func Example(schema map[string]any) any {
	normalized, _ := Normalize(schema).(map[string]any)
	return generate(normalized, "", 0)
}

// Normalize deep-copies a schema value tree, collapsing each "examples" list
// to the single exemplar the generator expects.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if k == "examples" {
				if list, ok := item.([]any); ok {
					if _, has := val["example"]; !has && len(list) > 0 {
						out["example"] = Normalize(list[0])
					}
					continue
				}
			}
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// generate follows the priority chain: example, enum, default, composition,
// then type-specific seeding.
func generate(schema map[string]any, propertyName string, depth int) any {
	if schema == nil || depth > maxDepth {
		return nil
	}

	if example, ok := schema["example"]; ok {
		return example
	}
	if enum, ok := schema["enum"].([]any); ok && len(enum) > 0 {
		return enum[0]
	}
	if def, ok := schema["default"]; ok {
		return def
	}

	if allOf, ok := schema["allOf"].([]any); ok && len(allOf) > 0 {
		return generateAllOf(schema, allOf, depth)
	}
	if v := firstVariant(schema, "oneOf"); v != nil {
		return generate(v, propertyName, depth+1)
	}
	if v := firstVariant(schema, "anyOf"); v != nil {
		return generate(v, propertyName, depth+1)
	}

	switch schemaType(schema) {
	case "object":
		return generateObject(schema, depth)
	case "array":
		return generateArray(schema, depth)
	case "string":
		return generateString(schema, propertyName)
	case "integer":
		return generateInteger(schema)
	case "number":
		return generateNumber(schema)
	case "boolean":
		return true
	default:
		// Typeless schema with properties is treated as an object.
		if _, ok := schema["properties"].(map[string]any); ok {
			return generateObject(schema, depth)
		}
		return nil
	}
}

// schemaType returns the schema's type, tolerating the 3.1 list form.
func schemaType(schema map[string]any) string {
	switch t := schema["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

func firstVariant(schema map[string]any, keyword string) map[string]any {
	if list, ok := schema[keyword].([]any); ok && len(list) > 0 {
		if v, ok := list[0].(map[string]any); ok {
			return v
		}
	}
	return nil
}

func generateObject(schema map[string]any, depth int) any {
	props, _ := schema["properties"].(map[string]any)
	obj := make(map[string]any, len(props))
	for name, prop := range props {
		if p, ok := prop.(map[string]any); ok {
			obj[name] = generate(p, name, depth+1)
		}
	}
	return obj
}

func generateAllOf(schema map[string]any, allOf []any, depth int) any {
	merged := make(map[string]any)
	for _, sub := range allOf {
		s, ok := sub.(map[string]any)
		if !ok {
			continue
		}
		if m, ok := generate(s, "", depth+1).(map[string]any); ok {
			for k, v := range m {
				merged[k] = v
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for name, prop := range props {
			if p, ok := prop.(map[string]any); ok {
				merged[name] = generate(p, name, depth+1)
			}
		}
	}
	return merged
}

func generateArray(schema map[string]any, depth int) any {
	count := 1
	if min, ok := numberValue(schema["minItems"]); ok && int(min) > count {
		count = int(min)
	}
	if max, ok := numberValue(schema["maxItems"]); ok && int(max) < count {
		count = int(max)
	}
	if count > 3 {
		count = 3
	}

	items, _ := schema["items"].(map[string]any)
	out := make([]any, count)
	for i := range out {
		out[i] = generate(items, "", depth+1)
	}
	return out
}

func generateString(schema map[string]any, propertyName string) any {
	if format, ok := schema["format"].(string); ok && format != "" {
		if v := stringByFormat(format, propertyName); v != "" {
			return v
		}
	}
	if v := stringByFieldName(propertyName); v != "" {
		return v
	}
	if min, ok := numberValue(schema["minLength"]); ok && int(min) > 6 {
		return strings.Repeat("x", int(min))
	}
	return "string"
}

// stringByFormat maps well-known formats to fixed exemplars. UUIDs are
// derived from the property name so distinct fields get distinct but stable
// identifiers.
func stringByFormat(format, propertyName string) string {
	switch format {
	case "uuid":
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte("specmock:"+propertyName)).String()
	case "date-time":
		return "2024-01-01T00:00:00Z"
	case "date":
		return "2024-01-01"
	case "time":
		return "00:00:00Z"
	case "email":
		return "user@example.com"
	case "uri", "url":
		return "https://example.com"
	case "hostname":
		return "example.com"
	case "ipv4":
		return "192.0.2.1"
	case "ipv6":
		return "2001:db8::1"
	case "byte":
		return "c3RyaW5n"
	case "password":
		return "********"
	default:
		return ""
	}
}

// stringByFieldName covers common field names when no format is declared.
func stringByFieldName(name string) string {
	switch strings.ToLower(name) {
	case "id", "uuid":
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte("specmock:"+name)).String()
	case "name", "username":
		return "example"
	case "email":
		return "user@example.com"
	case "url", "uri", "link", "href":
		return "https://example.com"
	case "description":
		return "A description"
	default:
		return ""
	}
}

func generateInteger(schema map[string]any) any {
	if min, ok := numberValue(schema["minimum"]); ok {
		return int(min)
	}
	if max, ok := numberValue(schema["maximum"]); ok && max < 0 {
		return int(max)
	}
	return 0
}

func generateNumber(schema map[string]any) any {
	if min, ok := numberValue(schema["minimum"]); ok {
		return min
	}
	if max, ok := numberValue(schema["maximum"]); ok && max < 0 {
		return max
	}
	return 0.0
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
