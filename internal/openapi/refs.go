package openapi

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxRefDepth bounds pointer chains ($ref resolving to another $ref). Real
// documents stay well under this; hitting it means a degenerate document.
const maxRefDepth = 64

// expandRefs resolves every internal $ref in the document tree by splicing
// the referenced node in place of the pointer. Refs may nest to arbitrary
// depth; a pointer chain that revisits a pointer already being expanded is a
// cycle and fails loudly instead of looping.
func expandRefs(root *yaml.Node) error {
	return expand(root, root, map[string]bool{}, 0)
}

func expand(root, n *yaml.Node, inflight map[string]bool, depth int) error {
	if n == nil {
		return nil
	}
	if depth > maxRefDepth {
		return fmt.Errorf("$ref nesting exceeds %d levels", maxRefDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			if err := expand(root, c, inflight, depth); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return expand(root, n.Alias, inflight, depth)
	case yaml.MappingNode:
		if ptr, ok := refPointer(n); ok {
			if inflight[ptr] {
				return fmt.Errorf("cyclic $ref %q", ptr)
			}
			target, err := lookupPointer(root, ptr)
			if err != nil {
				return err
			}
			inflight[ptr] = true
			if err := expand(root, target, inflight, depth+1); err != nil {
				return err
			}
			delete(inflight, ptr)
			// Splice: the pointer node becomes the resolved node. Sharing the
			// target's children is safe because the tree is read-only after
			// normalization.
			*n = *target
			return nil
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := expand(root, n.Content[i+1], inflight, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// refPointer reports whether n is a $ref mapping and returns its pointer.
func refPointer(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "$ref" && n.Content[i+1].Kind == yaml.ScalarNode {
			return n.Content[i+1].Value, true
		}
	}
	return "", false
}

// lookupPointer walks a JSON pointer ("#/components/schemas/Pet") from the
// document root. Only internal pointers are supported; anything else is an
// unresolvable reference and fails setup.
func lookupPointer(root *yaml.Node, ptr string) (*yaml.Node, error) {
	if !strings.HasPrefix(ptr, "#/") {
		return nil, fmt.Errorf("unresolvable $ref %q: only internal document pointers are supported", ptr)
	}

	node := deref(root)
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = deref(node.Content[0])
	}

	for _, seg := range strings.Split(strings.TrimPrefix(ptr, "#/"), "/") {
		seg = strings.ReplaceAll(seg, "~1", "/")
		seg = strings.ReplaceAll(seg, "~0", "~")

		switch node.Kind {
		case yaml.MappingNode:
			next := mapValue(node, seg)
			if next == nil {
				return nil, fmt.Errorf("unresolvable $ref %q: no member %q", ptr, seg)
			}
			node = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node.Content) {
				return nil, fmt.Errorf("unresolvable $ref %q: bad index %q", ptr, seg)
			}
			node = deref(node.Content[idx])
		default:
			return nil, fmt.Errorf("unresolvable $ref %q: %q is not a container", ptr, seg)
		}
	}
	return node, nil
}
