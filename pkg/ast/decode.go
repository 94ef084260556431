package ast

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a YAML or JSON document holding a tree. Mappings become nodes
// (the "type" key carries the kind), sequences become lists and scalars become
// primitives. Keys named pseudo_type or ending in "_type" hold semantic types,
// written either as "Name<P1, P2>" strings or as nested [Name, P1, P2] lists.
func Decode(data []byte) (*Node, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("ast: document is empty")
	}
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	return &root, nil
}

// DecodeModule decodes a document and requires a module root.
func DecodeModule(data []byte) (*Node, error) {
	root, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if root.Kind != KindModule {
		return nil, fmt.Errorf("ast: root node must be %q, got %q", KindModule, root.Kind)
	}
	return root, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: node must be a mapping", value.Line)
	}

	out := Node{Attrs: make(Attrs)}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		raw := resolveAlias(value.Content[i+1])
		if isNull(raw) {
			continue
		}

		switch {
		case key == "type":
			out.Kind = Kind(strings.TrimSpace(raw.Value))
		case key == TypeAttr:
			t := &Type{}
			if err := t.UnmarshalYAML(raw); err != nil {
				return err
			}
			out.Type = t
		case strings.HasSuffix(key, "_type"):
			t := &Type{}
			if err := t.UnmarshalYAML(raw); err != nil {
				return err
			}
			out.Attrs[key] = t
		default:
			decoded, err := decodeValue(raw)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", key, err)
			}
			out.Attrs[key] = decoded
		}
	}

	if out.Kind == "" {
		return fmt.Errorf("line %d: node is missing its type", value.Line)
	}
	if !out.Kind.Known() {
		return fmt.Errorf("line %d: unknown node type %q", value.Line, out.Kind)
	}
	*n = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseType(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*t = *parsed
		return nil
	case yaml.SequenceNode:
		if len(value.Content) == 0 {
			return fmt.Errorf("line %d: type list is empty", value.Line)
		}
		head := resolveAlias(value.Content[0])
		if head.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: type name must be a scalar", head.Line)
		}
		out := Type{Name: strings.TrimSpace(head.Value)}
		for _, item := range value.Content[1:] {
			param := &Type{}
			if err := param.UnmarshalYAML(item); err != nil {
				return err
			}
			out.Params = append(out.Params, param)
		}
		*t = out
		return nil
	default:
		return fmt.Errorf("line %d: type must be a string or a list", value.Line)
	}
}

func decodeValue(raw *yaml.Node) (Value, error) {
	switch raw.Kind {
	case yaml.MappingNode:
		child := &Node{}
		if err := child.UnmarshalYAML(raw); err != nil {
			return nil, err
		}
		return child, nil
	case yaml.SequenceNode:
		list := make(List, 0, len(raw.Content))
		for _, item := range raw.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: list elements must be nodes", item.Line)
			}
			child := &Node{}
			if err := child.UnmarshalYAML(item); err != nil {
				return nil, err
			}
			list = append(list, child)
		}
		return list, nil
	case yaml.ScalarNode:
		return decodeScalar(raw)
	default:
		return nil, fmt.Errorf("line %d: unsupported value", raw.Line)
	}
}

func decodeScalar(raw *yaml.Node) (Value, error) {
	switch raw.ShortTag() {
	case "!!bool":
		var b bool
		if err := raw.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := raw.Decode(&i); err != nil {
			return nil, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := raw.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	default:
		return String(raw.Value), nil
	}
}

func resolveAlias(value *yaml.Node) *yaml.Node {
	for value != nil && value.Kind == yaml.AliasNode && value.Alias != nil {
		value = value.Alias
	}
	return value
}

func isNull(value *yaml.Node) bool {
	return value == nil || (value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null")
}
