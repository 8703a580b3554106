// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"
)

type kind int

const (
	kindNull kind = iota
	kindScalar
	kindObject
	kindArray
)

func (k kind) String() string {
	switch k {
	case kindNull:
		return "null"
	case kindScalar:
		return "scalar"
	case kindObject:
		return "object"
	case kindArray:
		return "array"
	default:
		return "unknown"
	}
}

// value is an ordered tree shared by the JSON and YAML parsers. Objects keep
// their members in source order, duplicates included.
type value struct {
	kind    kind
	text    string
	members []member
	items   []*value
}

type member struct {
	key   string
	value *value
}

// --- JSON ---

func parseJSON(r io.Reader) (*value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	root, err := readJSON(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected data after top-level value")
	}
	return root, nil
}

func readJSON(dec *json.Decoder) (*value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return &value{kind: kindScalar, text: t}, nil
	case json.Number:
		return &value{kind: kindScalar, text: t.String()}, nil
	case bool:
		return &value{kind: kindScalar, text: strconv.FormatBool(t)}, nil
	case nil:
		return &value{kind: kindNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func readJSONObject(dec *json.Decoder) (*value, error) {
	v := &value{kind: kindObject}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", tok)
		}
		child, err := readJSON(dec)
		if err != nil {
			return nil, err
		}
		v.members = append(v.members, member{key: key, value: child})
	}
	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return v, nil
}

func readJSONArray(dec *json.Decoder) (*value, error) {
	v := &value{kind: kindArray}
	for dec.More() {
		child, err := readJSON(dec)
		if err != nil {
			return nil, err
		}
		v.items = append(v.items, child)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return v, nil
}

// --- YAML ---

func parseYAML(r io.Reader) (*value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	return fromYAML(doc.Content[0])
}

func fromYAML(n *yaml.Node) (*value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias", n.Line)
		}
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return &value{kind: kindNull}, nil
		}
		return &value{kind: kindScalar, text: n.Value}, nil
	case yaml.MappingNode:
		v := &value{kind: kindObject}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			child, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			v.members = append(v.members, member{key: k.Value, value: child})
		}
		return v, nil
	case yaml.SequenceNode:
		v := &value{kind: kindArray}
		for _, c := range n.Content {
			child, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			v.items = append(v.items, child)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}
