package extract

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping is a parsed dictionary literal. Values are either string or
// []string. Keys keeps the literal's order; a repeated key keeps its first
// position and its last value.
type Mapping struct {
	Keys   []string
	Values map[string]any
}

// ParseMapping parses the whole reply as a dictionary literal. Surrounding
// whitespace and a wrapping code fence are tolerated, anything else is not.
func ParseMapping(raw string) (*Mapping, error) {
	text := stripCodeFence(raw)
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return nil, failure("mapping", "reply is not a mapping literal", nil)
	}

	node, err := parseLiteral(text)
	if err != nil {
		return nil, failure("mapping", "invalid mapping literal", err)
	}
	if node.Kind != yaml.MappingNode {
		return nil, failure("mapping", "invalid mapping literal", errors.New("not a mapping"))
	}

	m := &Mapping{Values: make(map[string]any, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, err := quotedString(node.Content[i])
		if err != nil {
			return nil, failure("mapping", "invalid key", err)
		}
		value, err := literalValue(node.Content[i+1])
		if err != nil {
			return nil, failure("mapping", "invalid value for key "+key, err)
		}
		if _, seen := m.Values[key]; !seen {
			m.Keys = append(m.Keys, key)
		}
		m.Values[key] = value
	}
	return m, nil
}

// Len returns the number of distinct keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// Text returns the value for key when it is a string.
func (m *Mapping) Text(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m.Values[key].(string)
	return s, ok
}
