package extract

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Literals are read with the YAML flow grammar, which accepts both JSON and
// Python-style single-quoted collections. Only quoted scalars are allowed so
// that bare words and numbers do not sneak in as skill names.

const quotedStyle = yaml.SingleQuotedStyle | yaml.DoubleQuotedStyle

func parseLiteral(text string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New("not a single literal")
	}
	node := doc.Content[0]
	if node.Style&yaml.FlowStyle == 0 {
		return nil, errors.New("not a bracketed literal")
	}
	return node, nil
}

func quotedString(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode || node.Style&quotedStyle == 0 {
		return "", fmt.Errorf("line %d: expected a quoted string, got %q", node.Line, node.Value)
	}
	return node.Value, nil
}

func stringList(node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list", node.Line)
	}
	items := make([]string, 0, len(node.Content))
	for _, child := range node.Content {
		s, err := quotedString(child)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}

func literalValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return quotedString(node)
	case yaml.SequenceNode:
		return stringList(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported value %s", node.Line, strings.TrimSpace(node.Tag))
	}
}
