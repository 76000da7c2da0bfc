package extract

import (
	"regexp"
)

var bracketed = regexp.MustCompile(`(?s)\[.*?\]`)

// Sequence finds the first [ ... ] span in raw and parses it as a list of
// quoted strings. Commentary around the list is ignored.
func Sequence(raw string) ([]string, error) {
	span := bracketed.FindString(raw)
	if span == "" {
		return nil, failure("sequence", "no bracketed list found", nil)
	}

	node, err := parseLiteral(span)
	if err != nil {
		return nil, failure("sequence", "invalid list literal", err)
	}

	items, err := stringList(node)
	if err != nil {
		return nil, failure("sequence", "invalid list literal", err)
	}
	return items, nil
}
