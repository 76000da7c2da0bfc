package extract

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceIgnoresSurroundingProse(t *testing.T) {
	t.Parallel()

	literal := `'LangChain', 'Flask',` + "\n" + ` 'Kubernetes', "GPT-4"`
	want := []string{"LangChain", "Flask", "Kubernetes", "GPT-4"}

	affixes := []struct {
		prefix string
		suffix string
	}{
		{"", ""},
		{"Here are the skills:\n", ""},
		{"", "\nLet me know if you need more."},
		{"Thought: the client wants a chatbot.\n\nAnswer: ", "\n\nThese cover retrieval and scaling."},
		{"```python\n", "\n```"},
		{"note] ", " [end"},
	}

	for _, a := range affixes {
		got, err := Sequence(a.prefix + "[" + literal + "]" + a.suffix)
		require.NoError(t, err, "prefix %q suffix %q", a.prefix, a.suffix)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("unexpected list for prefix %q (-want +got):\n%s", a.prefix, diff)
		}
	}
}

func TestSequenceEmptyList(t *testing.T) {
	t.Parallel()

	got, err := Sequence("Nothing needed: []")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSequenceFailures(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no brackets":      "LangChain, Flask, Kubernetes",
		"unclosed":         "['LangChain', 'Flask'",
		"bare words":       "[LangChain, Flask]",
		"numbers":          "[1, 2, 3]",
		"nested list":      "[['Go'], 'Rust']",
		"broken quoting":   "['LangChain, 'Flask']",
		"empty input":      "",
		"first span wrong": "See [1] for details: ['Go']",
	}

	for name, raw := range cases {
		_, err := Sequence(raw)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrParseFailure), name)

		var perr *ParseError
		require.True(t, errors.As(err, &perr), name)
		assert.Equal(t, "sequence", perr.Target, name)
	}
}

func TestParseMappingRoundTrip(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		raw  string
		keys []string
		want map[string]any
	}{
		"python comparison": {
			raw:  `{'matched_skills': ['LangChain', 'Flask'], 'missing_skills': ['GPT-4']}`,
			keys: []string{"matched_skills", "missing_skills"},
			want: map[string]any{
				"matched_skills": []string{"LangChain", "Flask"},
				"missing_skills": []string{"GPT-4"},
			},
		},
		"json difficulty multiline": {
			raw:  "{\n  \"Kubernetes\": \"Easy\",\n  \"GPT-4\": \"Moderate\"\n}\n",
			keys: []string{"Kubernetes", "GPT-4"},
			want: map[string]any{"Kubernetes": "Easy", "GPT-4": "Moderate"},
		},
		"code fence": {
			raw:  "```python\n{'GPT-4': 'Moderate'}\n```",
			keys: []string{"GPT-4"},
			want: map[string]any{"GPT-4": "Moderate"},
		},
		"empty lists": {
			raw:  `{'matched_skills': [], 'missing_skills': []}`,
			keys: []string{"matched_skills", "missing_skills"},
			want: map[string]any{"matched_skills": []string{}, "missing_skills": []string{}},
		},
		"empty mapping": {
			raw:  "{}",
			keys: nil,
			want: map[string]any{},
		},
		"repeated key": {
			raw:  `{'GPT-4': 'Easy', 'Rust': 'Difficult', 'GPT-4': 'Moderate'}`,
			keys: []string{"GPT-4", "Rust"},
			want: map[string]any{"GPT-4": "Moderate", "Rust": "Difficult"},
		},
	}

	for name, tc := range cases {
		m, err := ParseMapping(tc.raw)
		require.NoError(t, err, name)
		assert.Equal(t, tc.keys, m.Keys, name)
		if diff := cmp.Diff(tc.want, m.Values); diff != "" {
			t.Fatalf("%s: unexpected values (-want +got):\n%s", name, diff)
		}
	}
}

func TestParseMappingRejectsNonLiterals(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"prose":           "Matched skills are LangChain and Flask; GPT-4 is missing.",
		"prefixed":        "Here is the dict: {'GPT-4': 'Moderate'}",
		"suffixed":        "{'GPT-4': 'Moderate'} Hope this helps!",
		"list":            "['GPT-4']",
		"number value":    "{'GPT-4': 3}",
		"bare value":      "{'GPT-4': Moderate}",
		"python set":      "{'GPT-4', 'Rust'}",
		"nested mapping":  "{'a': {'b': 'c'}}",
		"unterminated":    "{'GPT-4': 'Moderate'",
		"unquoted key":    "{GPT4: 'Moderate'}",
		"empty":           "",
		"only whitespace": "  \n ",
	}

	for name, raw := range cases {
		_, err := ParseMapping(raw)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrParseFailure, name)
	}
}

func TestMappingText(t *testing.T) {
	t.Parallel()

	m, err := ParseMapping(`{'a': 'b', 'c': ['d']}`)
	require.NoError(t, err)

	v, ok := m.Text("a")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = m.Text("c")
	assert.False(t, ok)

	var empty *Mapping
	assert.Equal(t, 0, empty.Len())
}

func TestInteger(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"score: 07 out of 42":        7,
		"85":                         85,
		"85%":                        85,
		"Confidence: 70% (see note)": 70,
		"-15":                        15,
		"v2 model says 90":           2,
		"99999999999999999999999999": math.MaxInt,
	}

	for raw, want := range cases {
		got, err := Integer(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestIntegerFailure(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "high confidence", "one hundred"} {
		_, err := Integer(raw)
		assert.ErrorIs(t, err, ErrParseFailure, raw)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "{'a': 'b'}", stripCodeFence("```json\n{'a': 'b'}\n```"))
	assert.Equal(t, "{'a': 'b'}", stripCodeFence("```\n{'a': 'b'}\n```"))
	assert.Equal(t, "{'a': 'b'}", stripCodeFence("  {'a': 'b'}  "))
}
