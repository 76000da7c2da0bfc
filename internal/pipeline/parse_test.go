package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/extract"
	"github.com/spigell/skillgap/internal/skills"
)

func TestParseComparison(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		raw     string
		mode    ComparisonMode
		matched []string
		similar []string
		missing []string
	}{
		{
			name:    "documented keys",
			raw:     `{'matched_skills': ['Flask'], 'missing_skills': ['GPT-4']}`,
			matched: []string{"Flask"},
			missing: []string{"GPT-4"},
		},
		{
			name:    "short keys in a code fence",
			raw:     "```python\n{'matched': ['Flask'], 'missing': []}\n```",
			matched: []string{"Flask"},
		},
		{
			name:    "only missing",
			raw:     `{"missing_skills": ["Rust"]}`,
			missing: []string{"Rust"},
		},
		{
			name:    "similar folded",
			raw:     `{'matched_skills': ['Flask'], 'similar_skills': ['Django'], 'missing_skills': []}`,
			matched: []string{"Flask", "Django"},
		},
		{
			name:    "similar kept",
			raw:     `{'matched_skills': ['Flask'], 'similar_skills': ['Django'], 'missing_skills': []}`,
			mode:    ComparisonThreeBucket,
			matched: []string{"Flask"},
			similar: []string{"Django"},
		},
		{
			name:    "unknown keys ignored",
			raw:     `{'matched_skills': ['Flask'], 'notes': 'fine'}`,
			matched: []string{"Flask"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseComparison(tc.raw, tc.mode)
			require.NoError(t, err)

			assert.Empty(t, cmp.Diff(tc.matched, got.Matched.Strings(), cmpopts.EquateEmpty()))
			assert.Empty(t, cmp.Diff(tc.similar, got.Similar.Strings(), cmpopts.EquateEmpty()))
			assert.Empty(t, cmp.Diff(tc.missing, got.Missing.Strings(), cmpopts.EquateEmpty()))
		})
	}
}

func TestParseComparisonFailures(t *testing.T) {
	t.Parallel()

	for name, raw := range map[string]string{
		"prose":           "Flask matches, GPT-4 is missing",
		"wrong keys":      `{'have': ['Flask']}`,
		"string bucket":   `{'matched_skills': 'Flask'}`,
		"trailing prose":  `{'matched_skills': []} done`,
		"list not a dict": `['Flask']`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := parseComparison(raw, ComparisonTwoBucket)
			require.Error(t, err)
			assert.True(t, errors.Is(err, extract.ErrParseFailure), "got %v", err)
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	t.Parallel()

	got, err := parseDifficulty(`{'GPT-4': 'Moderate', 'Kubernetes': 'easy to learn', 'Rust': 'Impossible', 'Go': 'Difficult'}`, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, skills.Assessment{
		"GPT-4":      skills.TierModerate,
		"Kubernetes": skills.TierEasy,
		"Go":         skills.TierDifficult,
	}, got)
}

func TestParseDifficultyFailures(t *testing.T) {
	t.Parallel()

	_, err := parseDifficulty(`{'GPT-4': 'Impossible'}`, zap.NewNop())
	assert.True(t, errors.Is(err, extract.ErrParseFailure))

	_, err = parseDifficulty(`GPT-4: Easy`, zap.NewNop())
	assert.True(t, errors.Is(err, extract.ErrParseFailure))

	got, err := parseDifficulty(`{}`, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseRequirements(t *testing.T) {
	t.Parallel()

	got, err := parseRequirements("Here you go: ['LangChain', 'Flask', 'LangChain', ' ']")
	require.NoError(t, err)
	assert.Equal(t, []string{"LangChain", "Flask"}, got.Strings())

	_, err = parseRequirements("['', ' ']")
	assert.True(t, errors.Is(err, extract.ErrParseFailure))
}

func TestPrompts(t *testing.T) {
	t.Parallel()

	roster := skills.NewSet("Python", "Flask")
	required := skills.NewSet("LangChain", "Flask")
	missing := skills.NewSet("LangChain")

	prompts := map[string]string{
		"requirements": requirementsPrompt("a chatbot"),
		"comparison":   comparisonPrompt(ComparisonTwoBucket, roster, required),
		"difficulty":   difficultyPrompt(roster, missing),
		"confidence": confidencePrompt(skills.ScoringPercentage, skills.ScoreInput{
			Possessed: 1,
			Missing:   missing,
			Tiers:     skills.Assessment{"LangChain": skills.TierEasy, "Stray": skills.TierDifficult},
		}),
	}
	for name, prompt := range prompts {
		assert.NotContains(t, prompt, "{{", name)
		assert.Equal(t, strings.TrimSpace(prompt), prompt, name)
	}

	assert.Contains(t, prompts["requirements"], "a chatbot")
	assert.Contains(t, prompts["comparison"], `["Python","Flask"]`)
	assert.Contains(t, prompts["comparison"], `["LangChain","Flask"]`)
	assert.NotContains(t, prompts["comparison"], "similar_skills")
	assert.Contains(t, prompts["difficulty"], `["LangChain"]`)
	assert.Contains(t, prompts["confidence"], "Total required skills (matched + missing): 2")
	assert.Contains(t, prompts["confidence"], `{"LangChain": "Easy"}`)
	assert.NotContains(t, prompts["confidence"], "Stray")
}
