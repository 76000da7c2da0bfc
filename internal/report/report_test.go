package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/skillgap/internal/pipeline"
	"github.com/spigell/skillgap/internal/skills"
)

func sampleAssessment() *pipeline.Assessment {
	oracle := 70
	return &pipeline.Assessment{
		RunID:           "3f1d2c4e-0000-4000-8000-000000000000",
		Description:     "a chatbot",
		DeveloperSkills: skills.NewSet("Python", "Flask"),
		RequiredSkills:  skills.NewSet("LangChain", "Flask", "Kubernetes", "GPT-4"),
		Comparison: &skills.Comparison{
			Matched: skills.NewSet("Flask"),
			Similar: skills.NewSet("LangChain"),
			Missing: skills.NewSet("Kubernetes", "GPT-4"),
		},
		Difficulty:     skills.Assessment{"Kubernetes": skills.TierDifficult, "GPT-4": skills.TierEasy},
		Score:          50,
		FormulaScore:   50,
		OracleScore:    &oracle,
		ComparisonMode: pipeline.ComparisonThreeBucket,
		ScoringPolicy:  skills.ScoringPercentage,
		ScoreSource:    pipeline.ScoreFromFormula,
		Stages: []pipeline.StageReport{
			{Stage: pipeline.StageRequirements, Source: pipeline.SourceOracle, Duration: 1200 * time.Millisecond},
			{Stage: pipeline.StageComparison, Source: pipeline.SourceFallback, Reason: "oracle unavailable:\ncall timed out"},
			{Stage: pipeline.StageDifficulty, Source: pipeline.SourceOracle},
			{Stage: pipeline.StageConfidence, Source: pipeline.SourceFormula, Reason: "oracle cross-check gives 70"},
		},
		State: pipeline.StateDone,
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleAssessment()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "done", decoded["state"])
	assert.Equal(t, float64(50), decoded["score"])
	assert.Equal(t, float64(70), decoded["oracle_score"])
	assert.Equal(t, []any{"LangChain", "Flask", "Kubernetes", "GPT-4"}, decoded["required_skills"])
	assert.Equal(t, map[string]any{"Kubernetes": "Difficult", "GPT-4": "Easy"}, decoded["difficulty"])

	comparison, ok := decoded["comparison"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"LangChain"}, comparison["similar"])

	stages, ok := decoded["stages"].([]any)
	require.True(t, ok)
	require.Len(t, stages, 4)
	assert.Equal(t, "skill_comparison", stages[1].(map[string]any)["stage"])
	assert.Equal(t, "fallback", stages[1].(map[string]any)["source"])
}

func TestJSONOmitsMissingOracleScore(t *testing.T) {
	t.Parallel()

	a := sampleAssessment()
	a.OracleScore = nil

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, a))
	assert.NotContains(t, buf.String(), "oracle_score")
}

func TestText(t *testing.T) {
	t.Parallel()

	out := Text(sampleAssessment())

	for _, want := range []string{
		"CONFIDENCE",
		"50%",
		"formula 50, oracle 70",
		"LangChain, Flask, Kubernetes, GPT-4",
		"Similar:",
		"LEARNING DIFFICULTY",
		"Difficult",
		"skill_comparison",
		"fallback",
		"oracle unavailable: call timed out",
		"1.2s",
		"run 3f1d2c4e",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTextWithoutMissingSkills(t *testing.T) {
	t.Parallel()

	a := sampleAssessment()
	a.Comparison.Missing = skills.NewSet()
	a.OracleScore = &a.Score

	out := Text(a)
	assert.NotContains(t, out, "LEARNING DIFFICULTY")
	assert.NotContains(t, out, "formula 50")
	assert.Contains(t, out, "none")
}

func TestScoreBar(t *testing.T) {
	t.Parallel()

	assert.Contains(t, scoreBar(0, 4), "░░░░")
	assert.Contains(t, scoreBar(50, 4), "██░░")
	assert.Contains(t, scoreBar(150, 4), "████")
	assert.Contains(t, scoreBar(150, 4), "100%")
	assert.Contains(t, scoreBar(50, 1), "█░")
}

func TestDumpToTmpFile(t *testing.T) {
	t.Parallel()

	path, err := DumpToTmpFile(sampleAssessment())
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded pipeline.Assessment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "3f1d2c4e-0000-4000-8000-000000000000", decoded.RunID)
	assert.Equal(t, []string{"Kubernetes", "GPT-4"}, decoded.Comparison.Missing.Strings())
}

type failingFile struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (f *failingFile) Close() error {
	f.closed = true
	return f.closeErr
}

func (f *failingFile) Name() string { return "assessment.json" }

func TestDumpReportsCloseError(t *testing.T) {
	t.Parallel()

	file := &failingFile{closeErr: errors.New("disk full")}
	_, err := dump(file, sampleAssessment())
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.ErrorContains(t, err, "assessment.json")
	assert.True(t, file.closed)

	file = &failingFile{}
	name, err := dump(file, sampleAssessment())
	require.NoError(t, err)
	assert.Equal(t, "assessment.json", name)
	assert.True(t, file.closed)
	assert.Contains(t, file.String(), `"run_id"`)
}
