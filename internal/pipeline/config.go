package pipeline

import (
	"fmt"
	"strings"

	"github.com/spigell/skillgap/internal/skills"
)

// ComparisonMode selects how many buckets the comparison stage asks for.
type ComparisonMode string

const (
	// ComparisonTwoBucket folds similar skills into matched.
	ComparisonTwoBucket ComparisonMode = "two-bucket"
	// ComparisonThreeBucket keeps similar skills apart in the report. They
	// still count as possessed when scoring.
	ComparisonThreeBucket ComparisonMode = "three-bucket"
)

// ParseComparisonMode maps a config value to a mode. Empty selects two-bucket.
func ParseComparisonMode(s string) (ComparisonMode, error) {
	switch ComparisonMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ComparisonTwoBucket:
		return ComparisonTwoBucket, nil
	case ComparisonThreeBucket:
		return ComparisonThreeBucket, nil
	default:
		return "", fmt.Errorf("unsupported comparison mode: %s", s)
	}
}

// ScoreSource decides which number becomes the final confidence score.
type ScoreSource string

const (
	// ScoreFromFormula always reports the deterministic formula. The oracle's
	// number is kept as a cross-check only.
	ScoreFromFormula ScoreSource = "formula"
	// ScoreFromOracle reports the oracle's number when it parses and falls
	// back to the formula otherwise.
	ScoreFromOracle ScoreSource = "oracle"
)

// ParseScoreSource maps a config value to a score source. Empty selects formula.
func ParseScoreSource(s string) (ScoreSource, error) {
	switch ScoreSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScoreFromFormula:
		return ScoreFromFormula, nil
	case ScoreFromOracle:
		return ScoreFromOracle, nil
	default:
		return "", fmt.Errorf("unsupported score source: %s", s)
	}
}

// DefaultFallbackSkills is used when requirement extraction fails and no
// other list is configured.
var DefaultFallbackSkills = []string{"LangChain", "Flask", "Kubernetes", "GPT-4"}

const defaultMaxRawLength = 500

// Config is the explicit pipeline configuration.
type Config struct {
	ComparisonMode ComparisonMode
	ScoringPolicy  skills.ScoringPolicy
	ScoreSource    ScoreSource
	// FallbackSkills replaces DefaultFallbackSkills when not empty.
	FallbackSkills []string
	// MaxRawLength limits the raw reply kept in stage reports.
	MaxRawLength int
}

func (c Config) withDefaults() Config {
	if c.ComparisonMode == "" {
		c.ComparisonMode = ComparisonTwoBucket
	}
	if c.ScoringPolicy == "" {
		c.ScoringPolicy = skills.ScoringPercentage
	}
	if c.ScoreSource == "" {
		c.ScoreSource = ScoreFromFormula
	}
	if c.MaxRawLength <= 0 {
		c.MaxRawLength = defaultMaxRawLength
	}
	if skills.NewSet(c.FallbackSkills...).Len() == 0 {
		c.FallbackSkills = DefaultFallbackSkills
	}
	return c
}
