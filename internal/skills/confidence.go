package skills

import (
	"fmt"
	"strings"
)

// ScoringPolicy selects the confidence arithmetic.
type ScoringPolicy string

const (
	// ScoringPercentage adds the easy share and subtracts the difficult share
	// of all required skills from the possessed share.
	ScoringPercentage ScoringPolicy = "percentage"
	// ScoringPoints adds ten points per easy skill and removes ten per
	// difficult skill on top of the possessed share.
	ScoringPoints ScoringPolicy = "points"
)

const pointsPerTier = 10

// ParseScoringPolicy maps a config value to a policy. Empty selects percentage.
func ParseScoringPolicy(s string) (ScoringPolicy, error) {
	switch ScoringPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScoringPercentage:
		return ScoringPercentage, nil
	case ScoringPoints:
		return ScoringPoints, nil
	default:
		return "", fmt.Errorf("unsupported scoring policy: %s", s)
	}
}

// ScoreInput is everything the confidence arithmetic needs.
type ScoreInput struct {
	Possessed int
	Missing   *Set
	Tiers     Assessment
}

// NewScoreInput derives the input from a comparison and an assessment.
func NewScoreInput(c *Comparison, a Assessment) ScoreInput {
	return ScoreInput{
		Possessed: c.Possessed().Len(),
		Missing:   c.Missing.Clone(),
		Tiers:     a,
	}
}

// Total is the number of required skills the score is relative to.
func (in ScoreInput) Total() int {
	return in.Possessed + in.Missing.Len()
}

// Score computes the confidence in [0, 100]. A zero total scores zero.
func (in ScoreInput) Score(policy ScoringPolicy) int {
	total := in.Total()
	if total == 0 {
		return 0
	}

	easy := in.Tiers.Count(TierEasy, in.Missing)
	difficult := in.Tiers.Count(TierDifficult, in.Missing)

	var score int
	switch policy {
	case ScoringPoints:
		score = roundRatio(100*in.Possessed, total) + pointsPerTier*(easy-difficult)
	default:
		score = roundRatio(100*(in.Possessed+easy-difficult), total)
	}

	return Clamp(score)
}

// roundRatio returns num/den rounded half away from zero. den must be positive.
func roundRatio(num, den int) int {
	if num < 0 {
		return -((2*-num + den) / (2 * den))
	}
	return (2*num + den) / (2 * den)
}

// Clamp bounds a score to [0, 100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
