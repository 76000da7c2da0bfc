package pipeline

import (
	"context"
	"errors"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/extract"
	"github.com/spigell/skillgap/internal/skills"
)

// comparisonPayload accepts both the documented keys and their short forms.
type comparisonPayload struct {
	Matched      []string `mapstructure:"matched_skills"`
	Similar      []string `mapstructure:"similar_skills"`
	Missing      []string `mapstructure:"missing_skills"`
	MatchedShort []string `mapstructure:"matched"`
	SimilarShort []string `mapstructure:"similar"`
	MissingShort []string `mapstructure:"missing"`
}

var errNoComparisonKeys = errors.New("neither matched nor missing skills present")

// compareSkills is stage 2: roster + required skills -> comparison.
func (p *Pipeline) compareSkills(ctx context.Context, logger *zap.Logger, roster, required *skills.Set) (*skills.Comparison, StageReport, error) {
	mode := p.cfg.ComparisonMode

	return stage[*skills.Comparison]{
		name:    StageComparison,
		prompt:  comparisonPrompt(mode, roster, required),
		persona: comparisonPersona,
		parse: func(raw string) (*skills.Comparison, error) {
			return parseComparison(raw, mode)
		},
		fallback: func() *skills.Comparison {
			return skills.CompareFallback(roster, required)
		},
	}.run(ctx, p, logger)
}

func parseComparison(raw string, mode ComparisonMode) (*skills.Comparison, error) {
	m, err := extract.ParseMapping(raw)
	if err != nil {
		return nil, err
	}

	var payload comparisonPayload
	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &payload,
		Metadata: &meta,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m.Values); err != nil {
		return nil, &extract.ParseError{Target: "mapping", Reason: "unexpected comparison shape", Err: err}
	}

	if !hasAnyKey(meta.Keys, "matched_skills", "matched", "missing_skills", "missing") {
		return nil, &extract.ParseError{Target: "mapping", Reason: errNoComparisonKeys.Error()}
	}

	c := &skills.Comparison{
		Matched: skills.NewSet(append(payload.Matched, payload.MatchedShort...)...),
		Similar: skills.NewSet(append(payload.Similar, payload.SimilarShort...)...),
		Missing: skills.NewSet(append(payload.Missing, payload.MissingShort...)...),
	}
	if mode != ComparisonThreeBucket {
		c.FoldSimilar()
	}
	return c, nil
}

func hasAnyKey(keys []string, wanted ...string) bool {
	for _, k := range keys {
		for _, w := range wanted {
			if k == w {
				return true
			}
		}
	}
	return false
}
