package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/extract"
	"github.com/spigell/skillgap/internal/skills"
)

var errNoTiers = errors.New("no recognizable difficulty tier")

// assessDifficulty is stage 3: roster + missing skills -> tier per skill.
func (p *Pipeline) assessDifficulty(ctx context.Context, logger *zap.Logger, roster, missing *skills.Set) (skills.Assessment, StageReport, error) {
	if missing.Len() == 0 {
		logger.Info("no missing skills to assess")
		return skills.Assessment{}, StageReport{
			Stage:  StageDifficulty,
			Source: SourceSkipped,
			Reason: "no missing skills",
		}, nil
	}

	return stage[skills.Assessment]{
		name:    StageDifficulty,
		prompt:  difficultyPrompt(roster, missing),
		persona: difficultyPersona,
		parse: func(raw string) (skills.Assessment, error) {
			return parseDifficulty(raw, logger)
		},
		fallback: func() skills.Assessment { return skills.Assessment{} },
	}.run(ctx, p, logger)
}

// parseDifficulty keeps every entry with a recognizable tier. Keys outside
// the missing set are kept too; the scoring ignores them.
func parseDifficulty(raw string, logger *zap.Logger) (skills.Assessment, error) {
	m, err := extract.ParseMapping(raw)
	if err != nil {
		return nil, err
	}

	a := make(skills.Assessment, m.Len())
	for _, key := range m.Keys {
		name, ok := skills.NormalizeName(key)
		if !ok {
			continue
		}
		value, ok := m.Text(key)
		if !ok {
			logger.Debug("dropping non-text difficulty", zap.String("skill", key))
			continue
		}
		tier, err := skills.ParseTier(value)
		if err != nil {
			logger.Debug("dropping unknown difficulty", zap.String("skill", key), zap.String("value", value))
			continue
		}
		a[name] = tier
	}

	if m.Len() > 0 && len(a) == 0 {
		return nil, &extract.ParseError{Target: "mapping", Reason: errNoTiers.Error()}
	}
	return a, nil
}
