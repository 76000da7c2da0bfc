package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/extract"
	"github.com/spigell/skillgap/internal/skills"
)

var errNoRequirements = errors.New("no skills in the extracted list")

// extractRequirements is stage 1: description -> required skills.
func (p *Pipeline) extractRequirements(ctx context.Context, logger *zap.Logger, description string) (*skills.Set, StageReport, error) {
	fallback := func() *skills.Set { return skills.NewSet(p.cfg.FallbackSkills...) }

	if strings.TrimSpace(description) == "" {
		logger.Warn("project description is empty; using fallback skills")
		return fallback(), StageReport{
			Stage:  StageRequirements,
			Source: SourceFallback,
			Reason: "project description is empty",
		}, nil
	}

	return stage[*skills.Set]{
		name:     StageRequirements,
		prompt:   requirementsPrompt(description),
		persona:  requirementsPersona,
		parse:    parseRequirements,
		fallback: fallback,
	}.run(ctx, p, logger)
}

func parseRequirements(raw string) (*skills.Set, error) {
	items, err := extract.Sequence(raw)
	if err != nil {
		return nil, err
	}

	required := skills.NewSet(items...)
	if required.Len() == 0 {
		return nil, &extract.ParseError{Target: "sequence", Reason: errNoRequirements.Error()}
	}
	return required, nil
}
