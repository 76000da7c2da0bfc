package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/extract"
	"github.com/spigell/skillgap/internal/skills"
	"github.com/spigell/skillgap/internal/utils"
)

// scoreBase is the part of stage 4 that only depends on the comparison, so
// it can be prepared while stage 3 is still waiting on the oracle.
type scoreBase struct {
	possessed int
	missing   *skills.Set
}

func newScoreBase(c *skills.Comparison) scoreBase {
	return scoreBase{
		possessed: c.Possessed().Len(),
		missing:   c.Missing.Clone(),
	}
}

func (b scoreBase) with(a skills.Assessment) skills.ScoreInput {
	return skills.ScoreInput{Possessed: b.possessed, Missing: b.missing, Tiers: a}
}

type confidenceResult struct {
	score        int
	formulaScore int
	oracleScore  *int
}

// scoreConfidence is stage 4. The formula is always computed; the oracle's
// integer is either a cross-check or, with ScoreFromOracle, the answer.
func (p *Pipeline) scoreConfidence(ctx context.Context, logger *zap.Logger, base scoreBase, a skills.Assessment) (confidenceResult, StageReport, error) {
	started := time.Now()
	in := base.with(a)
	formula := in.Score(p.cfg.ScoringPolicy)
	result := confidenceResult{score: formula, formulaScore: formula}
	report := StageReport{Stage: StageConfidence}

	raw, err := p.oracle.Ask(ctx, confidencePrompt(p.cfg.ScoringPolicy, in), confidencePersona)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return confidenceResult{}, report, ctxErr
	}

	if err == nil {
		report.Raw = utils.TruncateForLog(raw, p.cfg.MaxRawLength)
		var parsed int
		parsed, err = extract.Integer(raw)
		if err == nil {
			clamped := skills.Clamp(parsed)
			result.oracleScore = &clamped
		}
	}

	switch {
	case p.cfg.ScoreSource == ScoreFromOracle && result.oracleScore != nil:
		result.score = *result.oracleScore
		report.Source = SourceOracle
		if *result.oracleScore != formula {
			report.Reason = fmt.Sprintf("formula gives %d", formula)
		}
	case p.cfg.ScoreSource == ScoreFromOracle:
		report.Source = SourceFallback
		report.Reason = err.Error()
		logger.Warn("stage fell back to deterministic result", zap.Error(err))
	default:
		report.Source = SourceFormula
		if result.oracleScore != nil {
			report.Reason = fmt.Sprintf("oracle cross-check gives %d", *result.oracleScore)
		} else if err != nil {
			report.Reason = "oracle cross-check unavailable: " + err.Error()
		}
	}

	if result.oracleScore != nil {
		logger.Debug("confidence cross-check",
			zap.Int("formula_score", formula),
			zap.Int("oracle_score", *result.oracleScore),
			zap.Int("delta", *result.oracleScore-formula),
		)
	}

	report.Duration = time.Since(started)
	logger.Info("stage completed",
		zap.String("source", string(report.Source)),
		zap.Int("score", result.score),
		zap.Duration("duration", report.Duration),
	)

	return result, report, nil
}
