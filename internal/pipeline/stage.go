package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/utils"
)

// StageName identifies one of the four fixed stages.
type StageName string

const (
	StageRequirements StageName = "requirement_extraction"
	StageComparison   StageName = "skill_comparison"
	StageDifficulty   StageName = "learning_difficulty"
	StageConfidence   StageName = "confidence_scoring"
)

// Source tells where a stage result came from.
type Source string

const (
	// SourceOracle means the oracle reply parsed and was used.
	SourceOracle Source = "oracle"
	// SourceFallback means the deterministic fallback replaced the oracle.
	SourceFallback Source = "fallback"
	// SourceFormula means the deterministic score was reported by choice.
	SourceFormula Source = "formula"
	// SourceSkipped means there was nothing to ask the oracle.
	SourceSkipped Source = "skipped"
)

// StageReport describes how a stage produced its output.
type StageReport struct {
	Stage    StageName     `json:"stage"`
	Source   Source        `json:"source"`
	Reason   string        `json:"reason,omitempty"`
	Raw      string        `json:"raw,omitempty"`
	Duration time.Duration `json:"duration"`
}

// stage bundles the oracle-facing half of a stage.
type stage[T any] struct {
	name     StageName
	prompt   string
	persona  string
	parse    func(raw string) (T, error)
	fallback func() T
}

// run asks the oracle and parses the reply, substituting the fallback on any
// oracle or parse failure. The only error returned is the caller's context
// ending, in which case the output must be discarded.
func (s stage[T]) run(ctx context.Context, p *Pipeline, logger *zap.Logger) (T, StageReport, error) {
	started := time.Now()
	report := StageReport{Stage: s.name}

	raw, err := p.oracle.Ask(ctx, s.prompt, s.persona)
	if ctxErr := ctx.Err(); ctxErr != nil {
		var zero T
		return zero, report, ctxErr
	}

	var value T
	if err == nil {
		report.Raw = utils.TruncateForLog(raw, p.cfg.MaxRawLength)
		value, err = s.parse(raw)
	}

	if err != nil {
		value = s.fallback()
		report.Source = SourceFallback
		report.Reason = err.Error()
		logger.Warn("stage fell back to deterministic result", zap.Error(err))
	} else {
		report.Source = SourceOracle
	}

	report.Duration = time.Since(started)
	logger.Info("stage completed",
		zap.String("source", string(report.Source)),
		zap.Duration("duration", report.Duration),
	)

	return value, report, nil
}
