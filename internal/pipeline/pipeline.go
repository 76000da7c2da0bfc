// Package pipeline runs the four-stage skill-gap assessment: requirement
// extraction, skill comparison, learning-difficulty assessment and
// confidence scoring. Every stage survives oracle and parse failures by
// substituting a deterministic result, so a run only fails when it is
// cancelled.
package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillgap/internal/ai"
	"github.com/spigell/skillgap/internal/logger"
	"github.com/spigell/skillgap/internal/skills"
)

// Pipeline is safe for concurrent use; runs share nothing but the oracle.
type Pipeline struct {
	oracle ai.Oracle
	cfg    Config
	logger *zap.Logger
}

func New(oracle ai.Oracle, cfg Config, log *zap.Logger) *Pipeline {
	if oracle == nil {
		oracle = ai.Offline{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{oracle: oracle, cfg: cfg.withDefaults(), logger: log}
}

// Assessment is the outcome of a run together with every intermediate result.
type Assessment struct {
	RunID           string               `json:"run_id"`
	Description     string               `json:"description"`
	DeveloperSkills *skills.Set          `json:"developer_skills"`
	RequiredSkills  *skills.Set          `json:"required_skills"`
	Comparison      *skills.Comparison   `json:"comparison"`
	Difficulty      skills.Assessment    `json:"difficulty"`
	Score           int                  `json:"score"`
	FormulaScore    int                  `json:"formula_score"`
	OracleScore     *int                 `json:"oracle_score,omitempty"`
	ComparisonMode  ComparisonMode       `json:"comparison_mode"`
	ScoringPolicy   skills.ScoringPolicy `json:"scoring_policy"`
	ScoreSource     ScoreSource          `json:"score_source"`
	Stages          []StageReport        `json:"stages"`
	State           State                `json:"state"`
}

// Stage returns the report of the named stage.
func (a *Assessment) Stage(name StageName) (StageReport, bool) {
	for _, r := range a.Stages {
		if r.Stage == name {
			return r, true
		}
	}
	return StageReport{}, false
}

// Degraded reports whether any stage used its fallback.
func (a *Assessment) Degraded() bool {
	for _, r := range a.Stages {
		if r.Source == SourceFallback {
			return true
		}
	}
	return false
}

// Run assesses description against the developer roster. The only error is
// an *IncompleteError when ctx ends before the run is done.
func (p *Pipeline) Run(ctx context.Context, description string, roster *skills.Set) (*Assessment, error) {
	runID := uuid.NewString()
	log := logger.WithStage(p.logger, runID, "")
	stageLogger := func(name StageName) *zap.Logger {
		return logger.WithStage(p.logger, runID, string(name))
	}
	state := &tracker{state: StateInit, logger: log}

	description = strings.TrimSpace(description)
	roster = roster.Clone()

	log.Info("starting assessment",
		zap.Int("developer_skills", roster.Len()),
		zap.String("comparison_mode", string(p.cfg.ComparisonMode)),
		zap.String("scoring_policy", string(p.cfg.ScoringPolicy)),
		zap.String("score_source", string(p.cfg.ScoreSource)),
	)

	incomplete := func(err error) error {
		log.Warn("assessment cancelled", zap.Stringer("state", state.current()), zap.Error(err))
		return &IncompleteError{State: state.current(), Err: err}
	}

	required, r1, err := p.extractRequirements(ctx, stageLogger(StageRequirements), description)
	if err != nil {
		return nil, incomplete(err)
	}
	state.advance(StateStage1Done)

	comparison, r2, err := p.compareSkills(ctx, stageLogger(StageComparison), roster, required)
	if err != nil {
		return nil, incomplete(err)
	}
	state.advance(StateStage2Done)

	// Stage 4 needs stage 3's tiers, so the two run as a producer and a
	// consumer: stage 4 prepares its comparison-only arithmetic while stage 3
	// waits on the oracle, then blocks for the tiers.
	tiers := make(chan skills.Assessment, 1)
	var (
		difficulty skills.Assessment
		confidence confidenceResult
		r3, r4     StageReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, report, err := p.assessDifficulty(gctx, stageLogger(StageDifficulty), roster, comparison.Missing.Clone())
		if err != nil {
			return err
		}
		difficulty, r3 = a, report
		state.advance(StateStage3Done)
		tiers <- a.Clone()
		return nil
	})
	g.Go(func() error {
		base := newScoreBase(comparison)

		var a skills.Assessment
		select {
		case a = <-tiers:
		case <-gctx.Done():
			return gctx.Err()
		}
		state.advance(StateStage4Pending)

		result, report, err := p.scoreConfidence(gctx, stageLogger(StageConfidence), base, a)
		if err != nil {
			return err
		}
		confidence, r4 = result, report
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, incomplete(err)
	}
	state.advance(StateDone)

	assessment := &Assessment{
		RunID:           runID,
		Description:     description,
		DeveloperSkills: roster,
		RequiredSkills:  required,
		Comparison:      comparison,
		Difficulty:      difficulty,
		Score:           confidence.score,
		FormulaScore:    confidence.formulaScore,
		OracleScore:     confidence.oracleScore,
		ComparisonMode:  p.cfg.ComparisonMode,
		ScoringPolicy:   p.cfg.ScoringPolicy,
		ScoreSource:     p.cfg.ScoreSource,
		Stages:          []StageReport{r1, r2, r3, r4},
		State:           state.current(),
	}

	log.Info("assessment completed",
		zap.Int("score", assessment.Score),
		zap.Int("required_skills", required.Len()),
		zap.Int("missing_skills", comparison.Missing.Len()),
		zap.Bool("degraded", assessment.Degraded()),
	)

	return assessment, nil
}
