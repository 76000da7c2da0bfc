package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/utils"
)

const (
	DefaultTimeout      = 90 * time.Second
	defaultMaxLogLength = 200
)

// GatewayConfig is handed to NewGateway once; the gateway never reads
// process-wide settings.
type GatewayConfig struct {
	// Timeout bounds every single Ask call. Zero selects DefaultTimeout.
	Timeout time.Duration
	// MaxInstructionRunes rejects longer instructions before they are sent.
	// Zero disables the check.
	MaxInstructionRunes int
	// MaxLogLength limits prompt and reply previews in debug logs.
	MaxLogLength int
}

// Gateway turns a Generator into an Oracle with a bounded per-call timeout
// and the oracle error taxonomy.
type Gateway struct {
	generator Generator
	cfg       GatewayConfig
	logger    *zap.Logger
}

func NewGateway(generator Generator, cfg GatewayConfig, logger *zap.Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{generator: generator, cfg: cfg, logger: logger}
}

// Ask sends instruction to the generator. The caller's context is honoured;
// if it ends, its error is returned unwrapped so callers can tell
// cancellation apart from oracle failures.
func (g *Gateway) Ask(ctx context.Context, instruction, roleContext string) (string, error) {
	if g == nil || g.generator == nil {
		return "", fmt.Errorf("%w: gateway is not initialized", ErrOracleUnavailable)
	}

	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return "", fmt.Errorf("%w: instruction must not be empty", ErrOracleRejected)
	}

	length := utf8.RuneCountInString(instruction)
	if g.cfg.MaxInstructionRunes > 0 && length > g.cfg.MaxInstructionRunes {
		return "", fmt.Errorf("%w: instruction has %d runes, limit is %d", ErrOracleRejected, length, g.cfg.MaxInstructionRunes)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	g.logger.Debug("oracle request",
		zap.Int("prompt_length", length),
		zap.String("prompt_preview", utils.TruncateForLog(instruction, g.cfg.MaxLogLength)),
		zap.Duration("timeout", g.cfg.Timeout),
	)

	started := time.Now()
	raw, err := g.generator.GenerateContent(callCtx, roleContext, instruction)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		err = classify(err, callCtx)
		g.logger.Debug("oracle request failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", err
	}

	g.logger.Debug("oracle response",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.cfg.MaxLogLength)),
	)

	return raw, nil
}

// classify makes sure every generator error carries one of the oracle
// sentinels. Unknown errors count as unavailability.
func classify(err error, callCtx context.Context) error {
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: call timed out: %w", ErrOracleUnavailable, err)
	case errors.Is(err, ErrOracleUnavailable), errors.Is(err, ErrOracleRejected):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
}

// Model reports the model behind the gateway, if any.
func (g *Gateway) Model() string {
	if g == nil || g.generator == nil {
		return ""
	}
	return g.generator.Model()
}
