// Package ai is the boundary to the reasoning oracle: ask a question in plain
// text, get free text back.
package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrOracleUnavailable covers transport, auth, quota and timeout failures.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrOracleRejected covers replies refused by the oracle itself: invalid or
	// overlong instructions, blocked content and empty answers.
	ErrOracleRejected = errors.New("oracle rejected the instruction")
)

// Oracle answers an instruction given an optional role context (persona).
type Oracle interface {
	Ask(ctx context.Context, instruction, roleContext string) (string, error)
}

// Generator is implemented by concrete model clients.
type Generator interface {
	GenerateContent(ctx context.Context, systemInstruction, message string) (string, error)
	Model() string
}

// Offline is an Oracle that is never reachable. Every stage then takes its
// fallback, which gives a fully deterministic run.
type Offline struct{}

func (Offline) Ask(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: offline mode", ErrOracleUnavailable)
}
