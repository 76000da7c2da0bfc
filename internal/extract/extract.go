// Package extract recovers typed values from free-form oracle replies.
//
// Every extractor returns the value or a *ParseError matching ErrParseFailure;
// none of them panic on arbitrary input. Deciding what to do on failure is
// left to the caller.
package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailure is matched by every error returned from this package.
var ErrParseFailure = errors.New("parse failure")

// ParseError describes why a reply could not be turned into the target type.
type ParseError struct {
	Target string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s: %s", e.Target, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

func (e *ParseError) Unwrap() error { return e.Err }

func failure(target, reason string, err error) *ParseError {
	return &ParseError{Target: target, Reason: reason, Err: err}
}

// stripCodeFence removes a markdown code fence wrapped around the whole reply.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	if idx := strings.Index(raw, "\n"); idx != -1 {
		lang := strings.TrimSpace(raw[:idx])
		if lang != "" && !strings.ContainsAny(lang, " {[") {
			raw = raw[idx+1:]
		}
	}
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}
