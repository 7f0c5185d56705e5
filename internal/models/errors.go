package models

import "fmt"

// ValidationError means the request shape is wrong. Fatal, surfaced
// immediately, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// GenerationError means the model or network failed, or the model produced
// output that does not match the quiz schema. The caller may retry by
// re-invoking Generate; the pipeline never retries on its own.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ToolError means a language tool invocation (detection or translation)
// failed. It aborts the whole pipeline call; a partially translated payload
// is never returned.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ParseError means a handoff token could not be decoded. It is recovered
// locally by substituting an empty result, never propagated as a crash.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed result token: %s", e.Reason)
}
