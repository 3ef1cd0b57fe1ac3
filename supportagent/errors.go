// Copyright (c) Supportstack. All rights reserved.

package supportagent

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrValidation is the base error for input validation failures raised
	// by the validation middleware.
	ErrValidation = errors.New("validation error")

	// ErrEmptyConversation is returned when a request reaches the pipeline
	// with no messages in the conversation.
	ErrEmptyConversation = fmt.Errorf("%w: no messages in conversation", ErrValidation)

	// ErrBlockedContent is returned when the latest message matches a
	// blocked pattern.
	ErrBlockedContent = fmt.Errorf("%w: blocked content", ErrValidation)

	// ErrUnsupportedFormat is returned by ExportConversation for any format
	// other than "json" or "text".
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrGeneration indicates a failure while producing a reply, including
	// failures of an LLM-backed generator.
	ErrGeneration = errors.New("generation error")

	// ErrTool is the base error for tool-related failures.
	ErrTool = errors.New("tool error")

	// ErrToolExecution indicates a failure during tool invocation.
	ErrToolExecution = fmt.Errorf("%w: execution", ErrTool)
)

// ToolError provides context for tool invocation failures.
// Use errors.As to extract it from a wrapped error chain.
type ToolError struct {
	ToolName string
	Message  string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %s", e.ToolName, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }
