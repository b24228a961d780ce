package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// UsageError indicates the command line was incomplete
	UsageError ErrorCode = "USAGE_ERROR"
	// PathNotFound indicates the compile database does not exist
	PathNotFound ErrorCode = "PATH_NOT_FOUND"
	// MalformedDatabase indicates the file is not a JSON array of objects
	MalformedDatabase ErrorCode = "MALFORMED_DATABASE"
	// InvalidPattern indicates a regex operation was built from a bad pattern
	InvalidPattern ErrorCode = "INVALID_PATTERN"
	// TokenizationFailed indicates a command string could not be shell-split
	TokenizationFailed ErrorCode = "TOKENIZATION_FAILED"
	// WriteFailed indicates the rewritten database could not be persisted
	WriteFailed ErrorCode = "WRITE_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// ToolError is an error with a stable code, a message and optional suggestions
type ToolError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a ToolError carrying the default fixes registered for code.
func New(code ErrorCode, message string, cause error) *ToolError {
	return &ToolError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *ToolError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *ToolError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ToolError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ToolError) WithDetails(details interface{}) *ToolError {
	e.Details = details
	return e
}

// As returns the first ToolError in err's chain.
func As(err error) (*ToolError, bool) {
	var te *ToolError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// CodeOf returns the code of the first ToolError in err's chain, or
// InternalError when there is none.
func CodeOf(err error) ErrorCode {
	if te, ok := As(err); ok {
		return te.Code
	}
	return InternalError
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	te, ok := As(err)
	return ok && te.Code == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	PathNotFound: {
		{
			Type:        RunCommand,
			Command:     "cmake -S . -B build -DCMAKE_EXPORT_COMPILE_COMMANDS=ON",
			Description: "Generate compile_commands.json with CMake",
		},
	},
	MalformedDatabase: {
		{
			Type:        OpenDocs,
			URL:         "https://clang.llvm.org/docs/JSONCompilationDatabase.html",
			Description: "Check the compilation database format",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
