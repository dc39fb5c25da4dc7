package domain

import "fmt"

// Error is the base error type with context.
type Error struct {
	Phase      string // "config", "scan", "read", "corpus", "sharedsteps", "generate", "write"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error.
func NewError(phase, file string, line int, message string, cause error) *Error {
	return &Error{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a new Error carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *Error {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}
