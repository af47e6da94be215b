package service

import (
	"fmt"
	"runtime"
)

type ProcessingError struct {
	Identifier string
	IsFatal    bool
	Message    string
	Source     string
}

// NewProcessingError returns a new ProcessingError. Param identifier
// is the PID or source directory of the object being processed when
// the error occurred. Param isFatal describes whether the error ended
// processing for that object. A failed create-object call is fatal to
// the object (though never to the batch); a failed relationship or
// datastream call is not, because the object exists and the remaining
// steps can still run.
func NewProcessingError(identifier, message string, isFatal bool) *ProcessingError {
	_, filename, line, ok := runtime.Caller(1)
	source := "unknown:0"
	if ok {
		source = fmt.Sprintf("%s:%d", filename, line)
	}
	return &ProcessingError{
		Identifier: identifier,
		IsFatal:    isFatal,
		Message:    message,
		Source:     source,
	}
}

func (e *ProcessingError) Error() string {
	severity := "non-fatal"
	if e.IsFatal {
		severity = "fatal"
	}
	return fmt.Sprintf("(identifier: %s) (message: %s) (severity: %s) "+
		"(source: %s)", e.Identifier, e.Message, severity, e.Source)
}
