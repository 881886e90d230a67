package parsing

import "fmt"

// VocabularyError represents a malformed vocabulary document
type VocabularyError struct {
	Message string
	Index   int
	Cause   error
}

func (e *VocabularyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vocabulary error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("vocabulary error at entry %d: %s", e.Index, e.Message)
}

func (e *VocabularyError) Unwrap() error {
	return e.Cause
}
