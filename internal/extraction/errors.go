package extraction

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable is returned when the extraction service cannot be reached.
var ErrProviderUnavailable = errors.New("extraction service unavailable")

// UnsupportedFormatError is returned for documents that are neither PDF nor plain text.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %s (only .pdf, .txt and .md are supported)", e.Filename)
}

// EmptyContentError is returned when no text could be recovered from a document.
type EmptyContentError struct {
	Filename string
}

func (e *EmptyContentError) Error() string {
	if e.Filename == "" {
		return "no text found in document"
	}
	return fmt.Sprintf("no text found in %s", e.Filename)
}
