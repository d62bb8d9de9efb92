package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProject is returned when the project ID is missing
	ErrNoProject = errors.New("project ID is required")

	// ErrNoLocation is returned when the corpus location is missing
	ErrNoLocation = errors.New("location is required")

	// ErrNoCorpus is returned when the corpus ID is missing
	ErrNoCorpus = errors.New("corpus ID is required")

	// ErrMalformedCorpusName is returned when a full corpus resource name has the wrong shape
	ErrMalformedCorpusName = errors.New("corpus resource name must be projects/{project}/locations/{location}/ragCorpora/{corpus}")
)

// TransportError reports a remote call that failed for network, auth, or quota reasons
type TransportError struct {
	Op         string // "list" or "delete"
	Identifier string // Corpus or file resource name
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Identifier, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundOrPermissionError reports a specific target the corpus rejected
type NotFoundOrPermissionError struct {
	Identifier string
	Err        error
}

func (e *NotFoundOrPermissionError) Error() string {
	return fmt.Sprintf("%s not found or permission denied: %v", e.Identifier, e.Err)
}

func (e *NotFoundOrPermissionError) Unwrap() error {
	return e.Err
}
