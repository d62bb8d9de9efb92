package notification

import "errors"

var (
	// ErrNoRecipients is returned when no To recipients are provided
	ErrNoRecipients = errors.New("at least one recipient is required")

	// ErrInvalidRecipient is returned when a recipient has no email address
	ErrInvalidRecipient = errors.New("recipient must have an email address")

	// ErrNoCorpusName is returned when the report does not name its corpus
	ErrNoCorpusName = errors.New("corpus name is required")

	// ErrNoRunTime is returned when the report has no completion time
	ErrNoRunTime = errors.New("run completion time is required")

	// ErrRecipientNotFound is returned when a recipient lookup fails
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrAmbiguousRecipient is returned when multiple recipients match a query
	ErrAmbiguousRecipient = errors.New("multiple recipients match query")

	// ErrSendFailed is returned when the email fails to send
	ErrSendFailed = errors.New("failed to send email")
)
