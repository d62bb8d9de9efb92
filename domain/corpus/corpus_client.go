package corpus

import (
	"context"
	"time"
)

// CorpusClient defines the interface for RAG corpus administration
// This is a port that can be implemented by different infrastructure adapters
type CorpusClient interface {
	// ListFiles lists every file registered in the corpus identified by corpusName
	ListFiles(ctx context.Context, corpusName string) ([]FileRecord, error)

	// DeleteFile deletes a single file and waits for the deletion to complete
	DeleteFile(ctx context.Context, identifier string) error
}

// FileRecord represents one file entry as reported by the remote corpus
type FileRecord struct {
	Identifier  string    // Full resource name, used as the delete key
	DisplayName string    // Human-assigned label; not unique
	SizeBytes   int64     // Informational only
	CreateTime  time.Time // Zero when the corpus did not report one
	UpdateTime  time.Time
}

// CreatedLabel formats CreateTime for operator output
func (f FileRecord) CreatedLabel() string {
	if f.CreateTime.IsZero() {
		return "unknown"
	}
	return f.CreateTime.UTC().Format(time.RFC3339)
}
