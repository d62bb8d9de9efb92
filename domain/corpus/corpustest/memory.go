// Package corpustest provides an in-memory corpus.CorpusClient for tests.
package corpustest

import (
	"context"
	"errors"
	"sync"

	"rag-corpus-dedup/domain/corpus"
)

// Memory is a corpus.CorpusClient backed by a slice of records. Deletes
// remove the record; identifiers listed in DeleteErrs fail instead.
type Memory struct {
	mu         sync.Mutex
	files      []corpus.FileRecord
	ListErr    error
	DeleteErrs map[string]error
	attempts   []string
}

// NewMemory creates a fake corpus holding files in listing order
func NewMemory(files ...corpus.FileRecord) *Memory {
	m := &Memory{DeleteErrs: make(map[string]error)}
	m.files = append(m.files, files...)
	return m
}

// ListFiles returns a copy of the current records
func (m *Memory) ListFiles(ctx context.Context, corpusName string) ([]corpus.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, &corpus.TransportError{Op: "list", Identifier: corpusName, Err: m.ListErr}
	}
	out := make([]corpus.FileRecord, len(m.files))
	copy(out, m.files)
	return out, nil
}

// DeleteFile removes identifier or returns its injected failure
func (m *Memory) DeleteFile(ctx context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts = append(m.attempts, identifier)
	if err := m.DeleteErrs[identifier]; err != nil {
		return err
	}
	for i, f := range m.files {
		if f.Identifier == identifier {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return nil
		}
	}
	return &corpus.NotFoundOrPermissionError{Identifier: identifier, Err: errors.New("rag file not found")}
}

// FailDelete makes every delete of identifier fail with err
func (m *Memory) FailDelete(identifier string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteErrs[identifier] = err
}

// Attempts returns the identifiers passed to DeleteFile, in call order
func (m *Memory) Attempts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.attempts...)
}

// Remaining returns the identifiers still present
func (m *Memory) Remaining() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.files))
	for _, f := range m.files {
		ids = append(ids, f.Identifier)
	}
	return ids
}

var _ corpus.CorpusClient = (*Memory)(nil)
