package dedup

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"rag-corpus-dedup/domain/corpus"
	"rag-corpus-dedup/infrastructure/logging"
)

// Service finds and removes duplicate files in a RAG corpus
type Service struct {
	client     corpus.CorpusClient
	corpusName string
	output     io.Writer
}

// NewService creates a new dedup service for the corpus resource corpusName
func NewService(client corpus.CorpusClient, corpusName string, output io.Writer) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		client:     client,
		corpusName: corpusName,
		output:     output,
	}
}

// Summary describes the duplicates found in one listing
type Summary struct {
	Groups         corpus.DuplicateGroups
	DuplicateFiles int // Records in groups, kept copies included
	Removable      int // Records that removal would delete
}

// GroupDecision records the retention choice made for one group
type GroupDecision struct {
	DisplayName string
	Kept        corpus.FileRecord
	ToDelete    []corpus.FileRecord
}

// DeleteFailure records a delete attempt that did not succeed
type DeleteFailure struct {
	File corpus.FileRecord
	Err  error
}

// RemovalResult contains information about a removal pass
type RemovalResult struct {
	Policy    corpus.RetentionPolicy
	Decisions []GroupDecision
	Deleted   []corpus.FileRecord
	Failures  []DeleteFailure
}

// DeletedCount returns the number of successful deletions
func (r *RemovalResult) DeletedCount() int {
	return len(r.Deleted)
}

// ListFiles lists every file in the corpus. A failed listing is reported and
// treated as an empty corpus.
func (s *Service) ListFiles(ctx context.Context) []corpus.FileRecord {
	logger := logging.FromContext(ctx)

	files, err := s.client.ListFiles(ctx, s.corpusName)
	if err != nil {
		logger.ErrorContext(ctx, "Listing RAG files failed",
			slog.String("corpus", s.corpusName),
			slog.String("error", err.Error()),
		)
		fmt.Fprintf(s.output, "Error listing RAG files: %v\n", err)
		return nil
	}

	logger.InfoContext(ctx, "Listed RAG files",
		slog.String("corpus", s.corpusName),
		slog.Int("count", len(files)),
	)
	fmt.Fprintf(s.output, "Found %d files in RAG corpus\n", len(files))
	return files
}

// FindDuplicates groups files by display name and summarizes the result
func (s *Service) FindDuplicates(files []corpus.FileRecord) Summary {
	groups := corpus.GroupDuplicates(files)
	return Summary{
		Groups:         groups,
		DuplicateFiles: groups.FileCount(),
		Removable:      groups.RedundantCount(),
	}
}

// Plan computes the retention decision for every group without deleting anything
func (s *Service) Plan(groups corpus.DuplicateGroups, policy corpus.RetentionPolicy) []GroupDecision {
	decisions := make([]GroupDecision, 0, len(groups))
	for _, group := range groups {
		toDelete, kept := policy.Choose(group.Files)
		decisions = append(decisions, GroupDecision{
			DisplayName: group.DisplayName,
			Kept:        kept,
			ToDelete:    toDelete,
		})
	}
	return decisions
}

// RemoveDuplicates deletes all but one copy in every group. Each delete is
// attempted exactly once; a failure is reported and the pass continues.
func (s *Service) RemoveDuplicates(ctx context.Context, groups corpus.DuplicateGroups, policy corpus.RetentionPolicy) *RemovalResult {
	logger := logging.FromContext(ctx)
	result := &RemovalResult{
		Policy:    policy,
		Decisions: s.Plan(groups, policy),
	}

	for _, d := range result.Decisions {
		fmt.Fprintf(s.output, "\nFound %d versions of: %s\n", len(d.ToDelete)+1, d.DisplayName)
		fmt.Fprintf(s.output, "  Keeping: %s (created: %s)\n", d.Kept.Identifier, d.Kept.CreatedLabel())

		for _, file := range d.ToDelete {
			fmt.Fprintf(s.output, "  Deleting: %s (created: %s)\n", file.Identifier, file.CreatedLabel())

			if err := s.client.DeleteFile(ctx, file.Identifier); err != nil {
				logger.WarnContext(ctx, "Deleting RAG file failed",
					slog.String("name", file.Identifier),
					slog.String("display_name", d.DisplayName),
					slog.String("error", err.Error()),
				)
				fmt.Fprintf(s.output, "  Error deleting file %s: %v\n", file.Identifier, err)
				result.Failures = append(result.Failures, DeleteFailure{File: file, Err: err})
				continue
			}

			fmt.Fprintf(s.output, "  Successfully deleted: %s\n", file.Identifier)
			result.Deleted = append(result.Deleted, file)
		}
	}

	logger.InfoContext(ctx, "Removal pass finished",
		slog.String("policy", policy.String()),
		slog.Int("groups", len(result.Decisions)),
		slog.Int("deleted", len(result.Deleted)),
		slog.Int("failed", len(result.Failures)),
	)
	return result
}
