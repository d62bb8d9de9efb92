package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rag-corpus-dedup/application/dedup"
	"rag-corpus-dedup/domain/corpus"
	"rag-corpus-dedup/domain/notification"
	"rag-corpus-dedup/infrastructure/logging"
)

// Service handles run report notifications
type Service struct {
	sender     notification.EmailSender
	senderName string
	now        func() time.Time
}

// NewService creates a new notification service
func NewService(sender notification.EmailSender, senderName string) *Service {
	return &Service{
		sender:     sender,
		senderName: senderName,
		now:        time.Now,
	}
}

// RunReportRequest contains the parameters for reporting a dedup run.
// A nil Removal means duplicates were only found.
type RunReportRequest struct {
	To         []notification.Recipient
	CC         []notification.Recipient
	CorpusName string
	RunID      string
	TotalFiles int
	Policy     corpus.RetentionPolicy
	Decisions  []dedup.GroupDecision
	Removal    *dedup.RemovalResult
}

// SendRunReport emails a summary of the run
func (s *Service) SendRunReport(ctx context.Context, req RunReportRequest) error {
	report := s.BuildReport(req)
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid run report: %w", err)
	}

	if err := s.sender.Send(ctx, report); err != nil {
		return err
	}

	logging.FromContext(ctx).InfoContext(ctx, "Run report sent",
		slog.Int("to", len(report.To)),
		slog.Int("cc", len(report.CC)),
		slog.Int("groups", len(report.Groups)),
	)
	return nil
}

// BuildReport converts run results into a notification report
func (s *Service) BuildReport(req RunReportRequest) *notification.RunReport {
	decisions := req.Decisions
	policy := req.Policy
	if req.Removal != nil {
		decisions = req.Removal.Decisions
		policy = req.Removal.Policy
	}

	failed := make(map[string]bool)
	if req.Removal != nil {
		for _, f := range req.Removal.Failures {
			failed[f.File.Identifier] = true
		}
	}

	groups := make([]notification.GroupOutcome, 0, len(decisions))
	for _, d := range decisions {
		outcome := notification.GroupOutcome{
			DisplayName: d.DisplayName,
			Kept:        d.Kept.Identifier,
		}
		for _, file := range d.ToDelete {
			switch {
			case req.Removal == nil:
				outcome.Planned = append(outcome.Planned, file.Identifier)
			case failed[file.Identifier]:
				outcome.Failed = append(outcome.Failed, file.Identifier)
			default:
				outcome.Deleted = append(outcome.Deleted, file.Identifier)
			}
		}
		groups = append(groups, outcome)
	}

	return &notification.RunReport{
		To:         req.To,
		CC:         req.CC,
		CorpusName: req.CorpusName,
		Policy:     policy.String(),
		DryRun:     req.Removal == nil,
		RunID:      req.RunID,
		FinishedAt: s.now(),
		TotalFiles: req.TotalFiles,
		Groups:     groups,
		SenderName: s.senderName,
	}
}
