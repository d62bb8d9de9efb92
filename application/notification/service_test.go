package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"rag-corpus-dedup/application/dedup"
	"rag-corpus-dedup/domain/corpus"
	"rag-corpus-dedup/domain/notification"

	"github.com/google/go-cmp/cmp"
)

type mockSender struct {
	sent []*notification.RunReport
	err  error
}

func (m *mockSender) Send(ctx context.Context, report *notification.RunReport) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, report)
	return nil
}

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newTestService(sender notification.EmailSender) *Service {
	svc := NewService(sender, "Ops Bot")
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func decision(name, kept string, toDelete ...string) dedup.GroupDecision {
	d := dedup.GroupDecision{DisplayName: name, Kept: corpus.FileRecord{Identifier: kept, DisplayName: name}}
	for _, id := range toDelete {
		d.ToDelete = append(d.ToDelete, corpus.FileRecord{Identifier: id, DisplayName: name})
	}
	return d
}

func TestService_BuildReport_Removal(t *testing.T) {
	decisions := []dedup.GroupDecision{decision("a.pdf", "f3", "f1", "f2"), decision("b.pdf", "f5", "f4")}
	removal := &dedup.RemovalResult{
		Policy:    corpus.KeepOldest,
		Decisions: decisions,
		Deleted:   []corpus.FileRecord{{Identifier: "f1"}, {Identifier: "f4"}},
		Failures:  []dedup.DeleteFailure{{File: corpus.FileRecord{Identifier: "f2"}, Err: errors.New("denied")}},
	}

	report := newTestService(&mockSender{}).BuildReport(RunReportRequest{
		CorpusName: "projects/p/locations/l/ragCorpora/c",
		RunID:      "run-1",
		TotalFiles: 5,
		Removal:    removal,
	})

	want := []notification.GroupOutcome{
		{DisplayName: "a.pdf", Kept: "f3", Deleted: []string{"f1"}, Failed: []string{"f2"}},
		{DisplayName: "b.pdf", Kept: "f5", Deleted: []string{"f4"}},
	}
	if diff := cmp.Diff(want, report.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if report.DryRun {
		t.Error("expected removal report")
	}
	if report.Policy != "keep-oldest" {
		t.Errorf("expected policy from removal result, got %q", report.Policy)
	}
	if !report.FinishedAt.Equal(fixedNow) {
		t.Errorf("unexpected finish time %v", report.FinishedAt)
	}
}

func TestService_BuildReport_DryRun(t *testing.T) {
	report := newTestService(&mockSender{}).BuildReport(RunReportRequest{
		CorpusName: "projects/p/locations/l/ragCorpora/c",
		Policy:     corpus.KeepNewest,
		Decisions:  []dedup.GroupDecision{decision("a.pdf", "f3", "f1", "f2")},
	})

	if !report.DryRun {
		t.Error("expected dry run report")
	}
	want := []notification.GroupOutcome{{DisplayName: "a.pdf", Kept: "f3", Planned: []string{"f1", "f2"}}}
	if diff := cmp.Diff(want, report.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestService_SendRunReport(t *testing.T) {
	sender := &mockSender{}
	svc := newTestService(sender)

	err := svc.SendRunReport(context.Background(), RunReportRequest{
		To:         []notification.Recipient{{Name: "Ops Team", Address: "ops@example.com"}},
		CorpusName: "projects/p/locations/l/ragCorpora/c",
		Decisions:  []dedup.GroupDecision{decision("a.pdf", "f2", "f1")},
	})
	if err != nil {
		t.Fatalf("SendRunReport() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 report sent, got %d", len(sender.sent))
	}
	if sender.sent[0].SenderName != "Ops Bot" {
		t.Errorf("unexpected sender name %q", sender.sent[0].SenderName)
	}
}

func TestService_SendRunReport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sender  *mockSender
		to      []notification.Recipient
		wantErr error
	}{
		{
			name:    "no recipients",
			sender:  &mockSender{},
			wantErr: notification.ErrNoRecipients,
		},
		{
			name:    "sender failure",
			sender:  &mockSender{err: notification.ErrSendFailed},
			to:      []notification.Recipient{{Address: "ops@example.com"}},
			wantErr: notification.ErrSendFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestService(tt.sender).SendRunReport(context.Background(), RunReportRequest{
				To:         tt.to,
				CorpusName: "projects/p/locations/l/ragCorpora/c",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SendRunReport() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
