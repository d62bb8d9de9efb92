package notification

import (
	"errors"
	"testing"
	"time"
)

func TestRunReport_Validate(t *testing.T) {
	validReport := RunReport{
		To:         []Recipient{{Name: "John Doe", Address: "john@example.com"}},
		CorpusName: "projects/p/locations/europe-west4/ragCorpora/1",
		FinishedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		modify  func(*RunReport)
		wantErr error
	}{
		{
			name:    "valid report",
			modify:  func(r *RunReport) {},
			wantErr: nil,
		},
		{
			name:    "no recipients",
			modify:  func(r *RunReport) { r.To = nil },
			wantErr: ErrNoRecipients,
		},
		{
			name:    "recipient without address",
			modify:  func(r *RunReport) { r.To = []Recipient{{Name: "John"}} },
			wantErr: ErrInvalidRecipient,
		},
		{
			name:    "cc without address",
			modify:  func(r *RunReport) { r.CC = []Recipient{{Name: "Mary"}} },
			wantErr: ErrInvalidRecipient,
		},
		{
			name:    "no corpus",
			modify:  func(r *RunReport) { r.CorpusName = "" },
			wantErr: ErrNoCorpusName,
		},
		{
			name:    "no finish time",
			modify:  func(r *RunReport) { r.FinishedAt = time.Time{} },
			wantErr: ErrNoRunTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validReport
			tt.modify(&report)

			err := report.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunReport_Counts(t *testing.T) {
	report := RunReport{
		Groups: []GroupOutcome{
			{DisplayName: "a.pdf", Kept: "f1", Deleted: []string{"f2", "f3"}, Failed: []string{"f4"}},
			{DisplayName: "b.pdf", Kept: "f5", Deleted: []string{"f6"}},
			{DisplayName: "c.pdf", Kept: "f7", Planned: []string{"f8"}},
		},
	}

	if got := report.DeletedCount(); got != 3 {
		t.Errorf("DeletedCount() = %d, want 3", got)
	}
	if got := report.FailedCount(); got != 1 {
		t.Errorf("FailedCount() = %d, want 1", got)
	}
	if got := report.RedundantCount(); got != 5 {
		t.Errorf("RedundantCount() = %d, want 5", got)
	}
}
