package notification

import (
	"context"
	"time"
)

// Recipient represents an email recipient with name and address
type Recipient struct {
	Name    string
	Address string
}

// GroupOutcome summarizes what happened to one duplicate group during a run
type GroupOutcome struct {
	DisplayName string
	Kept        string   // Identifier of the retained file
	Deleted     []string // Identifiers removed successfully
	Failed      []string // Identifiers whose delete call failed
	Planned     []string // Identifiers that would be removed (dry run)
}

// RunReport contains all the data needed to email the result of a dedup run
type RunReport struct {
	To         []Recipient // Primary recipients
	CC         []Recipient // Carbon copy recipients
	CorpusName string      // Full corpus resource name
	Policy     string      // "keep-newest" or "keep-oldest"
	DryRun     bool        // Duplicates were only found, not removed
	RunID      string
	FinishedAt time.Time
	TotalFiles int
	Groups     []GroupOutcome
	SenderName string // Name to sign the email
}

// DeletedCount returns how many files were removed across all groups
func (r *RunReport) DeletedCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Deleted)
	}
	return n
}

// FailedCount returns how many delete calls failed across all groups
func (r *RunReport) FailedCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Failed)
	}
	return n
}

// RedundantCount returns how many files were selected for removal
func (r *RunReport) RedundantCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Deleted) + len(g.Failed) + len(g.Planned)
	}
	return n
}

// Validate checks that the report has all required fields
func (r *RunReport) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range append(append([]Recipient{}, r.To...), r.CC...) {
		if to.Address == "" {
			return ErrInvalidRecipient
		}
	}
	if r.CorpusName == "" {
		return ErrNoCorpusName
	}
	if r.FinishedAt.IsZero() {
		return ErrNoRunTime
	}
	return nil
}

// EmailSender defines the interface for sending run reports
type EmailSender interface {
	Send(ctx context.Context, report *RunReport) error
}
