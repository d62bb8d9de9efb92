package cmd

import (
	"context"
	"fmt"
	"strings"

	"rag-corpus-dedup/application/dedup"
	appnotif "rag-corpus-dedup/application/notification"
	"rag-corpus-dedup/domain/notification"
	"rag-corpus-dedup/infrastructure/config"
	"rag-corpus-dedup/infrastructure/gmail"
)

func sendRunReport(ctx context.Context, loaded *config.Config, runID string, opts RunOptions, result *RunResult, out OutputWriter) error {
	if loaded.Email.FromAddress == "" {
		return fmt.Errorf("email.from_address is not configured. Run 'rag-corpus-dedup setup' first")
	}

	lookup := config.NewRecipientLookup(loaded)
	recipients, err := lookup.Resolve(splitRecipients(notifyTo))
	if err != nil {
		return fmt.Errorf("failed to lookup recipients: %w", err)
	}

	from := notification.Recipient{Name: loaded.Email.FromName, Address: loaded.Email.FromAddress}
	sender, err := gmail.NewClientWithOAuth(ctx, from, gmail.OAuthConfig{
		CredentialsFile: loaded.Google.OAuthClientFile,
		TokenFile:       loaded.Google.TokenFile,
		Output:          out,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gmail client: %w", err)
	}

	return RunNotifyWithDependencies(ctx, sender, loaded.Email.FromName, appnotif.RunReportRequest{
		To:         recipients,
		CC:         lookup.DefaultCC(),
		CorpusName: opts.CorpusName,
		RunID:      runID,
	}, opts, result, out)
}

// RunNotifyWithDependencies emails the run report through sender (for testing).
// Cancelled removals are not reported.
func RunNotifyWithDependencies(
	ctx context.Context,
	sender notification.EmailSender,
	senderName string,
	req appnotif.RunReportRequest,
	opts RunOptions,
	result *RunResult,
	output OutputWriter,
) error {
	if result == nil || result.Cancelled {
		return nil
	}

	req.TotalFiles = len(result.Files)
	req.Policy = opts.Policy
	req.Removal = result.Removal
	if result.Removal == nil && len(result.Summary.Groups) > 0 {
		planner := dedup.NewService(nil, opts.CorpusName, nil)
		req.Decisions = planner.Plan(result.Summary.Groups, opts.Policy)
	}

	toNames := make([]string, len(req.To))
	for i, r := range req.To {
		toNames[i] = fmt.Sprintf("%s <%s>", r.Name, r.Address)
	}
	fmt.Fprintf(output, "\nSending run report to: %s\n", strings.Join(toNames, ", "))

	if err := appnotif.NewService(sender, senderName).SendRunReport(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(output, "Run report sent successfully!")
	return nil
}

// splitRecipients accepts repeated and comma-separated --notify-to values
func splitRecipients(values []string) []string {
	var result []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
