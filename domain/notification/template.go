package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
)

// TemplateData contains all the fields available for email template rendering
type TemplateData struct {
	Greeting       string // Dynamic greeting based on recipient count
	CorpusName     string
	DateFormatted  string // e.g., "2026-10-17 14:05 UTC"
	Mode           string // "dry run" or "removal"
	Policy         string
	RunID          string
	TotalFiles     int
	GroupCount     int
	RedundantCount int
	DeletedCount   int
	FailedCount    int
	Groups         []GroupOutcome
	SenderName     string
}

// NewTemplateData builds the rendering data for a run report
func NewTemplateData(r *RunReport) TemplateData {
	mode := "removal"
	if r.DryRun {
		mode = "dry run"
	}
	return TemplateData{
		Greeting:       FormatGreeting(r.To),
		CorpusName:     r.CorpusName,
		DateFormatted:  r.FinishedAt.UTC().Format("2006-01-02 15:04 MST"),
		Mode:           mode,
		Policy:         r.Policy,
		RunID:          r.RunID,
		TotalFiles:     r.TotalFiles,
		GroupCount:     len(r.Groups),
		RedundantCount: r.RedundantCount(),
		DeletedCount:   r.DeletedCount(),
		FailedCount:    r.FailedCount(),
		Groups:         r.Groups,
		SenderName:     r.SenderName,
	}
}

// EmailTemplate contains the templates for rendering emails
type EmailTemplate struct {
	SubjectFormat string
	PlainText     string
	HTML          string
}

// DefaultTemplate is the standard email template for dedup run reports
var DefaultTemplate = EmailTemplate{
	SubjectFormat: "RAG corpus dedup {{.Mode}}: {{.GroupCount}} duplicate sets on {{.DateFormatted}}",
	PlainText: `{{.Greeting}}

Corpus: {{.CorpusName}}
Policy: {{.Policy}}
Files listed: {{.TotalFiles}}
Duplicate sets: {{.GroupCount}}
Files that could be removed: {{.RedundantCount}}
{{- if ne .Mode "dry run"}}
Total files deleted: {{.DeletedCount}}
Failed deletes: {{.FailedCount}}
{{- end}}
{{range .Groups}}
{{.DisplayName}}
  Keeping: {{.Kept}}
{{- range .Deleted}}
  Deleted: {{.}}
{{- end}}
{{- range .Failed}}
  Failed: {{.}}
{{- end}}
{{- range .Planned}}
  Would delete: {{.}}
{{- end}}
{{end}}
Run {{.RunID}}
{{- if .SenderName}}
~{{.SenderName}}
{{- end}}`,
	HTML: `<div dir="ltr">{{.Greeting}}<br><br>
<b>Corpus:</b> {{.CorpusName}}<br>
<b>Policy:</b> {{.Policy}}<br>
<b>Files listed:</b> {{.TotalFiles}}<br>
<b>Duplicate sets:</b> {{.GroupCount}}<br>
<b>Files that could be removed:</b> {{.RedundantCount}}<br>
{{- if ne .Mode "dry run"}}
<b>Total files deleted:</b> {{.DeletedCount}}<br>
<b>Failed deletes:</b> {{.FailedCount}}<br>
{{- end}}
<ul>
{{- range .Groups}}
<li>{{.DisplayName}}: kept {{.Kept}}, deleted {{len .Deleted}}, failed {{len .Failed}}{{if .Planned}}, would delete {{len .Planned}}{{end}}</li>
{{- end}}
</ul>
Run {{.RunID}}{{if .SenderName}}<br>
~{{.SenderName}}{{end}}</div>`,
}

// FormatGreeting creates an appropriate greeting based on number of recipients
// 1 recipient: "Dear John,"
// 2 recipients: "Dear John & Jane,"
// 3+ recipients: "Hey Everyone!"
func FormatGreeting(recipients []Recipient) string {
	switch len(recipients) {
	case 0:
		return "Hello,"
	case 1:
		name := getFirstName(recipients[0].Name)
		return fmt.Sprintf("Dear %s,", name)
	case 2:
		name1 := getFirstName(recipients[0].Name)
		name2 := getFirstName(recipients[1].Name)
		return fmt.Sprintf("Dear %s & %s,", name1, name2)
	default:
		return "Hey Everyone!"
	}
}

// getFirstName extracts the first name from a full name
func getFirstName(fullName string) string {
	if fullName == "" {
		return "Friend"
	}
	for i, c := range fullName {
		if c == ' ' {
			return fullName[:i]
		}
	}
	return fullName
}

// RenderSubject renders the email subject using the template
func (t *EmailTemplate) RenderSubject(data TemplateData) (string, error) {
	return renderTemplate("subject", t.SubjectFormat, data)
}

// RenderPlainText renders the plain text email body
func (t *EmailTemplate) RenderPlainText(data TemplateData) (string, error) {
	return renderTemplate("plaintext", t.PlainText, data)
}

// RenderHTML renders the HTML email body, escaping display names
func (t *EmailTemplate) RenderHTML(data TemplateData) (string, error) {
	tmpl, err := htmltemplate.New("html").Parse(t.HTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func renderTemplate(name, tmplStr string, data TemplateData) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
