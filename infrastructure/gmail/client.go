package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"rag-corpus-dedup/domain/notification"

	"google.golang.org/api/gmail/v1"
)

const mimeBoundary = "ragdedup-report"

// GmailService defines the interface for Gmail API operations
// This allows mocking the Gmail API in tests
type GmailService interface {
	SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error)
}

// GoogleGmailService is the production implementation using the Gmail API
type GoogleGmailService struct {
	service *gmail.Service
}

// SendMessage sends an email via Gmail API
func (s *GoogleGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	return s.service.Users.Messages.Send(userID, message).Context(ctx).Do()
}

// Client implements notification.EmailSender using Gmail API
type Client struct {
	gmailService GmailService
	from         notification.Recipient
	template     notification.EmailTemplate
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithGmailService sets a custom Gmail service (for testing)
func WithGmailService(svc GmailService) ClientOption {
	return func(c *Client) {
		c.gmailService = svc
	}
}

// WithTemplate sets a custom email template
func WithTemplate(tmpl notification.EmailTemplate) ClientOption {
	return func(c *Client) {
		c.template = tmpl
	}
}

// NewClient creates a new Gmail client
func NewClient(from notification.Recipient, opts ...ClientOption) *Client {
	c := &Client{
		from:     from,
		template: notification.DefaultTemplate,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send renders the run report and sends it using the Gmail API
func (c *Client) Send(ctx context.Context, report *notification.RunReport) error {
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid run report: %w", err)
	}

	data := notification.NewTemplateData(report)

	subject, err := c.template.RenderSubject(data)
	if err != nil {
		return fmt.Errorf("failed to render subject: %w", err)
	}

	plainText, err := c.template.RenderPlainText(data)
	if err != nil {
		return fmt.Errorf("failed to render plain text: %w", err)
	}

	htmlBody, err := c.template.RenderHTML(data)
	if err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	rawMessage := c.buildMIMEMessage(report, subject, plainText, htmlBody)

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(rawMessage)),
	}

	if _, err := c.gmailService.SendMessage(ctx, "me", message); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}

	return nil
}

// buildMIMEMessage builds a RFC 2822 multipart/alternative message
func (c *Client) buildMIMEMessage(report *notification.RunReport, subject, plainText, htmlBody string) string {
	var msg strings.Builder

	fmt.Fprintf(&msg, "From: %s\r\n", formatAddress(c.from))
	fmt.Fprintf(&msg, "To: %s\r\n", formatAddressList(report.To))
	if len(report.CC) > 0 {
		fmt.Fprintf(&msg, "Cc: %s\r\n", formatAddressList(report.CC))
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&msg, "--%s\r\n", mimeBoundary)
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(plainText)
	msg.WriteString("\r\n\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", mimeBoundary)
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", mimeBoundary)

	return msg.String()
}

func formatAddress(r notification.Recipient) string {
	if r.Name == "" {
		return r.Address
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", r.Name), r.Address)
}

func formatAddressList(recipients []notification.Recipient) string {
	addrs := make([]string, len(recipients))
	for i, r := range recipients {
		addrs[i] = formatAddress(r)
	}
	return strings.Join(addrs, ", ")
}

// Ensure Client implements notification.EmailSender
var _ notification.EmailSender = (*Client)(nil)
