package emailsend

import (
	"context"
	"fmt"
	"net/mail"

	appaws "demo-generator/internal/common/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/mailgun/mailgun-go/v4"
)

// Sender delivers a built message and returns the provider's message id.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) (string, error)
}

// SESSender sends raw MIME messages through Amazon SES.
type SESSender struct {
	client appaws.SESAPI
}

func NewSESSender(client appaws.SESAPI) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Name() string { return ProviderSES }

func (s *SESSender) Send(ctx context.Context, msg *Message) (string, error) {
	raw, err := BuildRawMessage(msg)
	if err != nil {
		return "", err
	}

	out, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(formatAddress(msg.FromName, msg.FromEmail)),
		Destinations: []string{msg.To},
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return "", fmt.Errorf("ses send raw email: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// MailgunSender sends through the Mailgun messages API.
type MailgunSender struct {
	mg *mailgun.MailgunImpl
}

// NewMailgunSender builds a sender for domain. An empty apiBase keeps the library default.
func NewMailgunSender(domain, apiKey, apiBase string) *MailgunSender {
	mg := mailgun.NewMailgun(domain, apiKey)
	if apiBase != "" {
		mg.SetAPIBase(apiBase)
	}
	return &MailgunSender{mg: mg}
}

func (s *MailgunSender) Name() string { return ProviderMailgun }

func (s *MailgunSender) Send(ctx context.Context, msg *Message) (string, error) {
	m := s.mg.NewMessage(formatAddress(msg.FromName, msg.FromEmail), msg.Subject, msg.Text, formatAddress(msg.ToName, msg.To))
	m.SetHtml(msg.HTML)
	if msg.ReplyTo != "" {
		m.SetReplyTo(msg.ReplyTo)
	}
	for _, a := range msg.Attachments {
		m.AddBufferAttachment(a.Filename, a.Content)
	}

	_, id, err := s.mg.Send(ctx, m)
	if err != nil {
		return "", fmt.Errorf("mailgun send: %w", err)
	}
	return id, nil
}

// NewSender builds the sender for the configured provider.
// It returns nil without error when the provider has no credentials.
func NewSender(ctx context.Context, cfg *Config) (Sender, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	switch cfg.Provider {
	case ProviderSES:
		client, err := appaws.NewSESClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("create SES client: %w", err)
		}
		return NewSESSender(client), nil
	case ProviderMailgun:
		return NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func formatAddress(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}
