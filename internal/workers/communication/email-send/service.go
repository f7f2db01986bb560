package emailsend

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "demo-generator/internal/common/errors"
	"demo-generator/internal/common/logger"

	"github.com/aymerick/raymond"
	"github.com/google/uuid"
)

const TaskType = "email-send"

var (
	ErrEmailNotConfigured = errors.New("Email service not configured")
	ErrSendFailed         = errors.New("email send failed")
)

//go:embed templates/demo-email.html.hbs
var htmlSource string

//go:embed templates/demo-email.txt.hbs
var textSource string

var (
	htmlTemplate = raymond.MustParse(htmlSource)
	textTemplate = raymond.MustParse(textSource)
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

type Service struct {
	config *Config
	sender Sender
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		config: cfg,
		sender: deps.Sender,
		logger: logger.ForComponent(deps.Logger, TaskType),
		now:    time.Now,
	}
}

// Configured reports whether a delivery provider is wired or test mode is on.
func (s *Service) Configured() bool {
	return s.config.TestMode || s.sender != nil
}

// SendDemoEmail builds and delivers the demo announcement. In test mode the
// message is built but not sent, and a synthetic id is returned.
func (s *Service) SendDemoEmail(ctx context.Context, email DemoEmail) (*Output, error) {
	if problems := validateDemoEmail(email); len(problems) > 0 {
		return nil, apperrors.NewValidationError(problems)
	}

	msg, err := s.BuildMessage(email)
	if err != nil {
		return nil, err
	}

	if s.config.TestMode {
		id := "test-" + uuid.NewString()
		s.logger.Info("Test mode, email not sent", map[string]interface{}{
			"to":          email.RecipientEmail,
			"messageId":   id,
			"attachments": len(msg.Attachments),
		})
		return &Output{Success: true, MessageID: id, Provider: "test", TestMode: true, SentAt: s.now()}, nil
	}

	if s.sender == nil {
		return nil, apperrors.NewConfigurationError(ErrEmailNotConfigured.Error()).WithCause(ErrEmailNotConfigured)
	}

	s.logger.Info("Sending demo email", map[string]interface{}{
		"to":          email.RecipientEmail,
		"provider":    s.sender.Name(),
		"attachments": len(msg.Attachments),
	})

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("Email delivery", fmt.Errorf("%w: %w", ErrSendFailed, err))
		}
		return nil, apperrors.NewDependencyError(s.sender.Name(), "Failed to send email: "+err.Error(), fmt.Errorf("%w: %w", ErrSendFailed, err))
	}

	s.logger.Info("Demo email sent", map[string]interface{}{
		"to":        email.RecipientEmail,
		"messageId": id,
	})
	return &Output{Success: true, MessageID: id, Provider: s.sender.Name(), SentAt: s.now()}, nil
}

// BuildMessage renders the HTML and text bodies and attaches the PDF when present.
func (s *Service) BuildMessage(email DemoEmail) (*Message, error) {
	demoURL := email.DemoURL
	if demoURL == "" {
		demoURL = s.config.DemoURL
	}

	greeting := strings.TrimSpace(email.RecipientName)
	if greeting == "" {
		greeting = "there"
	}
	subject := fmt.Sprintf("Your social media demo for %s is ready", strings.TrimSpace(email.BusinessName))

	ctx := map[string]interface{}{
		"subject":        subject,
		"greetingName":   greeting,
		"businessName":   strings.TrimSpace(email.BusinessName),
		"industry":       strings.TrimSpace(email.Industry),
		"postsCount":     email.PostsCount,
		"graphicsCount":  email.GraphicsCount,
		"hasAttachment":  len(email.PDFAttachment) > 0,
		"demoUrl":        demoURL,
		"recipientEmail": email.RecipientEmail,
	}

	html, err := htmlTemplate.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}
	text, err := textTemplate.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}

	msg := &Message{
		FromEmail: s.config.FromEmail,
		FromName:  s.config.FromName,
		To:        strings.TrimSpace(email.RecipientEmail),
		ToName:    strings.TrimSpace(email.RecipientName),
		ReplyTo:   s.config.ReplyTo,
		Subject:   subject,
		HTML:      html,
		Text:      text,
	}
	if len(email.PDFAttachment) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    AttachmentName(email.BusinessName),
			ContentType: "application/pdf",
			Content:     email.PDFAttachment,
		})
	}
	return msg, nil
}

// AttachmentName derives the PDF filename from the business name.
func AttachmentName(businessName string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(businessName), "-"), "-")
	if slug == "" {
		slug = "your-business"
	}
	return slug + "-social-media-demo.pdf"
}
