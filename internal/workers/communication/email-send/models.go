package emailsend

import (
	"time"

	"demo-generator/internal/common/logger"
)

// DemoEmail is what the notifier needs to announce a finished demo.
type DemoEmail struct {
	RecipientEmail string
	RecipientName  string
	BusinessName   string
	Industry       string
	PostsCount     int
	GraphicsCount  int
	DemoURL        string
	PDFAttachment  []byte
}

// Message is a provider-neutral email ready to send.
type Message struct {
	FromEmail   string
	FromName    string
	To          string
	ToName      string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Output struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"messageId"`
	Provider  string    `json:"provider"`
	TestMode  bool      `json:"testMode,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}

// ServiceDependencies wires the notifier. Sender may be nil when no
// provider is configured.
type ServiceDependencies struct {
	Logger logger.Logger
	Sender Sender
}
