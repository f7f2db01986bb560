package leadalert

import (
	"time"

	"demo-generator/internal/common/logger"
)

// Alert is the JSON body published for each successful demo.
type Alert struct {
	AlertID        string    `json:"alertId"`
	EventType      string    `json:"eventType"`
	DemoID         string    `json:"demoId"`
	BusinessName   string    `json:"businessName"`
	BusinessType   string    `json:"businessType"`
	Industry       string    `json:"industry"`
	RecipientEmail string    `json:"recipientEmail"`
	RecipientName  string    `json:"recipientName,omitempty"`
	PostsCount     int       `json:"postsCount"`
	EmailSent      bool      `json:"emailSent"`
	EstimatedCost  float64   `json:"estimatedCost"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
