package leadalert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appaws "demo-generator/internal/common/aws"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

const (
	TaskType  = "lead-alert"
	EventType = "demo.generated"

	maxSubjectLength = 100
)

var ErrPublishFailed = errors.New("lead alert publish failed")

type Service struct {
	config *Config
	client appaws.SNSAPI
	logger logger.Logger
	now    func() time.Time
}

// NewService builds the publisher. A nil client or disabled config makes Publish a no-op.
func NewService(deps ServiceDependencies, cfg *Config, client appaws.SNSAPI) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Service{
		config: cfg,
		client: client,
		logger: logger.ForComponent(deps.Logger, TaskType),
		now:    time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s.config.Enabled && s.client != nil
}

// Publish announces a successful demo on the lead topic and returns the SNS message id.
// Failed runs are not announced.
func (s *Service) Publish(ctx context.Context, req models.DemoRequest, result *models.DemoResult) (string, error) {
	if !s.Enabled() || result == nil || !result.Success {
		return "", nil
	}

	alert := Alert{
		AlertID:        uuid.NewString(),
		EventType:      EventType,
		DemoID:         result.DemoID,
		BusinessName:   req.BusinessName,
		BusinessType:   req.BusinessType,
		Industry:       req.Industry,
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		PostsCount:     result.PostsCount(),
		EmailSent:      result.EmailSent,
		EstimatedCost:  result.Costs.EstimatedCost,
		CreatedAt:      s.now().UTC(),
	}
	body, err := json.Marshal(alert)
	if err != nil {
		return "", fmt.Errorf("encode lead alert: %w", err)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.config.TopicARN),
		Subject:  aws.String(Subject(req.BusinessName)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventType)},
			"industry":   {DataType: aws.String("String"), StringValue: aws.String(req.Industry)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}

	id := aws.ToString(out.MessageId)
	s.logger.Info("Lead alert published", map[string]interface{}{
		"demoId":    result.DemoID,
		"messageId": id,
	})
	return id, nil
}

// Subject builds an SNS subject: printable ASCII only, at most 100 characters.
func Subject(businessName string) string {
	b := make([]byte, 0, maxSubjectLength)
	b = append(b, "New demo lead: "...)
	for _, r := range businessName {
		if len(b) >= maxSubjectLength {
			break
		}
		if r >= 0x20 && r < 0x7f {
			b = append(b, byte(r))
		}
	}
	return string(b)
}
