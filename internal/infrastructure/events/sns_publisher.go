package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrMissingTopicARN = errors.New("missing PAYMENT_EVENTS_TOPIC_ARN")

// Envelope is the message body published to the topic.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publishes payment events to an SNS topic. The notification
// service subscribes to it and sends the customer emails.
type SNSPublisher struct {
	client   snsAPI
	topicARN string
	now      func() time.Time
}

var _ interfaces.IEventPublisher = (*SNSPublisher)(nil)

func NewSNSPublisher(client *sns.Client, topicARN string) (*SNSPublisher, error) {
	if topicARN == "" {
		return nil, ErrMissingTopicARN
	}
	return &SNSPublisher{client: client, topicARN: topicARN, now: time.Now}, nil
}

func (p *SNSPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	env := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	logger.FromCtx(ctx).Debug("[payment][events] publish",
		zap.String("event_id", env.ID),
		zap.String("type", eventType),
		zap.Int("message_len", len(body)),
	)

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", p.topicARN, err)
	}
	return nil
}
