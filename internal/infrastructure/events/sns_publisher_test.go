package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"payment_gateway/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestNewSNSPublisher_RequiresTopic(t *testing.T) {
	_, err := NewSNSPublisher(nil, "")
	assert.ErrorIs(t, err, ErrMissingTopicARN)
}

func TestSNSPublisher_Publish(t *testing.T) {
	fake := &fakeSNS{}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &SNSPublisher{client: fake, topicARN: "arn:aws:sns:ap-south-1:000000000000:payment-events", now: func() time.Time { return fixed }}

	err := p.Publish(context.Background(), entities.EventPaymentRefunded, map[string]any{"refund_id": "R1"})
	require.NoError(t, err)
	require.NotNil(t, fake.input)
	assert.Equal(t, "arn:aws:sns:ap-south-1:000000000000:payment-events", aws.ToString(fake.input.TopicArn))
	assert.Equal(t, entities.EventPaymentRefunded, aws.ToString(fake.input.MessageAttributes["event_type"].StringValue))

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.input.Message)), &env))
	assert.Equal(t, entities.EventPaymentRefunded, env.Type)
	assert.NotEmpty(t, env.ID)
	assert.True(t, env.OccurredAt.Equal(fixed))
	assert.Equal(t, "R1", env.Payload.(map[string]any)["refund_id"])
}

func TestSNSPublisher_PublishError(t *testing.T) {
	p := &SNSPublisher{client: &fakeSNS{err: errors.New("throttled")}, topicARN: "arn", now: time.Now}
	err := p.Publish(context.Background(), entities.EventPaymentVerified, nil)
	assert.ErrorContains(t, err, "throttled")
}
