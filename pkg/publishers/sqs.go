package publishers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsClient is the slice of the SQS API the publisher calls.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher sends one message per event. On FIFO queues events are grouped
// by target so each server's history stays ordered.
type sqsPublisher struct {
	sink
	queueURL string
	fifo     bool
	client   sqsClient
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.AWSConfig)
	if err != nil {
		return nil, err
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.SQS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.SQS.Endpoint)
		}
	})
	return &sqsPublisher{
		sink:     newSink(cfg.ID, TypeSQS, log),
		queueURL: cfg.SQS.QueueURL,
		fifo:     strings.HasSuffix(cfg.SQS.QueueURL, ".fifo"),
		client:   client,
	}, nil
}

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.payload()
	if err != nil {
		return err
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: sqsAttributes(evt),
	}
	if s.fifo {
		input.MessageGroupId = aws.String(evt.TargetID)
		input.MessageDeduplicationId = aws.String(evt.TargetID + "-" + strconv.FormatInt(evt.CheckedAt.UnixNano(), 10))
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.failed(evt, err)
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.delivered(evt, aws.ToString(out.MessageId))
	return nil
}

func sqsAttributes(evt Event) map[string]types.MessageAttributeValue {
	attrs := evt.Attributes()
	out := make(map[string]types.MessageAttributeValue, len(attrs))
	for k, v := range attrs {
		out[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	return out
}
