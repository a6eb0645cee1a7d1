package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient is the slice of the SNS API the publisher calls.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher posts events to a topic. Subscription filter policies can match
// on the target_id, platform and online attributes.
type snsPublisher struct {
	sink
	topicARN string
	client   snsClient
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.AWSConfig)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.SNS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.SNS.Endpoint)
		}
	})
	return &snsPublisher{
		sink:     newSink(cfg.ID, TypeSNS, log),
		topicARN: cfg.SNS.TopicARN,
		client:   client,
	}, nil
}

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.payload()
	if err != nil {
		return err
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(s.topicARN),
		Message:           aws.String(string(body)),
		MessageAttributes: snsAttributes(evt),
	})
	if err != nil {
		s.failed(evt, err)
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.delivered(evt, aws.ToString(out.MessageId))
	return nil
}

func snsAttributes(evt Event) map[string]types.MessageAttributeValue {
	attrs := evt.Attributes()
	out := make(map[string]types.MessageAttributeValue, len(attrs))
	for k, v := range attrs {
		out[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	return out
}
