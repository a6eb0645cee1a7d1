package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubPublisher publishes events to a Pub/Sub topic and waits for the
// server acknowledgement. Messages are ordered per target when the topic
// has message ordering enabled.
type pubsubPublisher struct {
	sink
	client *pubsub.Client
	topic  *pubsub.Topic
}

// newGCPPubSubPublisher connects to Pub/Sub. PUBSUB_EMULATOR_HOST is honoured
// by the client library.
func newGCPPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.GCPPubSub == nil {
		return nil, fmt.Errorf("publisher %q missing gcp_pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.GCPPubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPPubSub.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.GCPPubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(cfg.GCPPubSub.Topic)
	topic.EnableMessageOrdering = cfg.GCPPubSub.OrderByTarget
	return &pubsubPublisher{
		sink:   newSink(cfg.ID, TypeGCPPubSub, log),
		client: client,
		topic:  topic,
	}, nil
}

func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.payload()
	if err != nil {
		return err
	}

	msg := &pubsub.Message{Data: body, Attributes: evt.Attributes()}
	if p.topic.EnableMessageOrdering {
		msg.OrderingKey = evt.TargetID
	}
	id, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		if msg.OrderingKey != "" {
			p.topic.ResumePublish(msg.OrderingKey)
		}
		p.failed(evt, err)
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	p.delivered(evt, id)
	return nil
}

// Close flushes pending messages and closes the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
