package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Builder creates a Publisher from a validated config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Builders maps a publisher type to its constructor.
type Builders map[string]Builder

// DefaultBuilders knows every type accepted by LoadConfigs.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	}
}

// Build constructs a publisher per config in order. If any entry fails, the
// publishers built so far are closed and the error names the failing entry.
func (b Builders) Build(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		build, ok := b[strings.ToLower(cfg.Type)]
		if !ok {
			return nil, closeAll(pubs, fmt.Errorf("publisher %q: no builder for type %q", cfg.ID, cfg.Type))
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			return nil, closeAll(pubs, fmt.Errorf("publisher %q: %w", cfg.ID, err))
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func closeAll(pubs []Publisher, cause error) error {
	errs := []error{cause}
	for _, p := range pubs {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
