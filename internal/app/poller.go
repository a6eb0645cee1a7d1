package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcsrvstat/mcsrvstat-go/internal/config"
	"github.com/mcsrvstat/mcsrvstat-go/internal/logger"
	"github.com/mcsrvstat/mcsrvstat-go/internal/targets"
	"github.com/mcsrvstat/mcsrvstat-go/pkg/httpclient"
	"github.com/mcsrvstat/mcsrvstat-go/pkg/mcsrvstat"
	"github.com/mcsrvstat/mcsrvstat-go/pkg/publishers"
	"golang.org/x/sync/errgroup"
)

// StatusClient is the part of the mcsrvstat client the poller needs.
type StatusClient interface {
	LookupServerStatus(ctx context.Context) (*mcsrvstat.Status, error)
}

// ClientFactory builds a status client for one target.
type ClientFactory func(cfg mcsrvstat.Config) (StatusClient, error)

// EventPublisher publishes poll results downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
	Close() error
}

// Poller queries every enabled target once per pass and publishes one event per target.
type Poller struct {
	targets       []targets.Target
	newClient     ClientFactory
	publisher     EventPublisher
	defaultStrict bool
	interval      time.Duration
	concurrency   int
	log           logger.Logger
}

// NewPoller builds a poller runtime from config files.
func NewPoller(ctx context.Context, cfg *config.Config, log logger.Logger) (*Poller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	targetReg, err := targets.Load(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets: %w", err)
	}
	enabled := targetReg.Enabled()
	targetIDs := make([]string, 0, len(enabled))
	for _, t := range enabled {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	return newPoller(cfg, enabled, DefaultClientFactory(cfg, log), fanout, log), nil
}

func newPoller(cfg *config.Config, list []targets.Target, factory ClientFactory, pub EventPublisher, log logger.Logger) *Poller {
	if log == nil {
		log = &logger.NopLogger{}
	}
	concurrency := cfg.PollConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Poller{
		targets:       list,
		newClient:     factory,
		publisher:     pub,
		defaultStrict: cfg.StrictStatus,
		interval:      cfg.PollInterval,
		concurrency:   concurrency,
		log:           log,
	}
}

// buildFanout loads publishers; an empty path leaves the poller log-only.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.WarnObj("no publishers file configured; events are only logged", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	cfgs, err := publishers.LoadConfigs(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	enabled := cfgs.Enabled()

	pubClients, err := publishers.DefaultBuilders().Build(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]string, 0, len(pubClients))
	for _, pub := range pubClients {
		summaries = append(summaries, pub.Type()+":"+pub.ID())
	}
	log.InfoObj("publishers built", "publishers_meta", map[string]any{
		"configured": len(cfgs),
		"enabled":    len(enabled),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// DefaultClientFactory shares one resty transport across all per-target clients.
func DefaultClientFactory(cfg *config.Config, log logger.Logger) ClientFactory {
	transport := httpclient.NewRestyClient(cfg.RequestTimeout)
	return func(c mcsrvstat.Config) (StatusClient, error) {
		client, err := mcsrvstat.NewClient(c,
			mcsrvstat.WithBaseURL(cfg.APIBaseURL),
			mcsrvstat.WithHTTPClient(transport),
			mcsrvstat.WithUserAgent(cfg.UserAgent),
			mcsrvstat.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Run performs a pass, then repeats every interval until ctx is cancelled.
// With a zero interval it returns after the first pass.
func (p *Poller) Run(ctx context.Context) error {
	if p == nil || p.newClient == nil {
		return fmt.Errorf("poller is not initialized")
	}
	defer p.closePublisher()

	if len(p.targets) == 0 {
		return fmt.Errorf("no targets enabled")
	}

	p.log.InfoObj("poller starting", "poller_state", map[string]any{
		"targets_count":    len(p.targets),
		"publishers_count": p.publisherSize(),
		"poll_interval":    p.interval.String(),
		"concurrency":      p.concurrency,
	})

	if _, err := p.RunOnce(ctx); err != nil {
		if p.interval <= 0 {
			return err
		}
		p.log.ErrorObj("initial poll failed", "error", err)
	}
	if p.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("poller loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if _, err := p.RunOnce(ctx); err != nil {
				p.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// RunOnce polls all targets and publishes their events. Lookup failures are
// reported inside events; publish failures are returned. A pass interrupted by
// ctx returns the context error and publishes nothing.
func (p *Poller) RunOnce(ctx context.Context) ([]publishers.Event, error) {
	start := time.Now()
	events := make([]publishers.Event, len(p.targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, t := range p.targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			events[i] = p.poll(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("poll pass interrupted: %w", err)
	}

	var errs []error
	for _, evt := range events {
		p.log.InfoObj("target polled", "poll_result", evt)
		if p.publisher == nil {
			continue
		}
		if _, err := p.publisher.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("publish target %s: %w", evt.TargetID, err))
		}
	}

	p.log.InfoObj("poll pass completed", "poll_meta", map[string]any{
		"targets_count": len(events),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return events, errors.Join(errs...)
}

func (p *Poller) poll(ctx context.Context, t targets.Target) publishers.Event {
	evt := publishers.NewEvent(t.ID, t.Address, t.Platform)

	clientCfg, err := t.ClientConfig(p.defaultStrict)
	if err != nil {
		evt.Error = err.Error()
		return evt
	}
	client, err := p.newClient(clientCfg)
	if err != nil {
		evt.Error = err.Error()
		return evt
	}

	// One lookup per target; every projection reads the same document.
	st, err := client.LookupServerStatus(ctx)
	if err != nil {
		p.log.WarnObj("target lookup failed", "poll_error", map[string]any{
			"target_id": t.ID,
			"error":     err.Error(),
		})
		evt.Error = err.Error()
		return evt
	}

	online, err := st.IsOnline()
	if err != nil {
		evt.Error = err.Error()
		return evt
	}
	evt.Online = online
	if count, ok := st.PlayerCount(); ok {
		evt.Players = &count
	}
	if sw, ok := st.SoftwareInfo(); ok {
		evt.Software = &sw
	}
	if lines, ok := st.MotdLines(mcsrvstat.MotdClean); ok {
		evt.Motd = lines
	}
	return evt
}

func (p *Poller) publisherSize() int {
	if p.publisher == nil {
		return 0
	}
	return p.publisher.Size()
}

// closePublisher releases publisher connections, logging any errors encountered.
func (p *Poller) closePublisher() {
	if p == nil || p.publisher == nil {
		return
	}
	if err := p.publisher.Close(); err != nil {
		p.log.ErrorObj("publisher close failed", "error", err)
	}
}
