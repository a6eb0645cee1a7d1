package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mcsrvstat/mcsrvstat-go/pkg/httpclient"
)

// Webhook headers mirroring the message attributes of the queue publishers.
const (
	HeaderTargetID = "X-Mcsrvstat-Target"
	HeaderPlatform = "X-Mcsrvstat-Platform"
	HeaderOnline   = "X-Mcsrvstat-Online"
)

const maxErrorBody = 512

// httpPublisher sends each event as a JSON body to a webhook. Configured
// headers are applied first; the event headers always win.
type httpPublisher struct {
	sink
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	return &httpPublisher{
		sink:    newSink(cfg.ID, TypeHTTP, log),
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
	}, nil
}

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	attrs := evt.Attributes()
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderTargetID, attrs[AttrTargetID]).
		SetHeader(HeaderPlatform, attrs[AttrPlatform]).
		SetHeader(HeaderOnline, attrs[AttrOnline]).
		SetBody(evt).
		Execute(h.method, h.url)
	if err != nil {
		h.failed(evt, err)
		return fmt.Errorf("%s %s: %w", h.method, h.url, err)
	}
	if !resp.IsSuccess() {
		err := fmt.Errorf("webhook status %d: %s", resp.StatusCode(), errorBody(resp.Body()))
		h.failed(evt, err)
		return err
	}
	h.delivered(evt, resp.Status())
	return nil
}

func errorBody(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}
