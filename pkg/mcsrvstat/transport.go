package mcsrvstat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mcsrvstat/mcsrvstat-go/pkg/httpclient"
)

// fetchRaw issues a single GET and hands back the response untouched.
// Transport failures become ErrConnectivity; with strict status checking a
// non-200 answer becomes ErrServiceUnavailable. There are no retries.
func (c *Client) fetchRaw(ctx context.Context, url string) (httpclient.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, url, c.headers())
	if err != nil {
		c.log.WarnObj("mcsrvstat request failed", "mcsrvstat_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: get %s: %w", ErrConnectivity, url, err)
	}

	c.log.DebugObj("mcsrvstat request completed", "mcsrvstat_request", map[string]any{
		"url":        url,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if c.cfg.StrictStatus && resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d body: %s",
			ErrServiceUnavailable, url, resp.StatusCode(), responseSnippet(resp.Body()))
	}
	return resp, nil
}

// fetchStatus issues a single GET and decodes the body as a status document.
func (c *Client) fetchStatus(ctx context.Context, url string) (*Status, error) {
	resp, err := c.fetchRaw(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseStatus(resp.Body())
}

func (c *Client) headers() map[string]string {
	if c.userAgent == "" {
		return nil
	}
	return map[string]string{"User-Agent": c.userAgent}
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
