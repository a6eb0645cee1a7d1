// Package mcsrvstat is a client for the Minecraft server status API at
// api.mcsrvstat.us. Each accessor performs one status lookup and projects a
// single piece of the response; nothing is cached between calls.
package mcsrvstat

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcsrvstat/mcsrvstat-go/pkg/httpclient"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "mcsrvstat-go/1.0"

// Config identifies the server to query.
type Config struct {
	Platform     Platform
	Address      string
	StrictStatus bool
}

// Client queries the status API for one configured server. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	cfg       Config
	baseURL   string
	userAgent string
	http      httpclient.Client
	log       Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = normalizeBase(base) }
}

// WithHTTPClient replaces the default resty-backed transport.
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// WithUserAgent sets the User-Agent header; an empty value sends none.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = strings.TrimSpace(ua) }
}

// NewClient validates cfg and builds a client. An unsupported platform or an
// empty address fails with ErrInvalidArgument.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.Address = strings.TrimSpace(cfg.Address)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		log:       noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(httpclient.DefaultTimeout)
	}
	return c, nil
}

// New parses platform and builds a client for address.
func New(platform, address string, strictStatus bool, opts ...Option) (*Client, error) {
	p, err := ParsePlatform(platform)
	if err != nil {
		return nil, err
	}
	return NewClient(Config{Platform: p, Address: address, StrictStatus: strictStatus}, opts...)
}

func validateConfig(cfg Config) error {
	if !cfg.Platform.Valid() {
		return fmt.Errorf("%w: platform %q must be %q or %q", ErrInvalidArgument, cfg.Platform, PlatformJava, PlatformBedrock)
	}
	if strings.TrimSpace(cfg.Address) == "" {
		return fmt.Errorf("%w: server address is empty", ErrInvalidArgument)
	}
	return nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// LookupServerStatus fetches and decodes the status document.
func (c *Client) LookupServerStatus(ctx context.Context) (*Status, error) {
	if err := validateConfig(c.cfg); err != nil {
		return nil, err
	}
	return c.fetchStatus(ctx, StatusURL(c.baseURL, c.cfg.Platform, c.cfg.Address))
}

// LookupServerIcon fetches the icon endpoint and returns the raw response.
func (c *Client) LookupServerIcon(ctx context.Context) (httpclient.Response, error) {
	if err := validateConfig(c.cfg); err != nil {
		return nil, err
	}
	return c.fetchRaw(ctx, IconURL(c.baseURL, c.cfg.Address))
}

// Icon returns the icon payload without decoding it.
func (c *Client) Icon(ctx context.Context) (Icon, error) {
	resp, err := c.LookupServerIcon(ctx)
	if err != nil {
		return Icon{}, err
	}
	icon := Icon{Data: resp.Body()}
	if h := resp.Header(); h != nil {
		icon.ContentType = h.Get("Content-Type")
	}
	return icon, nil
}

// IsOnline reports whether the server is online.
func (c *Client) IsOnline(ctx context.Context) (bool, error) {
	st, err := c.LookupServerStatus(ctx)
	if err != nil {
		return false, err
	}
	return st.IsOnline()
}

// Motd returns the MOTD lines of the given kind (raw, clean or html, any case).
// ok is false when the server does not report that kind.
func (c *Client) Motd(ctx context.Context, kind string) (lines []string, ok bool, err error) {
	k, err := ParseMotdKind(kind)
	if err != nil {
		return nil, false, err
	}
	st, err := c.LookupServerStatus(ctx)
	if err != nil {
		return nil, false, err
	}
	lines, ok = st.MotdLines(k)
	return lines, ok, nil
}

// Software returns the reported version and software; ok is false unless both are present.
func (c *Client) Software(ctx context.Context) (ServerSoftwareInfo, bool, error) {
	st, err := c.LookupServerStatus(ctx)
	if err != nil {
		return ServerSoftwareInfo{}, false, err
	}
	info, ok := st.SoftwareInfo()
	return info, ok, nil
}

// DebugValue returns a debug flag by name. A missing flag is ErrLookupFailure.
func (c *Client) DebugValue(ctx context.Context, name string) (bool, error) {
	st, err := c.LookupServerStatus(ctx)
	if err != nil {
		return false, err
	}
	return st.DebugValue(name)
}

// PlayerByName returns the online player with the exact name, or ErrLookupFailure.
func (c *Client) PlayerByName(ctx context.Context, name string) (Player, error) {
	st, err := c.LookupServerStatus(ctx)
	if err != nil {
		return Player{}, err
	}
	return st.PlayerByName(name)
}

// PlayerCount returns the online and max player counts.
func (c *Client) PlayerCount(ctx context.Context) (PlayerCount, bool, error) {
	st, err := c.LookupServerStatus(ctx)
	if err != nil {
		return PlayerCount{}, false, err
	}
	count, ok := st.PlayerCount()
	return count, ok, nil
}

// Players lists online players in the order the server reports them. ok is
// false, rather than an empty slice, when the server reports no player data.
func (c *Client) Players(ctx context.Context) ([]Player, bool, error) {
	st, err := c.LookupServerStatus(ctx)
	if err != nil {
		return nil, false, err
	}
	players, ok := st.PlayerList()
	return players, ok, nil
}
