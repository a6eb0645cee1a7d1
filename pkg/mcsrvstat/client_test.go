package mcsrvstat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mcsrvstat/mcsrvstat-go/pkg/httpclient"
)

// stubResponse implements httpclient.Response.
type stubResponse struct {
	body       []byte
	statusCode int
	header     http.Header
}

func (s stubResponse) Body() []byte        { return s.body }
func (s stubResponse) StatusCode() int     { return s.statusCode }
func (s stubResponse) Header() http.Header { return s.header }

// stubHTTPClient returns one canned response and records every requested URL.
type stubHTTPClient struct {
	resp  stubResponse
	err   error
	calls []string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return nil, s.err
	}
	resp := s.resp
	if resp.statusCode == 0 {
		resp.statusCode = http.StatusOK
	}
	return resp, nil
}

const fullStatus = `{
  "online": true,
  "ip": "127.0.0.1",
  "port": 25565,
  "motd": {"raw": ["§aHello"], "clean": ["Hello"], "html": ["<span>Hello</span>"]},
  "version": "1.20.4",
  "software": "Paper",
  "debug": {"ping": true, "query": false, "cachetime": 1700000000},
  "players": {
    "online": 2,
    "max": 20,
    "list": ["Alice", "Bob"],
    "uuid": {"Alice": "uuid-123", "Bob": "uuid-456"}
  }
}`

func newStubbedClient(t *testing.T, platform Platform, body string) (*Client, *stubHTTPClient) {
	t.Helper()
	stub := &stubHTTPClient{resp: stubResponse{body: []byte(body)}}
	c, err := NewClient(Config{Platform: platform, Address: "mc.example.com"}, WithHTTPClient(stub))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, stub
}

func TestLookupServerStatusBuildsPlatformURL(t *testing.T) {
	cases := map[Platform]string{
		PlatformJava:    "https://api.mcsrvstat.us/2/mc.example.com",
		PlatformBedrock: "https://api.mcsrvstat.us/bedrock/2/mc.example.com",
	}
	for platform, want := range cases {
		c, stub := newStubbedClient(t, platform, fullStatus)
		if _, err := c.LookupServerStatus(context.Background()); err != nil {
			t.Fatalf("%s: LookupServerStatus: %v", platform, err)
		}
		if len(stub.calls) != 1 || stub.calls[0] != want {
			t.Fatalf("%s: expected single call to %s, got %v", platform, want, stub.calls)
		}
	}
}

func TestRepeatedLookupsDoNotAccumulatePath(t *testing.T) {
	c, stub := newStubbedClient(t, PlatformJava, fullStatus)
	for i := 0; i < 3; i++ {
		if _, err := c.IsOnline(context.Background()); err != nil {
			t.Fatalf("IsOnline: %v", err)
		}
	}
	if _, err := c.LookupServerIcon(context.Background()); err != nil {
		t.Fatalf("LookupServerIcon: %v", err)
	}
	if _, err := c.LookupServerIcon(context.Background()); err != nil {
		t.Fatalf("LookupServerIcon: %v", err)
	}

	want := []string{
		"https://api.mcsrvstat.us/2/mc.example.com",
		"https://api.mcsrvstat.us/2/mc.example.com",
		"https://api.mcsrvstat.us/2/mc.example.com",
		"https://api.mcsrvstat.us/icon/mc.example.com",
		"https://api.mcsrvstat.us/icon/mc.example.com",
	}
	if len(stub.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), stub.calls)
	}
	for i := range want {
		if stub.calls[i] != want[i] {
			t.Fatalf("call %d: expected %s, got %s", i, want[i], stub.calls[i])
		}
	}
}

func TestInvalidPlatformFailsBeforeNetwork(t *testing.T) {
	stub := &stubHTTPClient{}
	_, err := New("bedrockk", "mc.example.com", true, WithHTTPClient(stub))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	c := &Client{cfg: Config{Platform: "bedrockk", Address: "mc.example.com"}, http: stub, log: noopLogger{}}
	if _, err := c.LookupServerStatus(context.Background()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument from lookup, got %v", err)
	}
	if _, err := c.IsOnline(context.Background()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument from IsOnline, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected zero transport calls, got %v", stub.calls)
	}
}

func TestNewAcceptsMixedCasePlatform(t *testing.T) {
	c, err := New(" Bedrock ", "mc.example.com", false, WithHTTPClient(&stubHTTPClient{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Config().Platform != PlatformBedrock {
		t.Fatalf("unexpected platform %q", c.Config().Platform)
	}
}

func TestNewRejectsEmptyAddress(t *testing.T) {
	if _, err := New("java", "  ", false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestStrictStatusRejectsNon200(t *testing.T) {
	stub := &stubHTTPClient{resp: stubResponse{body: []byte(`{"online":false}`), statusCode: http.StatusServiceUnavailable}}
	c, err := NewClient(Config{Platform: PlatformJava, Address: "mc.example.com", StrictStatus: true}, WithHTTPClient(stub))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.LookupServerStatus(context.Background()); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if _, err := c.LookupServerIcon(context.Background()); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable for icon, got %v", err)
	}
}

func TestLenientStatusReturnsBodyOnNon200(t *testing.T) {
	stub := &stubHTTPClient{resp: stubResponse{body: []byte(`{"online":false}`), statusCode: http.StatusServiceUnavailable}}
	c, err := NewClient(Config{Platform: PlatformJava, Address: "mc.example.com"}, WithHTTPClient(stub))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	online, err := c.IsOnline(context.Background())
	if err != nil {
		t.Fatalf("IsOnline: %v", err)
	}
	if online {
		t.Fatalf("expected offline")
	}
	resp, err := c.LookupServerIcon(context.Background())
	if err != nil {
		t.Fatalf("LookupServerIcon: %v", err)
	}
	if resp.StatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("expected raw 503 response, got %d", resp.StatusCode())
	}
}

func TestTransportErrorBecomesConnectivityError(t *testing.T) {
	cause := context.DeadlineExceeded
	stub := &stubHTTPClient{err: cause}
	c, err := NewClient(Config{Platform: PlatformJava, Address: "mc.example.com"}, WithHTTPClient(stub))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.LookupServerStatus(context.Background())
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected underlying cause to be preserved, got %v", err)
	}
}

func TestMalformedJSONIsLookupFailure(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, "<html>not json</html>")
	if _, err := c.LookupServerStatus(context.Background()); !errors.Is(err, ErrLookupFailure) {
		t.Fatalf("expected ErrLookupFailure, got %v", err)
	}
}

func TestIsOnlineRequiresField(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, `{"motd":{"clean":["hi"]}}`)
	if _, err := c.IsOnline(context.Background()); !errors.Is(err, ErrLookupFailure) {
		t.Fatalf("expected ErrLookupFailure, got %v", err)
	}
}

func TestMotdIsCaseInsensitive(t *testing.T) {
	c, stub := newStubbedClient(t, PlatformJava, fullStatus)
	upper, ok, err := c.Motd(context.Background(), "RAW")
	if err != nil || !ok {
		t.Fatalf("Motd RAW: ok=%v err=%v", ok, err)
	}
	lower, ok, err := c.Motd(context.Background(), "raw")
	if err != nil || !ok {
		t.Fatalf("Motd raw: ok=%v err=%v", ok, err)
	}
	if len(upper) != 1 || len(lower) != 1 || upper[0] != lower[0] || lower[0] != "§aHello" {
		t.Fatalf("expected equal raw motd, got %v vs %v", upper, lower)
	}
	if len(stub.calls) != 2 {
		t.Fatalf("expected one request per accessor call, got %d", len(stub.calls))
	}
}

func TestMotdMissingKindIsAbsent(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, `{"online":true,"motd":{"clean":["hi"]}}`)
	lines, ok, err := c.Motd(context.Background(), "html")
	if err != nil {
		t.Fatalf("Motd: %v", err)
	}
	if ok || lines != nil {
		t.Fatalf("expected absent html motd, got %v", lines)
	}
}

func TestMotdUnknownKindFailsBeforeNetwork(t *testing.T) {
	c, stub := newStubbedClient(t, PlatformJava, fullStatus)
	if _, _, err := c.Motd(context.Background(), "markdown"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no request, got %v", stub.calls)
	}
}

func TestSoftwareNeedsBothKeys(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, fullStatus)
	info, ok, err := c.Software(context.Background())
	if err != nil || !ok {
		t.Fatalf("Software: ok=%v err=%v", ok, err)
	}
	if info.Version != "1.20.4" || info.Software != "Paper" {
		t.Fatalf("unexpected software %+v", info)
	}

	partial, _ := newStubbedClient(t, PlatformJava, `{"online":true,"version":"1.20.4"}`)
	if _, ok, err := partial.Software(context.Background()); err != nil || ok {
		t.Fatalf("expected absent software for partial data, ok=%v err=%v", ok, err)
	}
}

func TestDebugValueMissingKeyIsLookupFailure(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, fullStatus)
	v, err := c.DebugValue(context.Background(), "PING")
	if err != nil {
		t.Fatalf("DebugValue PING: %v", err)
	}
	if !v {
		t.Fatalf("expected ping=true")
	}
	if _, err := c.DebugValue(context.Background(), "foo"); !errors.Is(err, ErrLookupFailure) {
		t.Fatalf("expected ErrLookupFailure for missing key, got %v", err)
	}
	if _, err := c.DebugValue(context.Background(), "cachetime"); !errors.Is(err, ErrLookupFailure) {
		t.Fatalf("expected ErrLookupFailure for non-boolean value, got %v", err)
	}

	noDebug, _ := newStubbedClient(t, PlatformJava, `{"online":true}`)
	if _, err := noDebug.DebugValue(context.Background(), "ping"); !errors.Is(err, ErrLookupFailure) {
		t.Fatalf("expected ErrLookupFailure without debug section, got %v", err)
	}
}

func TestPlayerByName(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, fullStatus)
	p, err := c.PlayerByName(context.Background(), "Bob")
	if err != nil {
		t.Fatalf("PlayerByName: %v", err)
	}
	if p.Name != "Bob" || p.ID != "uuid-456" {
		t.Fatalf("unexpected player %+v", p)
	}
	if _, err := c.PlayerByName(context.Background(), "Carol"); !errors.Is(err, ErrLookupFailure) {
		t.Fatalf("expected ErrLookupFailure for unknown player, got %v", err)
	}

	empty, _ := newStubbedClient(t, PlatformJava, `{"online":false}`)
	if _, err := empty.PlayerByName(context.Background(), "Bob"); !errors.Is(err, ErrLookupFailure) {
		t.Fatalf("expected ErrLookupFailure without players, got %v", err)
	}
}

func TestPlayersMissingSectionIsAbsent(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, `{"online":false}`)

	players, ok, err := c.Players(context.Background())
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	if ok || players != nil {
		t.Fatalf("expected absent player list, got %v", players)
	}

	count, ok, err := c.PlayerCount(context.Background())
	if err != nil {
		t.Fatalf("PlayerCount: %v", err)
	}
	if ok {
		t.Fatalf("expected absent player count, got %+v", count)
	}
}

func TestPlayersSingleEntry(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, `{"online":true,"players":{"online":1,"max":10,"list":["Alice"],"uuid":{"Alice":"uuid-123"}}}`)
	players, ok, err := c.Players(context.Background())
	if err != nil || !ok {
		t.Fatalf("Players: ok=%v err=%v", ok, err)
	}
	if len(players) != 1 || players[0] != (Player{Name: "Alice", ID: "uuid-123"}) {
		t.Fatalf("unexpected players %+v", players)
	}
}

func TestPlayersPreserveServerOrder(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, `{"online":true,"players":{"online":3,"max":10,
		"list":["Zed","Alice","Mia"],"uuid":{"Alice":"a","Mia":"m","Zed":"z"}}}`)
	players, ok, err := c.Players(context.Background())
	if err != nil || !ok {
		t.Fatalf("Players: ok=%v err=%v", ok, err)
	}
	want := []string{"Zed", "Alice", "Mia"}
	for i, name := range want {
		if players[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, players[i].Name)
		}
	}
}

func TestPlayerCount(t *testing.T) {
	c, _ := newStubbedClient(t, PlatformJava, fullStatus)
	count, ok, err := c.PlayerCount(context.Background())
	if err != nil || !ok {
		t.Fatalf("PlayerCount: ok=%v err=%v", ok, err)
	}
	if count.Online != 2 || count.Max != 20 {
		t.Fatalf("unexpected count %+v", count)
	}
}

func TestIconPassthroughAgainstServer(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/icon/mc.example.com":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
		case "/2/mc.example.com":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(fullStatus))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := New("java", "mc.example.com", true, WithBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	icon, err := c.Icon(context.Background())
	if err != nil {
		t.Fatalf("Icon: %v", err)
	}
	if icon.ContentType != "image/png" || string(icon.Data) != string(png) {
		t.Fatalf("unexpected icon %+v", icon)
	}
	online, err := c.IsOnline(context.Background())
	if err != nil || !online {
		t.Fatalf("IsOnline: online=%v err=%v", online, err)
	}
}

func TestClientConcurrentLookups(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/bedrock/2/pe.example.com" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fullStatus))
	}))
	defer srv.Close()

	c, err := New("bedrock", "pe.example.com", true, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			online, err := c.IsOnline(context.Background())
			if err == nil && !online {
				err = errors.New("reported offline")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent IsOnline: %v", err)
		}
	}
	if got := hits.Load(); got != workers {
		t.Fatalf("expected %d requests, got %d", workers, got)
	}
	if got := StatusURL(srv.URL, PlatformBedrock, "pe.example.com"); got != srv.URL+"/bedrock/2/pe.example.com" {
		t.Fatalf("url changed after concurrent use: %s", got)
	}
}
