package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcsrvstat/mcsrvstat-go/internal/app"
	"github.com/mcsrvstat/mcsrvstat-go/internal/config"
	"github.com/mcsrvstat/mcsrvstat-go/internal/logger"
	"github.com/mcsrvstat/mcsrvstat-go/pkg/httpclient"
	"github.com/mcsrvstat/mcsrvstat-go/pkg/mcsrvstat"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mcsrvstat failed: %v\n", err)
		os.Exit(1)
	}
}

// run polls the configured targets, or with "<platform> <address>" arguments
// prints the status of a single server.
func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(args) > 0 {
		if len(args) != 2 {
			return fmt.Errorf("usage: mcsrvstat [<java|bedrock> <address>]")
		}
		return lookup(ctx, cfg, log, args[0], args[1])
	}

	logger.InfoObj("mcsrvstat starting", "config", cfg)

	poller, err := app.NewPoller(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize poller", "error", err)
		return err
	}

	if err := poller.Run(ctx); err != nil {
		return fmt.Errorf("poller run: %w", err)
	}
	return nil
}

func lookup(ctx context.Context, cfg *config.Config, log logger.Logger, platform, address string) error {
	client, err := mcsrvstat.New(platform, address, cfg.StrictStatus,
		mcsrvstat.WithBaseURL(cfg.APIBaseURL),
		mcsrvstat.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		mcsrvstat.WithUserAgent(cfg.UserAgent),
		mcsrvstat.WithLogger(log),
	)
	if err != nil {
		return err
	}

	st, err := client.LookupServerStatus(ctx)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", address, err)
	}
	online, err := st.IsOnline()
	if err != nil {
		return err
	}

	out := map[string]any{
		"address":  address,
		"platform": client.Config().Platform,
		"online":   online,
	}
	if lines, ok := st.MotdLines(mcsrvstat.MotdClean); ok {
		out["motd"] = lines
	}
	if sw, ok := st.SoftwareInfo(); ok {
		out["software"] = sw
	}
	if count, ok := st.PlayerCount(); ok {
		out["players"] = count
	}
	if list, ok := st.PlayerList(); ok {
		out["player_list"] = list
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
