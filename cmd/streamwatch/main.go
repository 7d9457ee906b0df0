// streamwatch subscribes to the dashboard's real-time channels and reports
// the cache invalidations each message would trigger.
// Usage: go run ./cmd/streamwatch --config configs/streamwatch.example.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marketdeck/realtime/internal/cache"
	"github.com/marketdeck/realtime/internal/config"
	"github.com/marketdeck/realtime/internal/connection"
	"github.com/marketdeck/realtime/internal/router"
	"github.com/marketdeck/realtime/internal/subscription"
	"github.com/marketdeck/realtime/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamwatch.example.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	statusEvery := flag.Duration("status-interval", 30*time.Second, "status log interval")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting streamwatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"host", cfg.Server.Host,
		"secure", cfg.Server.Secure,
		"channels", cfg.Channels,
	)

	connCfg := connection.Config{
		Host:             cfg.Server.Host,
		Secure:           cfg.Server.Secure,
		BaseDelay:        cfg.Reconnect.BaseDelay,
		MaxDelay:         cfg.Reconnect.MaxDelay,
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
	}

	store := cache.New()

	// One subscription per channel, each bound to its domain table.
	subs := make([]*subscription.Subscription, 0, len(cfg.Channels))
	for _, name := range cfg.Channels {
		table, ok := router.ForChannel(name)
		if !ok {
			// Validate already rejected unknown names.
			continue
		}

		channelLogger := logger.With("instance_id", cfg.Instance.ID)
		dispatch := router.Bind(table, store)
		name := name
		sub := subscription.Open(connCfg, name, func(msg connection.Message) {
			dispatch(msg)
			channelLogger.Info("message",
				"channel", name,
				"type", msg.Type,
			)
		}, channelLogger)
		subs = append(subs, sub)
	}
	defer func() {
		for _, sub := range subs {
			sub.Close()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	// Handle shutdown signals
	group.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	// Periodic status report
	group.Go(func() error {
		ticker := time.NewTicker(*statusEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				stats := store.Stats()
				for _, sub := range subs {
					logger.Info("channel status",
						"channel", sub.Channel(),
						"status", sub.Status().String(),
					)
				}
				logger.Info("cache status",
					"entries", stats.Entries,
					"stale", stats.Stale,
					"invalidations", stats.Invalidations,
				)
			}
		}
	})

	if err := group.Wait(); err != nil {
		logger.Error("streamwatch stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("streamwatch stopped")
}
