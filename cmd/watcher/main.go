package main

import (
	"context"
	"errors"
	"github.com/joho/godotenv"
	"github.com/txsociety/klever-sdk/internal/config"
	"github.com/txsociety/klever-sdk/pkg/network"
	"github.com/txsociety/klever-sdk/pkg/provider"
	"github.com/txsociety/klever-sdk/pkg/txstore"
	"github.com/txsociety/klever-sdk/pkg/watcher"
	"github.com/txsociety/klever-sdk/pkg/webhook"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var Version = "dev"

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("loading .env", "error", err.Error())
	}
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))
	slog.Info("running transaction watcher", "version", Version, "log level", cfg.LogLevel.String())

	net, err := resolveNetwork(cfg)
	if err != nil {
		slog.Error("resolving network", "error", err)
		os.Exit(1)
	}
	slog.Info("network resolved", "name", net.Name, "chain id", net.ChainID)

	providerOpts := []provider.Option{
		provider.WithPollInterval(cfg.TrackInterval),
	}
	if cfg.Debug {
		providerOpts = append(providerOpts, provider.WithDebug())
	}
	ledger, err := provider.New(net, providerOpts...)
	if err != nil {
		slog.Error("ledger provider", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	store, err := txstore.New(ctx, cfg.PostgresURI)
	cancel()
	if err != nil {
		slog.Error("db connection", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var wh *webhook.Client
	if len(cfg.WebhookEndpoint) > 0 {
		wh, err = webhook.NewClient(cfg.WebhookEndpoint)
		if err != nil {
			slog.Error("webhook connection", "error", err)
			os.Exit(1)
		}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	wg := new(sync.WaitGroup)
	ctx, cancel = context.WithCancel(context.Background())

	var w *watcher.Watcher
	if wh != nil {
		w = watcher.New(ledger, store, wh, cfg.TrackInterval, cfg.ExpireAfter)
	} else {
		w = watcher.New(ledger, store, nil, cfg.TrackInterval, cfg.ExpireAfter)
	}
	w.Run(ctx, wg)

	sig := <-ch
	slog.Info("shut down", "signal", sig.String())
	cancel()
	wg.Wait()
}

func resolveNetwork(cfg config.Config) (*network.Record, error) {
	registry := network.NewRegistry()
	if len(cfg.NetworksFile) > 0 {
		if _, err := registry.LoadNetworksFile(cfg.NetworksFile); err != nil {
			return nil, err
		}
	}
	if len(cfg.APIEndpoint) > 0 {
		endpoints := network.Endpoints{
			API:  cfg.APIEndpoint,
			Node: cfg.NodeEndpoint,
		}
		return network.CreateCustomNetwork("", cfg.ChainID, endpoints), nil
	}
	return registry.Resolve(cfg.Network)
}
