package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"utxo-dex-relay/internal/observability"
	"utxo-dex-relay/internal/relay"
	"utxo-dex-relay/internal/storage"
	"utxo-dex-relay/internal/storage/memory"
	pgstore "utxo-dex-relay/internal/storage/postgres"
	"utxo-dex-relay/internal/taproot"
	"utxo-dex-relay/internal/watcher"
)

func main() {
	relays := flag.String("relays", "", "Comma-separated relay websocket URLs, in preference order")
	network := flag.String("network", "testnet", "Network for taproot commitments: mainnet or testnet")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	statsInterval := flag.Duration("stats-interval", 1*time.Minute, "Stats logging interval")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[watcher] ", log.LstdFlags|log.Lshortfile)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err := run(ctx, logger, *relays, *network, *postgresDSN, *useMemory, *statsInterval)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, relays, network, postgresDSN string, useMemory bool, statsInterval time.Duration) error {
	var net taproot.Params
	switch strings.ToLower(network) {
	case "mainnet":
		net = taproot.Mainnet
	case "testnet":
		net = taproot.Testnet
	default:
		return fmt.Errorf("unknown network %q", network)
	}

	cfg := relay.DefaultConfig()
	for _, url := range strings.Split(relays, ",") {
		url = strings.TrimSpace(url)
		if url != "" {
			cfg = cfg.WithRelay(url)
		}
	}

	transport, err := relay.Dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect relay: %w", err)
	}
	defer transport.Close()

	if !useMemory && postgresDSN == "" {
		return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	var store storage.OrderParamsStore = memory.NewOrderParamsStore()
	if !useMemory {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		store = pgstore.NewOrderParamsStore(pool)
	}

	w := watcher.New(watcher.Options{
		Transport:     transport,
		Network:       net,
		Store:         store,
		StatsInterval: statsInterval,
		Logger:        logger,
	})

	logger.Println("Starting marketplace watcher...")
	return w.Run(ctx)
}
