package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	appconfig "github.com/pipeboard/pipeboard/internal/config"
	"github.com/pipeboard/pipeboard/internal/logging"
	"github.com/pipeboard/pipeboard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local system of record with demo deals",
	Long: `Run a development deals API the board can talk to.

Deals are generated from server.seed and kept in memory. Set
server.redis_url to put a Redis read-through cache in front of deal
listings. server.fail_rate and server.latency inject failures and delay
into stage updates so rollbacks can be tried out.`,
	RunE: runServe,
}

var (
	serveAddr     string
	serveFailRate float64
	serveLatency  time.Duration
	serveSeed     uint64
	serveDeals    int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().Float64Var(&serveFailRate, "fail-rate", -1, "probability a stage update fails (overrides server.fail_rate)")
	serveCmd.Flags().DurationVar(&serveLatency, "latency", -1, "delay added to stage updates (overrides server.latency)")
	serveCmd.Flags().Uint64Var(&serveSeed, "seed", 0, "demo data seed (overrides server.seed)")
	serveCmd.Flags().IntVar(&serveDeals, "deals", -1, "number of demo deals (overrides server.seed_deals)")
}

// applyServeFlags folds explicitly set flags into the server section.
func applyServeFlags(cmd *cobra.Command, sc *appconfig.ServerConfig) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		sc.Addr = serveAddr
	}
	if flags.Changed("fail-rate") {
		sc.FailRate = serveFailRate
	}
	if flags.Changed("latency") {
		sc.Latency = serveLatency
	}
	if flags.Changed("seed") {
		sc.Seed = serveSeed
	}
	if flags.Changed("deals") {
		sc.SeedDeals = serveDeals
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &cfg.Server)
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid flags: %w", appconfig.ValidationErrors(errs))
	}

	logger, err := newStderrLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStore(ctx, cfg.Server, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(store, logger, server.WithFaults(
		server.NewFaults(cfg.Server.FailRate, cfg.Server.Latency, cfg.Server.Seed),
	))

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d demo deals on %s (Ctrl+C to stop)\n", cfg.Server.SeedDeals, cfg.Server.Addr)
	return srv.Start(ctx, cfg.Server.Addr)
}

// buildStore seeds the in-memory store and, when a Redis URL is set, wraps
// it in the read-through cache. An unreachable Redis is reported and the
// server runs uncached.
func buildStore(ctx context.Context, sc appconfig.ServerConfig, logger *logging.Logger) (server.Store, func(), error) {
	base := server.NewMemoryStore(server.SeedDeals(sc.SeedDeals, sc.Seed, time.Now()))
	if sc.RedisURL == "" {
		return base, func() {}, nil
	}

	opts, err := redis.ParseURL(sc.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing server.redis_url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, serving without cache", "addr", opts.Addr, "error", err)
		_ = client.Close()
		return base, func() {}, nil
	}

	logger.Info("redis cache enabled", "addr", opts.Addr, "ttl", sc.CacheTTL.String())
	return server.NewCachedStore(base, client, sc.CacheTTL, logger), func() { _ = client.Close() }, nil
}
