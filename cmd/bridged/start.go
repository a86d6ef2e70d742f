package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"pkg.sigmaverse.dev/bridge/account"
	"pkg.sigmaverse.dev/bridge/bridge"
	"pkg.sigmaverse.dev/bridge/config"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/orchestrator"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/server"
	"pkg.sigmaverse.dev/bridge/signer"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/statsd"
	"pkg.sigmaverse.dev/bridge/telemetry"
)

func newStartCmd(v *viper.Viper, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the bridge to game runtimes and the host page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, *cfg)
		},
	}
	flags := cmd.Flags()
	flags.String("port", "", "port serving /bridge and the host API")
	flags.String("events-url", "", "gateway websocket endpoint for program events")
	flags.String("redis-address", "", "redis address for signer nonces")
	flags.Bool("event-refresh", false, "refresh the collection on program events")
	flags.Bool("cors", false, "allow cross origin host requests")
	bindFlags(v, flags, "port", "events-url", "redis-address", "event-refresh", "cors")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	logger := log.Logger

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:    cfg.TraceEnabled,
		Endpoint:   cfg.TraceEndpoint,
		SampleRate: cfg.TraceSampleRate,
	})
	if err != nil {
		return eris.Wrap(err, "failed to set up telemetry")
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	if cfg.StatsdAddress != "" {
		if err := statsd.Init(cfg.StatsdAddress, cfg.StatsdTags); err != nil {
			return eris.Wrap(err, "failed to set up statsd")
		}
		defer func() { _ = statsd.Close() }()
	}

	var clientOpts []gateway.ClientOption
	var hub *gateway.EventHub
	if cfg.EventsURL != "" {
		hub, err = gateway.NewEventHub(ctx, logger, cfg.EventsURL)
		if err != nil {
			return err
		}
		defer hub.Shutdown()
		clientOpts = append(clientOpts, gateway.WithEventHub(hub))
	}
	node := gateway.NewClient(cfg.NodeURL, clientOpts...)

	nonces := signer.NewMemoryNonceManager()
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return eris.Wrapf(err, "failed to reach redis at %s", cfg.RedisAddress)
		}
		nonces = signer.NewRedisNonceManager(rdb)
	}

	keystore, err := signer.LoadKeystore(cfg.SignerSource, cfg.SignerKeys)
	if err != nil {
		return err
	}
	for _, addr := range keystore.Addresses() {
		logger.Info().Str("source", keystore.Name()).Str("address", addr.Hex()).Msg("signer available")
	}

	prog := program.New(node,
		program.WithProgramID(cfg.ProgramActor()),
		program.WithNonceManager(nonces),
		program.WithLogger(logger),
		program.WithGasMargin(cfg.GasMarginPercent),
	)
	store := state.NewStore()
	refresher := orchestrator.NewAssetRefresher(store, prog.CyborNft, logger)
	orch := orchestrator.New(
		store,
		account.NewResolver(store, signer.NewRegistry(keystore)),
		prog.CyborNft,
		orchestrator.NewPriceSchedule(prog.CyborNft, orchestrator.DefaultFixedPrices(), cfg.PriceTTL),
		refresher,
		orchestrator.WithLogger(logger),
	)
	poller := orchestrator.NewBalancePoller(store, node, cfg.BalanceInterval, logger)

	opts := []server.Option{server.WithPort(cfg.Port), server.WithLogger(logger)}
	if cfg.CORS {
		opts = append(opts, server.WithCORS())
	}
	srv, err := server.New(bridge.Services{
		Store:    store,
		Minter:   orch,
		Cybors:   prog.CyborNft,
		Decimals: cfg.Decimals,
	}, node, opts...)
	if err != nil {
		return err
	}

	// Everything that can fail is set up before the first goroutine starts.
	if cfg.EventRefresh {
		if hub != nil {
			stopEvents, err := refresher.WatchEvents(ctx, prog.CyborNft)
			if err != nil {
				return err
			}
			defer stopEvents()
		} else {
			logger.Warn().Msg("event refresh needs events_url, collections refresh on identity change and mint only")
		}
	}
	stopWatch := refresher.Watch(ctx)
	defer stopWatch()

	g, ctx := errgroup.WithContext(ctx)
	if hub != nil {
		g.Go(func() error { return hub.Dispatch(ctx) })
	}
	g.Go(func() error { return poller.Run(ctx) })
	g.Go(func() error { return srv.Serve(ctx) })

	err = g.Wait()
	refresher.Wait()
	return err
}
