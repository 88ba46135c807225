package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"player-auction/internal/config"
	"player-auction/internal/ledger"
	"player-auction/internal/logging"
	"player-auction/internal/runtime"
	"player-auction/internal/store"
	httptransport "player-auction/internal/transport/http"
	"player-auction/internal/ws"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	defaults, err := cfg.Engine.AuctionDefaults()
	if err != nil {
		log.Fatal().Err(err).Msg("auction defaults invalid")
	}

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if cfg.Server.RunMigrations {
		if err := st.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
	}

	coord := runtime.NewCoordinator(st, ledger.New(st), runtime.Options{
		Defaults:        defaults,
		EventBufferSize: cfg.Server.EventBufferSize,
		BidRatePerSec:   cfg.Server.BidRatePerSec,
		BidBurst:        cfg.Server.BidBurst,
	})
	n, err := coord.Recover(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("recover auctions failed")
	}
	log.Info().Int("auctions", n).Msg("auctions recovered")

	wsSrv := ws.NewServer(coord, runtime.MapError)
	coord.SetPublisher(wsSrv)

	r := httptransport.NewRouter(coord, wsSrv, st)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	coord.StartJanitor(gctx, cfg.Server.TradeSweepInterval)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		wsSrv.Close()
		coord.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	log.Info().Msg("server stopped")
}
