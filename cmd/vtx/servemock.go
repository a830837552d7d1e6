// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/vtx/vtx/internal/config"
	vtxlog "github.com/vtx/vtx/internal/log"
	"github.com/vtx/vtx/internal/mockapi"
)

func runServeMock(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve-mock", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (YAML)")
	addr := fs.String("addr", "", "listen address (overrides config)")
	advance := fs.Duration("advance", 2*time.Second, "time per simulated processing stage")
	_ = fs.Parse(args)

	cfg, err := bootstrap(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "serve-mock: %v\n", err)
		return 1
	}
	logger := vtxlog.WithComponent("serve-mock")

	// Pick up config file edits while running; the listen address stays
	// fixed but log level and tunables follow the file.
	if *configPath != "" {
		holder := config.NewHolder(cfg, config.NewLoader(*configPath), *configPath)
		updates := make(chan config.AppConfig, 1)
		holder.Subscribe(updates)
		if err := holder.Watch(ctx); err != nil {
			logger.Warn().Err(err).Str("event", "config.watch_failed").Msg("config hot reload disabled")
		} else {
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case next := <-updates:
						vtxlog.Configure(vtxlog.Config{Level: next.LogLevel, Service: "vtx", Version: version})
					}
				}
			}()
		}
	}

	listen := cfg.MockListenAddr
	if *addr != "" {
		listen = *addr
	}

	opts := mockapi.DefaultOptions()
	opts.AdvanceInterval = *advance
	sim := mockapi.NewServer(opts)

	srv := &http.Server{
		Addr:              listen,
		Handler:           sim.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("event", "startup").
			Str("addr", listen).
			Dur("advance_interval", *advance).
			Msg("mock translation service listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("event", "shutdown.failed").Msg("forced shutdown")
		}
		if err := sim.Close(); err != nil {
			logger.Error().Err(err).Str("event", "shutdown.jobs_failed").Msg("job simulations did not stop cleanly")
		}
		logger.Info().Str("event", "shutdown").Msg("mock service stopped")
		return 0
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("event", "serve.failed").Msg("server failed")
			return 1
		}
		return 0
	}
}
