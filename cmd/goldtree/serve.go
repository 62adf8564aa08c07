package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/api"
)

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "serve the compare and gold API over HTTP",
		ArgsUsage: "[corpus...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (default: the configured addr)"},
		},
		Action: a.serve,
	}
}

func (a *app) serve(c *cli.Context) error {
	cfg := a.cfg
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	crp, err := openCorpus(c.Context, c.Args().Slice(), cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer crp.Close()

	srv := api.NewServer(crp.lib, crp.load, crp.golds, a.log, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		a.log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	a.log.Info("starting goldtree", "addr", cfg.Addr, "documents", len(crp.lib))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
