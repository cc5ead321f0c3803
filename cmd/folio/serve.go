package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const defaultShutdownTimeout = 10 * time.Second

func newServeCmd(app *cli) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API, static files and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				app.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				app.cfg.Cache.Watch = watch
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "invalidate cached documents when content files change")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	module, err := c.module()
	if err != nil {
		return err
	}
	logger := module.Container().Logger()
	cfg := module.Config().Server

	if watcher := module.Watcher(); watcher != nil {
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("cache.watch.failed", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      module.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	logger.Info("server.shutdown")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
