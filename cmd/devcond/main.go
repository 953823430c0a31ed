// Command devcond is the networked console daemon: it multiplexes any
// number of named shells, each backed by the page/vte/screen pipeline,
// over websocket connections, the way vibetunnel's termsocket/session
// packages multiplex ttys over its raw websocket handler.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opendevcon/termcore/internal/config"
	"github.com/opendevcon/termcore/internal/logging"
)

func main() {
	var configPath string
	var logLevel string
	var listen string
	var snapshotDir string

	root := &cobra.Command{
		Use:   "devcond",
		Short: "Run the networked developer console daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logging.Level(logLevel)
			}
			if listen != "" {
				cfg.Listen = listen
			}
			return run(cfg, snapshotDir)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.Flags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	root.Flags().StringVar(&listen, "listen", "", "override the configured listen address")
	root.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "directory to write scrollback snapshots to on shutdown")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, snapshotDir string) error {
	logger, err := logging.NewJSON(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mgr := newManager(cfg, logger)
	srv := newServer(mgr, logger)

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sig:
		logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)

	sessions := mgr.all()
	if snapshotDir != "" {
		dir := snapshotDir + "/" + snapshotFileTimestamp(time.Now())
		if err := snapshotScrollback(dir, sessions); err != nil {
			logger.Warn("snapshot failed", zap.Error(err))
		} else {
			logger.Info("scrollback snapshotted", zap.String("dir", dir), zap.Int("sessions", len(sessions)))
		}
	}

	mgr.closeAll()
	return nil
}
