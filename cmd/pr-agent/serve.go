package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/HendryAvila/pr-agent/internal/events"
	prserver "github.com/HendryAvila/pr-agent/internal/server"
	"github.com/HendryAvila/pr-agent/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: "Start the MCP server on stdio. When webhook.addr is configured the " +
		"GitHub webhook receiver runs in the same process.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	log := events.NewFileLog(cfg.EventsPath())

	s, cleanup, err := prserver.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		// The client closing stdin ends the session and everything with it.
		defer cancel()
		stdio := server.NewStdioServer(s)
		stdio.SetErrorLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))
		slog.Info("mcp server listening on stdio", "version", prserver.Version, "events", log.Path())
		if err := stdio.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server: %w", err)
		}
		return nil
	})

	if cfg.Webhook.Addr != "" {
		g.Go(func() error {
			rc := webhook.NewReceiver(log, cfg.Webhook.Secret)
			return webhook.NewServer(cfg.Webhook.Addr, webhook.NewRouter(rc)).Start(gctx)
		})
	}

	return g.Wait()
}
