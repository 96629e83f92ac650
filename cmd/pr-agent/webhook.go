package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/HendryAvila/pr-agent/internal/webhook"
)

var webhookAddr string

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Run only the GitHub webhook receiver",
	Long: "Receive GitHub webhook deliveries on POST " + webhook.PathGitHub +
		" and append them to the event log read by the MCP tools.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := webhookAddr
		if addr == "" {
			addr = cfg.Webhook.Addr
		}
		if addr == "" {
			return errors.New("no listen address: set --addr or webhook.addr")
		}
		if cfg.Webhook.Secret == "" {
			slog.Warn("GITHUB_WEBHOOK_SECRET not set; deliveries are accepted unsigned")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rc := webhook.NewReceiver(events.NewFileLog(cfg.EventsPath()), cfg.Webhook.Secret)
		return webhook.NewServer(addr, webhook.NewRouter(rc)).Start(ctx)
	},
}

func init() {
	webhookCmd.Flags().StringVar(&webhookAddr, "addr", "", "listen address, e.g. :8080 (default: webhook.addr)")
}
