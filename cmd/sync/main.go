package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"market_sync/internal/app/config"
	"market_sync/internal/app/di"
	"market_sync/internal/feature/marketdata/transport/handler"
	jwtmw "market_sync/internal/platform/jwt"
	"market_sync/internal/platform/logger"
)

func newRootCmd() *cobra.Command {
	var symbols string

	cmd := &cobra.Command{
		Use:   "market-sync",
		Short: "Fetch quotes for the configured symbols and upsert today's snapshots",
		Long: `market-sync runs one sync batch outside the HTTP server, e.g. from cron.
Per-symbol failures are reported in the output and do not change the exit code;
missing store credentials abort the batch with a non-zero exit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if symbols != "" {
				cfg.Sync.Symbols = config.ParseSymbols(symbols)
			}

			zl := logger.New(cfg.Env)
			defer func() { _ = zl.Sync() }()

			ctx := cmd.Context()
			app, err := di.Build(ctx, cfg, zl, di.Options{})
			if err != nil {
				return fmt.Errorf("build application: %w", err)
			}
			defer app.Close()

			result, err := app.Sync.RunSymbols(ctx, cfg.Sync.Symbols)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(handler.ToSyncResponse(result))
		},
	}

	cmd.Flags().StringVar(&symbols, "symbols", "", "Comma-separated symbols overriding SYNC_SYMBOLS (e.g. AAPL,MSFT)")
	cmd.AddCommand(newTokenCmd())
	return cmd
}

// newTokenCmd mints a bearer token for schedulers calling /api/sync-stocks.
func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed trigger token for /api/sync-stocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("SYNC_JWT_SECRET is not set")
			}

			token, err := jwtmw.NewGenerator(cfg.JWTSecret, ttl).GenerateToken(subject)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cron", "Value of the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
