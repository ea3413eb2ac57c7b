package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/iksnae/studio-session/internal"
	"github.com/spf13/cobra"
)

var healthcheckVerbose bool

type pinger interface {
	Ping(ctx context.Context) error
}

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the configured store is reachable and readable",
	Long: `Check the health of studio-session by verifying:
  • Configuration loads and validates
  • The store backend opens (and answers a ping where supported)
  • The version marker and session data are readable

This command does not modify the store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Studio Session Health Check"))
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Invalid configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		printSuccess(out, "Configuration loaded")
		if healthcheckVerbose {
			_, _ = fmt.Fprintf(out, "   Backend: %s\n", cfg.Store.Backend)
			_, _ = fmt.Fprintf(out, "   Path: %s\n", cfg.Store.Path)
		}
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Opening store..."))
		backend, err := openBackend(cfg)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open store:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		store := internal.NewStore(backend)
		defer func() { _ = store.Close() }()

		if p, ok := backend.(pinger); ok {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			err := p.Ping(ctx)
			cancel()
			if err != nil {
				_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Store did not answer:"), err)
				return fmt.Errorf("health check failed: %w", err)
			}
		}
		printSuccess(out, "%s store is reachable", backend.Name())
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Reading session data..."))
		stored, ok := store.Read(internal.KeyVersion)
		switch {
		case !ok:
			printWarning(out, "No version marker yet (store has not been used)")
		case stored != version:
			printWarning(out, "Store was written by %s; the next command will reset session data for %s", stored, version)
		default:
			printSuccess(out, "Version marker matches %s", version)
		}

		keys := store.ListKeys(internal.SessionKeyPrefix)
		archive := internal.NewArchive(store, nil, nil)
		printSuccess(out, "%d session key(s), %d archive entr%s", len(keys), len(archive.List()), plural(len(archive.List()), "y", "ies"))
		if healthcheckVerbose {
			for _, k := range keys {
				_, _ = fmt.Fprintf(out, "   %s\n", k)
			}
		}
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		if backend.Name() == "memory" {
			printWarning(out, "Memory store is ephemeral; nothing persists between runs")
			return nil
		}
		printSuccess(out, "Health check passed!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "verbose-check", false, "Show detailed information")
}
