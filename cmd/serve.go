package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"provmgr/internal/logging"
	"provmgr/internal/probe"
	"provmgr/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and browser UI",
	Long: `Run the local HTTP server exposing the provider configuration API and the
browser UI. The config file is watched for external edits; the server shuts
down cleanly on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env for local development defaults.
		if err := godotenv.Load(); err == nil {
			logging.Debug("Bootstrap", "loaded .env file")
		}

		if !cmd.Flags().Lookup("addr").Changed {
			if env := os.Getenv("PROVMGR_ADDR"); env != "" {
				serveAddr = env
			}
		}

		store := newStore()
		srv := server.New(store, probe.New(), serveAddr)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			// Watch returns when ctx is cancelled; that is a clean exit.
			if err := store.Watch(ctx); err != nil && ctx.Err() == nil {
				logging.Warn("Config", "file watcher stopped: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			return srv.Run(ctx)
		})

		err := g.Wait()
		logging.Info("Bootstrap", "shutdown complete")
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8788", "listen address (env: PROVMGR_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
