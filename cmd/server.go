package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/fc-companion/internal/metrics"
	"github.com/ziadkadry99/fc-companion/internal/server"
)

var (
	serverAddr     string
	serverAllowAll bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the knowledge library and stored reports over HTTP",
	Long:  `Starts an HTTP server with a JSON API for knowledge entries, text analysis and report history, HTML report pages, and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serverAddr
		}

		srv := server.New(server.Config{
			Addr:     addr,
			AllowAll: serverAllowAll,
		}, server.Deps{
			Knowledge: a.store,
			Reports:   a.reports,
			Metrics:   metrics.New(Version),
			Log:       a.log,
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "companion server %s starting on %s\n", Version, addr)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", a.db.Path())
		fmt.Fprintf(os.Stderr, "  Knowledge entries: %d\n", a.store.Len())

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (overrides config)")
	serverCmd.Flags().BoolVar(&serverAllowAll, "allow-all-origins", false, "allow all CORS origins")
	rootCmd.AddCommand(serverCmd)
}
