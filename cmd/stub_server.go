package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/logging"
	"github.com/ziadkadry99/draftdesk/internal/server"
)

var stubPort int

var stubServerCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run an in-memory drafting backend for local development",
	Long: `Starts a backend that implements every endpoint draftdesk uses, keeping all
state in memory. Chat replies echo the message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.Component(newLogger(cfg), "stub")

		port := cfg.Stub.Port
		if cmd.Flags().Changed("port") {
			port = stubPort
		}
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Stub.AllowAll,
		}, server.NewState("Acquisition Strategy", cfg.Sections), logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "draftdesk stub backend %s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Sections: %d\n", len(cfg.Sections))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	stubServerCmd.Flags().IntVar(&stubPort, "port", 8000, "Port to listen on")
	rootCmd.AddCommand(stubServerCmd)
}
