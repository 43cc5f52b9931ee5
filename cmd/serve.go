package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Akamitori/qcvault/internal/archive"
	"github.com/Akamitori/qcvault/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serves the loaded archive over HTTP",
	Long: `The serve command loads the archive once, then serves it as JSON along
with a statistics page. The archive is never watched: POST /reload
re-reads it from disk and swaps in the new collection only when the
whole load succeeds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema()
		if err != nil {
			return err
		}

		logger := slog.Default()
		store := server.NewStore(archive.NewLoader(), archiveDir(args), schema)
		logger.Info("performing initial load", "dir", archiveDir(args))
		if _, err := store.Reload(); err != nil {
			return fmt.Errorf("initial load failed, fix the archive and try again: %w", err)
		}

		addr := serveAddr
		if addr == "" {
			addr = appConfig.Addr
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           server.NewHandler(store, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			logger.Info("shutdown signal received")
			_ = srv.Close()
		}()

		logger.Info("serving archive", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "address to serve on (default from config, :1313)")
	rootCmd.AddCommand(serveCmd)
}
