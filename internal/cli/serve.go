package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvnsw/photosieve/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, cooldowns, eng, err := openAll()
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Library.Root == "" {
		return fmt.Errorf("no library root configured (set library.root or PHOTOSIEVE_LIBRARY)")
	}

	srv := server.New(db, cooldowns, eng, cfg, VersionString())

	n, err := srv.RefreshCatalog()
	if err != nil {
		return fmt.Errorf("scan library: %w", err)
	}

	addr := cfg.ListenAddr()
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "photosieve serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", db.Path)
		fmt.Fprintf(os.Stderr, "  library: %s (%d photos)\n", cfg.Library.Root, n)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
