package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/playdeck/internal/config"
	"github.com/ziadkadry99/playdeck/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the course server",
	Long:  `Starts the playdeck server with the course page, the content and progress APIs and the live play socket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		cat, err := loadCatalog(cfg, log)
		if err != nil {
			return err
		}

		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		factory, err := audioFactory(cfg)
		if err != nil {
			return fmt.Errorf("setting up audio: %w", err)
		}

		mediaDir := ""
		if cfg.Audio.Backend == config.AudioRemote {
			if fi, err := os.Stat(cfg.Audio.MediaDir); err == nil && fi.IsDir() {
				mediaDir = cfg.Audio.MediaDir
			}
		}

		srv := server.New(server.Config{
			Port:     cfg.Port,
			MediaDir: mediaDir,
			AllowAll: cfg.AllowAllOrigins,
		}, database, cat, factory, log)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "playdeck v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DBPath())
		fmt.Fprintf(os.Stderr, "  Sections: %d, activities: %d\n", len(cat.Sections()), len(cat.ActivityIDs()))
		fmt.Fprintf(os.Stderr, "  Audio: %s\n", cfg.Audio.Backend)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
