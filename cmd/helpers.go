package cmd

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/audio/native"
	"github.com/ziadkadry99/playdeck/internal/config"
	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/db"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/logger"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `playdeck init` to create a config file", err)
	}
	if verbose {
		cfg.Log.Mode = config.LogDev
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger for cfg.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(string(cfg.Log.Mode))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// loadCatalog reads the configured course, or the bundled sample when no
// content directory is set. Presence-check warnings are logged, never fatal.
func loadCatalog(cfg *config.Config, log *logger.Logger) (*content.Catalog, error) {
	var (
		cat *content.Catalog
		err error
	)
	if cfg.Content.Dir == "" {
		cat, err = content.Sample()
	} else {
		cat, err = content.LoadDir(cfg.Content.Dir, content.Options{
			Include: cfg.Content.Include,
			Exclude: cfg.Content.Exclude,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	for _, w := range cat.Check() {
		log.Warn("content warning", "warning", w.String())
	}
	return cat, nil
}

// openDB opens the progress database, creating the data directory.
func openDB(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// audioFactory picks the playback backend. Native playback shares one
// device across all sessions.
func audioFactory(cfg *config.Config) (activity.AudioFactory, error) {
	switch cfg.Audio.Backend {
	case config.AudioNative:
		backend, err := native.New(cfg.Audio.SampleRate, cfg.Audio.MediaDir)
		if err != nil {
			return nil, err
		}
		return func(*dom.Element) audio.Backend { return backend }, nil
	default:
		return activity.RemoteAudio, nil
	}
}
