package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// FileName is the default config file.
const FileName = ".playdeck.yml"

// EnvPrefix marks environment overrides.
const EnvPrefix = "PLAYDECK_"

// sections are the nested config blocks reachable from the environment:
// PLAYDECK_CONTENT_DIR -> content.dir.
var sections = []string{"content", "audio", "log"}

// DefaultExcludes are content globs skipped by default.
var DefaultExcludes = []string{"**/drafts/**", "**/_*"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:    8080,
		DataDir: ".playdeck",
		Content: ContentConfig{
			Include: []string{"**/*.yaml", "**/*.yml", "**/*.json"},
			Exclude: DefaultExcludes,
		},
		Audio: AudioConfig{
			Backend:    AudioRemote,
			MediaDir:   "media",
			SampleRate: 44100,
		},
		Log: LogConfig{Mode: LogDev},
	}
}

// envKey maps an environment variable to a config key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + strings.TrimPrefix(key, sec+"_")
		}
	}
	return key
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PLAYDECK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.Audio.Backend {
	case AudioRemote:
	case AudioNative:
		if c.Audio.SampleRate <= 0 {
			return fmt.Errorf("audio.sample_rate must be positive")
		}
		if c.Audio.MediaDir == "" {
			return fmt.Errorf("audio.media_dir is required for the native backend")
		}
	default:
		return fmt.Errorf("invalid audio.backend %q: must be one of remote, native", c.Audio.Backend)
	}
	switch c.Log.Mode {
	case LogDev, LogProd:
	default:
		return fmt.Errorf("invalid log.mode %q: must be dev or prod", c.Log.Mode)
	}
	return nil
}

// DBPath is the progress database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "progress.db")
}
