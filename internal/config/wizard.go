package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentMarkers are file globs that suggest a directory holds course
// content.
var contentMarkers = []string{"*.yaml", "*.yml", "*.json"}

// detectContentDir looks for a likely content directory below the
// current one.
func detectContentDir() string {
	for _, dir := range []string{"content", "course", "activities"} {
		for _, marker := range contentMarkers {
			if matches, _ := filepath.Glob(filepath.Join(dir, marker)); len(matches) > 0 {
				return dir
			}
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .playdeck.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to playdeck! Let's set up your course.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Content directory.
	detected := detectContentDir()
	if detected != "" {
		fmt.Printf("Found course content in %s/\n\n", detected)
	}
	contentPrompt := promptui.Prompt{
		Label:   "Content directory (leave blank for the sample course)",
		Default: detected,
	}
	dir, err := contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	cfg.Content.Dir = strings.TrimSpace(dir)

	// 2. Exclude patterns.
	if cfg.Content.Dir != "" {
		excludePrompt := promptui.Prompt{
			Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
			Default: "",
		}
		excludeStr, err := excludePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("exclude patterns: %w", err)
		}
		if excludeStr != "" {
			cfg.Content.Exclude = append(cfg.Content.Exclude, splitAndTrim(excludeStr)...)
		}
	}

	// 3. Audio backend.
	audioPrompt := promptui.Select{
		Label: "Where should audio play?",
		Items: []string{
			"remote: in each learner's browser",
			"native: on this machine's speakers (kiosk)",
		},
	}
	audioIdx, _, err := audioPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("audio selection: %w", err)
	}
	cfg.Audio.Backend = []AudioBackend{AudioRemote, AudioNative}[audioIdx]
	if cfg.Audio.Backend == AudioNative {
		mediaPrompt := promptui.Prompt{Label: "Directory with WAV clips", Default: cfg.Audio.MediaDir}
		media, err := mediaPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("media dir: %w", err)
		}
		cfg.Audio.MediaDir = media
	}

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Content.Dir != "" {
		if _, err := os.Stat(cfg.Content.Dir); os.IsNotExist(err) {
			fmt.Printf("\nNote: %s does not exist yet. Create it before running playdeck serve.\n", cfg.Content.Dir)
		}
	}

	if err := cfg.Save(FileName); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", FileName)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
