package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
)

// Environment variables holding the API gateway credentials
const (
	EnvKeyID = "NAVER_MAPS_API_KEY_ID"
	EnvKey   = "NAVER_MAPS_API_KEY"
)

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	APIKeyID       string   `json:"api_key_id,omitempty"`
	APIKey         string   `json:"api_key,omitempty"`
	NumWaypoints   int      `json:"num_waypoints,omitempty"`
	DrivingOptions []string `json:"driving_options,omitempty"`
	TransitMode    string   `json:"transit_mode,omitempty"`
	MapWidth       int      `json:"map_width,omitempty"`
	MapHeight      int      `json:"map_height,omitempty"`
	AccentColor    string   `json:"accent_color,omitempty"`
}

// Defaults used when the config file leaves a setting unset
const (
	DefaultNumWaypoints = 5
	DefaultTransitMode  = "TIME"
	DefaultMapSize      = 500
)

// getConfigPath returns the absolute path to ~/.mapapi.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mapapi.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just return an empty default configuration
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Credentials live in here, keep it private
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file into the process environment if one exists.
// Variables already set are left alone.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Credentials resolves the API keys: environment first, then the config
// file. Missing values stay empty.
func (c *AppConfig) Credentials() naver.Credentials {
	creds := naver.Credentials{KeyID: c.APIKeyID, Key: c.APIKey}
	if v, ok := os.LookupEnv(EnvKeyID); ok {
		creds.KeyID = v
	}
	if v, ok := os.LookupEnv(EnvKey); ok {
		creds.Key = v
	}
	return creds
}

// Waypoints returns the configured waypoint count or the default.
func (c *AppConfig) Waypoints() int {
	if c.NumWaypoints == 0 {
		return DefaultNumWaypoints
	}
	return c.NumWaypoints
}

// Mode returns the configured transit mode or the default.
func (c *AppConfig) Mode() string {
	if c.TransitMode == "" {
		return DefaultTransitMode
	}
	return c.TransitMode
}

// MapSize returns the configured static map size, defaulting each side.
func (c *AppConfig) MapSize() (int, int) {
	w, h := c.MapWidth, c.MapHeight
	if w == 0 {
		w = DefaultMapSize
	}
	if h == 0 {
		h = DefaultMapSize
	}
	return w, h
}
