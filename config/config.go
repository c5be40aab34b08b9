// Package config loads the pft settings.
//
// Settings are read, in increasing order of precedence, from the defaults,
// a YAML file, a .env file in the working directory and the environment.
// Command line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAPIURL    = "FOLIO_API_URL"
	EnvCurrency  = "FOLIO_CURRENCY"
	EnvRefresh   = "FOLIO_REFRESH"
	EnvTokenFile = "FOLIO_TOKEN_FILE"
	EnvTracing   = "FOLIO_TRACING"
	EnvModel     = "FOLIO_MODEL"
)

// Config holds the client settings.
type Config struct {
	APIURL    string        `yaml:"api_url"`
	Currency  string        `yaml:"currency"`
	Refresh   time.Duration `yaml:"refresh"`
	TokenFile string        `yaml:"token_file"`
	Tracing   bool          `yaml:"tracing"`
	Model     string        `yaml:"model"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:   "http://localhost:8080/api",
		Currency: "TRY",
		Refresh:  10 * time.Second,
		Model:    "gemini-2.5-flash",
	}
}

// DefaultPath is config.yaml in the folio user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "folio", "config.yaml")
}

// Load reads the settings. A missing file at path is not an error.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("cannot read config %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, fmt.Errorf("cannot parse config %q: %w", path, err)
			}
		}
	}

	// .env is optional.
	_ = godotenv.Load()

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup(EnvCurrency); ok && v != "" {
		c.Currency = v
	}
	if v, ok := lookup(EnvTokenFile); ok && v != "" {
		c.TokenFile = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Model = v
	}
	if v, ok := lookup(EnvRefresh); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRefresh, err)
		}
		c.Refresh = d
	}
	if v, ok := lookup(EnvTracing); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTracing, err)
		}
		c.Tracing = b
	}
	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", c.APIURL)
	}
	if c.Currency == "" {
		return errors.New("currency is missing")
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", c.Refresh)
	}
	return nil
}
