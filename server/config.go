package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultPort          = 8887
	DefaultFlushInterval = 10 * time.Millisecond
)

// Config is the server configuration. It is read from an optional YAML
// file, then overridden by GGSTREAM_* environment variables, then by
// command-line flags.
type Config struct {
	// Host is the listen host; empty means all interfaces.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// RelayURL and ServerID identify this server to a NAT-traversal relay.
	RelayURL string `yaml:"relayUrl"`
	ServerID string `yaml:"serverId"`

	// EnableGzip offers gzip for to-client frames during the handshake.
	EnableGzip bool `yaml:"enableGzip"`

	LogLevel      string        `yaml:"logLevel"`
	FlushInterval time.Duration `yaml:"flushInterval"`

	// CollectionsCheckSize logs a warning when a target accumulates this
	// many commands between flushes. Zero disables the check.
	CollectionsCheckSize int `yaml:"collectionsCheckSize"`

	// ImageCacheSize and FontCacheSize bound the id space of each cache.
	ImageCacheSize int `yaml:"imageCacheSize"`
	FontCacheSize  int `yaml:"fontCacheSize"`
}

// DefaultConfig returns the configuration used when nothing is set.
// ServerID is a fresh random UUID.
func DefaultConfig() Config {
	return Config{
		Port:          DefaultPort,
		ServerID:      uuid.NewString(),
		EnableGzip:    true,
		LogLevel:      "info",
		FlushInterval: DefaultFlushInterval,
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path (if
// path is not empty) and then with the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("server: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("server: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from GGSTREAM_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("server: %s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("GGSTREAM_HOST", &c.Host)
	num("GGSTREAM_PORT", &c.Port)
	str("GGSTREAM_RELAY_URL", &c.RelayURL)
	str("GGSTREAM_SERVER_ID", &c.ServerID)
	str("GGSTREAM_LOG_LEVEL", &c.LogLevel)
	num("GGSTREAM_COLLECTIONS_CHECK_SIZE", &c.CollectionsCheckSize)
	num("GGSTREAM_IMAGE_CACHE_SIZE", &c.ImageCacheSize)
	num("GGSTREAM_FONT_CACHE_SIZE", &c.FontCacheSize)

	if v, ok := lookup("GGSTREAM_ENABLE_GZIP"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("server: GGSTREAM_ENABLE_GZIP: %w", err))
		} else {
			c.EnableGzip = b
		}
	}
	if v, ok := lookup("GGSTREAM_FLUSH_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("server: GGSTREAM_FLUSH_INTERVAL: %w", err))
		} else {
			c.FlushInterval = d
		}
	}
	return errors.Join(errs...)
}

// Validate checks the configuration for values the server cannot use.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Port)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("server: flush interval must be positive, got %v", c.FlushInterval)
	}
	if c.CollectionsCheckSize < 0 {
		return fmt.Errorf("server: collections check size must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("server: log level: %w", err)
	}
	return l, nil
}
