package browser

import (
	"time"

	"go.uber.org/zap"
)

// engineConfig holds internal configuration for an Engine.
type engineConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	autoDownload bool
	headless     string
	log          *zap.Logger
}

func defaultConfig() engineConfig {
	return engineConfig{
		timeout:  30 * time.Second,
		headless: "new",
		log:      zap.NewNop(),
	}
}

// Option configures an [Engine].
type Option func(*engineConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default chromedp searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *engineConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for opening a session.
// Defaults to 30 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *engineConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *engineConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a Chromium build when no executable path is
// configured.
func WithAutoDownload() Option {
	return func(c *engineConfig) {
		c.autoDownload = true
	}
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *engineConfig) {
		if log != nil {
			c.log = log
		}
	}
}
