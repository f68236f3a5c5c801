package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

const (
	EngineNative  = "native"
	EngineBrowser = "browser"
)

type (
	// ConversionConfig holds defaults for every conversion.
	ConversionConfig struct {
		// BodyOnly returns only the inner markup of <body> even for complete documents
		BodyOnly bool `yaml:"body_only"`
		// RemoveWhitespace drops whitespace between tags in the result
		RemoveWhitespace bool `yaml:"remove_whitespace"`
		// UseTemplateCSS puts the built-in stylesheet in front of user CSS
		UseTemplateCSS bool `yaml:"use_template_css"`
	}

	BrowserConfig struct {
		ChromePath   string        `yaml:"chrome_path,omitempty"`
		NoSandbox    bool          `yaml:"no_sandbox"`
		AutoDownload bool          `yaml:"auto_download"`
		Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	}

	ResolverConfig struct {
		Engine            string        `yaml:"engine" validate:"required,oneof=native browser"`
		ViewportWidth     int           `yaml:"viewport_width" validate:"min=1"`
		DefaultFontFamily string        `yaml:"default_font_family" validate:"required"`
		DefaultFontSize   float64       `yaml:"default_font_size" validate:"gt=0"`
		Browser           BrowserConfig `yaml:"browser"`
	}

	ServerConfig struct {
		Listen       string `yaml:"listen" validate:"required,hostname_port"`
		MaxBodyBytes int64  `yaml:"max_body_bytes" validate:"min=1024"`
	}

	// Config holds configuration options for the inliner and its outer surfaces.
	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Conversion ConversionConfig `yaml:"conversion"`
		Resolver   ResolverConfig   `yaml:"resolver"`
		Server     ServerConfig     `yaml:"server"`
		Logging    LoggingConfig    `yaml:"logging"`
	}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Version: 1,
		Resolver: ResolverConfig{
			Engine:            EngineNative,
			ViewportWidth:     800,
			DefaultFontFamily: "serif",
			DefaultFontSize:   16,
			Browser: BrowserConfig{
				Timeout: 30 * time.Second,
			},
		},
		Server: ServerConfig{
			Listen:       "localhost:8080",
			MaxBodyBytes: 4 << 20,
		},
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none"},
		},
	}
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if err := Check(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check validates cfg.
func Check(cfg *Config) error {
	if err := gencfg.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadConfiguration reads the configuration file at path and superimposes
// its values on top of Default. An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg := Default()
	if len(path) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Dump marshals cfg back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
