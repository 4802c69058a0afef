package hourly

import (
	"fmt"

	"github.com/viant/hourly/internal/logging"
	"github.com/viant/hourly/service/export"
)

// Store kinds
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
)

// Config is a serialisable representation of the service configuration. It can
// be populated from YAML, JSON or environment variables.
type Config struct {
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Export  export.Config `json:"export" yaml:"export" mapstructure:"export"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing" mapstructure:"tracing"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// StoreConfig selects where demands and developers are kept
type StoreConfig struct {
	// Kind is memory or fs
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`
	// URL is the afs base location used by the fs kind
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Service string `json:"service" yaml:"service" mapstructure:"service"`
	Version string `json:"version" yaml:"version" mapstructure:"version"`
	// Output is a file path, stdout when empty
	Output string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns a Config with in-memory stores and exports.
func DefaultConfig() *Config {
	return &Config{
		Store:   StoreConfig{Kind: StoreMemory},
		Export:  export.DefaultConfig(),
		Server:  ServerConfig{Addr: ":3000"},
		Tracing: TracingConfig{Service: "hourly", Version: Version},
		Log:     LogConfig{Level: logging.LevelInfo, Format: logging.FormatText},
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Store.Kind {
	case StoreMemory:
	case StoreFS:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for %q store", StoreFS)
		}
	default:
		return fmt.Errorf("store.kind must be %q or %q, got %q", StoreMemory, StoreFS, c.Store.Kind)
	}
	if c.Export.URL == "" {
		return fmt.Errorf("export.url must not be empty")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if !logging.IsLevel(c.Log.Level) {
		return fmt.Errorf("log.level %q is not supported", c.Log.Level)
	}
	if c.Log.Format != logging.FormatText && c.Log.Format != logging.FormatJSON {
		return fmt.Errorf("log.format must be %q or %q", logging.FormatText, logging.FormatJSON)
	}
	return nil
}
