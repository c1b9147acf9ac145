// Package config provides configuration management for displayrules services.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/solatis/displayrules/internal/types"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds configuration for the gRPC decision service.
type ServerConfig struct {
	Host                 string
	Port                 int
	MaxConcurrentStreams int
	RequestTimeout       time.Duration
	MaxRules             int
}

// DatabaseConfig locates the catalog database (sqlite://path or postgres://...).
type DatabaseConfig struct {
	URL string
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                 "0.0.0.0",
			Port:                 50051,
			MaxConcurrentStreams: 1000,
			RequestTimeout:       5 * time.Second,
			MaxRules:             types.MaxRules,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Validate checks the port range and that limits are positive.
func (c *Config) Validate() error {
	s := c.Server
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.MaxConcurrentStreams <= 0 {
		return fmt.Errorf("max_concurrent_streams must be positive, got %d", s.MaxConcurrentStreams)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", s.RequestTimeout)
	}
	if s.MaxRules <= 0 || s.MaxRules > types.MaxRules {
		return fmt.Errorf("max_rules must be between 1 and %d, got %d", types.MaxRules, s.MaxRules)
	}
	return nil
}
