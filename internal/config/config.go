package config

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultListenAddr is used when the adapter runner does not inject an explicit address.
	DefaultListenAddr = "127.0.0.1:50051"
	DefaultLogLevel   = "info"
)

var validLogLevels = map[string]struct{}{
	"debug":   {},
	"info":    {},
	"warn":    {},
	"warning": {},
	"error":   {},
}

// Config captures bootstrap configuration extracted from environment variables
// or injected JSON payload (`NUPI_ADAPTER_CONFIG`). AWS credentials are not part
// of it: they arrive with each engine registration.
type Config struct {
	ListenAddr string
	// MetricsAddr enables the Prometheus endpoint when set.
	MetricsAddr   string
	LogLevel      string
	UseStubClient bool
	// Endpoint overrides the Bedrock endpoint (local emulators, VPC endpoints).
	Endpoint string
}

// Validate applies defaults, checks required fields, and rejects malformed
// values.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen address is required")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, ok := validLogLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.MetricsAddr != "" && c.MetricsAddr == c.ListenAddr {
		return fmt.Errorf("config: metrics address must differ from listen address %q", c.ListenAddr)
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: bedrock endpoint must be an absolute URL, got %q", c.Endpoint)
		}
	}
	return nil
}
