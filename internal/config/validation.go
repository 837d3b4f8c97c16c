package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the config is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", c.Server.Addr, err)
	}
	if c.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return fmt.Errorf("metrics.listen %q: %w", c.Metrics.Listen, err)
		}
		if c.Metrics.Listen == c.Server.Addr {
			return errors.New("metrics.listen must differ from server.addr")
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q: want debug|info|warn|error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q: want text|json", c.Logging.Format)
	}
	if c.Storage.AuditMax < 0 {
		return errors.New("storage.audit_max must not be negative")
	}
	return nil
}
