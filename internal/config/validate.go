package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marketdeck/realtime/internal/router"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if strings.Contains(c.Server.Host, "://") {
		return fmt.Errorf("server.host must not carry a scheme, got %q", c.Server.Host)
	}

	if c.Reconnect.BaseDelay <= 0 {
		return errors.New("reconnect.base_delay must be positive")
	}
	if c.Reconnect.MaxDelay <= 0 {
		return errors.New("reconnect.max_delay must be positive")
	}
	if c.Reconnect.BaseDelay > c.Reconnect.MaxDelay {
		return fmt.Errorf("reconnect.base_delay (%v) cannot exceed max_delay (%v)",
			c.Reconnect.BaseDelay, c.Reconnect.MaxDelay)
	}

	if len(c.Channels) == 0 {
		return errors.New("channels must name at least one channel")
	}
	for _, name := range c.Channels {
		if _, ok := router.ForChannel(name); !ok {
			return fmt.Errorf("channels: unknown channel %q", name)
		}
	}

	return nil
}
