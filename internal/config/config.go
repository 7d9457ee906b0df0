package config

import "time"

// Config is the full streamwatch configuration.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Server    ServerConfig    `yaml:"server"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Channels  []string        `yaml:"channels"`
}

// InstanceConfig identifies this client instance in logs.
type InstanceConfig struct {
	ID string `yaml:"id"` // defaults to a random UUID
}

// ServerConfig locates the dashboard server's real-time endpoint.
type ServerConfig struct {
	Host             string        `yaml:"host"`   // host:port, no scheme
	Secure           bool          `yaml:"secure"` // dial wss instead of ws
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}

// ReconnectConfig tunes the backoff curve.
type ReconnectConfig struct {
	BaseDelay time.Duration `yaml:"base_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`
}
