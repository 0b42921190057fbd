package core

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAPIKey is the documented insecure demo key. Any real
// deployment must override it via configuration.
const DefaultAPIKey = "demo-key"

type DatabaseConfig struct {
	Driver      string        `koanf:"driver" mapstructure:"driver"`
	DSN         string        `koanf:"dsn" mapstructure:"dsn"`
	Debug       bool          `koanf:"debug" mapstructure:"debug"`
	PingTimeout time.Duration `koanf:"ping_timeout" mapstructure:"ping_timeout"`
}

// The getters below satisfy the go-persistence-bun client Config
// contract.

func (c DatabaseConfig) GetDebug() bool {
	return c.Debug
}

func (c DatabaseConfig) GetDriver() string {
	return strings.TrimSpace(c.Driver)
}

func (c DatabaseConfig) GetServer() string {
	return strings.TrimSpace(c.DSN)
}

func (c DatabaseConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return time.Second
	}
	return c.PingTimeout
}

func (c DatabaseConfig) GetOtelIdentifier() string {
	return "hookgate"
}

type ConnectorConfig struct {
	Kind string `koanf:"kind" mapstructure:"kind"`
}

type Config struct {
	ServiceName string          `koanf:"service_name" mapstructure:"service_name"`
	Listen      string          `koanf:"listen" mapstructure:"listen"`
	APIKey      string          `koanf:"api_key" mapstructure:"api_key"`
	Database    DatabaseConfig  `koanf:"database" mapstructure:"database"`
	Connector   ConnectorConfig `koanf:"connector" mapstructure:"connector"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "hookgate",
		Listen:      ":8080",
		APIKey:      DefaultAPIKey,
		Database: DatabaseConfig{
			Driver:      "sqlite3",
			DSN:         "file:hookgate.sqlite?_foreign_keys=on",
			PingTimeout: time.Second,
		},
		Connector: ConnectorConfig{Kind: "mock"},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("core: listen address is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("core: api_key is required")
	}
	if strings.TrimSpace(c.Database.Driver) == "" {
		return fmt.Errorf("core: database driver is required")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("core: database dsn is required")
	}
	if strings.TrimSpace(c.Connector.Kind) == "" {
		return fmt.Errorf("core: connector kind is required")
	}
	return nil
}
