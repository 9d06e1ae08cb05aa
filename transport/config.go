package transport

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config holds listener, dialer and protocol settings shared by Server and
// Client.
type Config struct {
	Network         string        `toml:"network"`
	Address         string        `toml:"address"`
	ServerID        uint8         `toml:"server_id"`
	RegisterTimeout time.Duration `toml:"register_timeout"`
	AckTimeout      time.Duration `toml:"ack_timeout"`
	DialTimeout     time.Duration `toml:"dial_timeout"`
	MaxDialAttempts int           `toml:"max_dial_attempts"`
	Workers         int           `toml:"workers"`

	Logger zerolog.Logger `toml:"-"`
}

// DefaultConfig returns the settings used when a field is left unset.
func DefaultConfig() Config {
	return Config{
		Network:         "unix",
		Address:         "/tmp/coproto.sock",
		ServerID:        1,
		RegisterTimeout: time.Second,
		AckTimeout:      time.Second,
		DialTimeout:     2 * time.Second,
		MaxDialAttempts: 5,
		Workers:         64,
		Logger:          zerolog.Nop(),
	}
}

// LoadConfig reads a TOML file over DefaultConfig and validates the result.
// Durations are written as strings such as "250ms" or "2s".
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config read failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if strings.TrimSpace(c.Network) == "" {
		c.Network = def.Network
	}
	if strings.TrimSpace(c.Address) == "" {
		c.Address = def.Address
	}
	if c.RegisterTimeout == 0 {
		c.RegisterTimeout = def.RegisterTimeout
	}
	if c.AckTimeout == 0 {
		c.AckTimeout = def.AckTimeout
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = def.DialTimeout
	}
	if c.MaxDialAttempts == 0 {
		c.MaxDialAttempts = def.MaxDialAttempts
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch c.Network {
	case "unix", "tcp", "tcp4", "tcp6":
	default:
		return fmt.Errorf("transport config: unsupported network %q", c.Network)
	}
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("transport config missing address")
	}
	if c.RegisterTimeout <= 0 {
		return fmt.Errorf("transport config: register_timeout must be positive")
	}
	if c.AckTimeout <= 0 {
		return fmt.Errorf("transport config: ack_timeout must be positive")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("transport config: dial_timeout must be positive")
	}
	if c.MaxDialAttempts < 1 {
		return fmt.Errorf("transport config: max_dial_attempts must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("transport config: workers must be at least 1")
	}
	return nil
}
