package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carli2/speech-server/pkg/codec"
)

// ServerConfig stores HTTP listener configuration.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// TransportConfig stores codec-socket session configuration.
type TransportConfig struct {
	// Profiles is the server's profile preference order used during the
	// handshake, best first.
	Profiles []string `yaml:"profiles"`

	// MaxSessions bounds the session registry; least-recently-used
	// sessions beyond it are closed and evicted.
	MaxSessions int `yaml:"max_sessions"`

	// QueueDepth is the per-session RX/TX frame queue capacity.
	QueueDepth int `yaml:"queue_depth"`
}

// Config stores the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	LogLevel  string          `yaml:"log_level"`
}

// LoadConfig loads the configuration from the given file path and applies
// defaults for anything unset.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8090"
	}
	if len(cfg.Transport.Profiles) == 0 {
		cfg.Transport.Profiles = []string{"high", "medium", "low"}
	}
	if cfg.Transport.MaxSessions <= 0 {
		cfg.Transport.MaxSessions = 256
	}
	if cfg.Transport.QueueDepth <= 0 {
		cfg.Transport.QueueDepth = 500
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	for _, name := range cfg.Transport.Profiles {
		if _, err := codec.ProfileByName(name); err != nil {
			return fmt.Errorf("transport.profiles: %w", err)
		}
	}
	return nil
}
