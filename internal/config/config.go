// Package config loads node configuration from a YAML file on top of
// built-in defaults; cmd/raftkv-node's cobra commands then apply their
// command-line flag overrides to the result.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/raftkv/internal/log"
)

// Config is the full set of settings a node needs to start, whether it
// came from a file, flags, or (as usual) both.
type Config struct {
	NodeID   string `yaml:"nodeId"`
	RaftAddr string `yaml:"raftAddr"`
	RPCAddr  string `yaml:"rpcAddr"`
	DataDir  string `yaml:"dataDir"`
	JoinAddr string `yaml:"joinAddr,omitempty"`

	Log LogConfig `yaml:"log"`
}

// LogConfig mirrors internal/log.Config in YAML-serializable form.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns a Config with the same fallbacks cmd/raftkv-node uses
// when no file or flag supplies a value.
func Default() Config {
	return Config{
		NodeID:   "node-1",
		RaftAddr: "127.0.0.1:7000",
		RPCAddr:  "127.0.0.1:50051",
		DataDir:  "./data",
		Log:      LogConfig{Level: "info", JSON: false},
	}
}

// Load reads and parses a YAML config file, starting from Default() so
// any field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithComponent("config").Warn().Str("path", path).Msg("config file not found, using defaults")
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that must be non-empty for a node to start.
func (c Config) Validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("config: nodeId is required")
	}
	if c.RaftAddr == "" {
		return fmt.Errorf("config: raftAddr is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: dataDir is required")
	}
	return nil
}
