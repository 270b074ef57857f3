// Package config loads the YAML configuration shared by the binaries.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of one node binary.
type Config struct {
	NodeName    string         `yaml:"node_name"`
	MasterURI   string         `yaml:"master_uri"`
	Service     string         `yaml:"service"`
	Logging     LoggingConfig  `yaml:"logging"`
	Timeouts    TimeoutsConfig `yaml:"timeouts"`
	RequestFile string         `yaml:"request_file"`
}

// LoggingConfig selects the logrus level and an optional log directory.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogPath string `yaml:"log_path"`
}

// TimeoutsConfig holds timeouts in milliseconds. Zero wait and call
// timeouts block forever.
type TimeoutsConfig struct {
	WaitForServiceMs int `yaml:"wait_for_service_ms"`
	CallMs           int `yaml:"call_ms"`
	IOMs             int `yaml:"io_ms"`
	CallbackMs       int `yaml:"callback_ms"`
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func (t TimeoutsConfig) WaitForService() time.Duration { return millis(t.WaitForServiceMs) }
func (t TimeoutsConfig) Call() time.Duration           { return millis(t.CallMs) }
func (t TimeoutsConfig) IO() time.Duration             { return millis(t.IOMs) }
func (t TimeoutsConfig) Callback() time.Duration       { return millis(t.CallbackMs) }

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		NodeName: "call_srv",
		Service:  "getPath",
		Logging:  LoggingConfig{Level: "info"},
		Timeouts: TimeoutsConfig{IOMs: 10000, CallbackMs: 5000},
	}
}

// Load reads path over Default. An empty path yields Default. A master
// URI left empty falls back to ROS_MASTER_URI.
func Load(path string) (*Config, error) {
	return LoadWithDefaults(path, Default())
}

// LoadWithDefaults is Load starting from defaults instead of Default.
func LoadWithDefaults(path string, defaults *Config) (*Config, error) {
	cfg := *defaults
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "error reading config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "error parsing config file")
		}
	}
	if cfg.MasterURI == "" {
		cfg.MasterURI = os.Getenv("ROS_MASTER_URI")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unusable values.
func (c *Config) Validate() error {
	if c.NodeName == "" {
		return errors.New("node_name must not be empty")
	}
	if c.Service == "" {
		return errors.New("service must not be empty")
	}
	t := c.Timeouts
	if t.WaitForServiceMs < 0 || t.CallMs < 0 || t.IOMs < 0 || t.CallbackMs < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}
