package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMaxChunkSize bounds one stored chunk payload. Matches the
// document size the backing store tolerates with headroom for the JSON
// envelope around the payload.
const DefaultMaxChunkSize = 800000

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		DBPath string `yaml:"db_path"`
		// MaxValueSize caps a single stored value; zero means the chunk
		// default plus envelope headroom.
		MaxValueSize int `yaml:"max_value_size"`
	} `yaml:"storage"`
	Snapshot struct {
		MaxChunkSize int `yaml:"max_chunk_size"`
	} `yaml:"snapshot"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console|json
	} `yaml:"logging"`
	Retention struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
		Period  string `yaml:"period"` // e.g. "720h"
	} `yaml:"retention"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// MaxChunkSize returns the configured chunk bound or the default.
func (c *Config) MaxChunkSize() int {
	if c.Snapshot.MaxChunkSize > 0 {
		return c.Snapshot.MaxChunkSize
	}
	return DefaultMaxChunkSize
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvOverrides applies STOCKDB_* environment overrides onto cfg and
// reports whether any were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	if v := os.Getenv("STOCKDB_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("STOCKDB_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("STOCKDB_MAX_CHUNK_SIZE"); v != "" {
		envUsed = true
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Snapshot.MaxChunkSize = n
		}
	}
	if v := os.Getenv("STOCKDB_LOG_FORMAT"); v != "" {
		envUsed = true
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("STOCKDB_RETENTION_CRON"); v != "" {
		envUsed = true
		cfg.Retention.Enabled = true
		cfg.Retention.Cron = v
	}
	return envUsed
}
