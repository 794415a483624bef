package connector

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents database connection configuration.
type Config struct {
	Driver         string            `json:"driver" yaml:"driver"`
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Path           string            `json:"path" yaml:"path"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
	Debug          bool              `json:"debug" yaml:"debug"`
	StatementCache int               `json:"statement_cache" yaml:"statement_cache"`
}

// PoolConfig tunes the driver's *sql.DB. Adapters pin a single connection,
// so these only bound how long idle sessions are kept around.
type PoolConfig struct {
	MaxIdle     int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// ParseConfig decodes a YAML document into a Config with defaults applied.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse database config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read database config: %w", err)
	}
	return ParseConfig(data)
}

// ApplyDefaults fills unset ports and retry parameters.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		switch c.Driver {
		case "mysql", "mariadb":
			c.Port = 3306
		case "postgres", "pgx", "postgres-sql":
			c.Port = 5432
		}
	}
	if c.Retry != nil {
		if c.Retry.BaseDelay <= 0 {
			c.Retry.BaseDelay = time.Second
		}
		if c.Retry.Backoff < 1 {
			c.Retry.Backoff = 2
		}
	}
}

// Validate reports configuration errors that would otherwise surface as
// driver failures.
func (c *Config) Validate() error {
	var errs []error
	if c.Driver == "" {
		errs = append(errs, errors.New("driver is required"))
	}
	switch c.Driver {
	case "sqlite", "sqlite3":
		if c.Path == "" {
			errs = append(errs, errors.New("path is required for sqlite"))
		}
	case "":
	default:
		if c.Host == "" {
			errs = append(errs, errors.New("host is required"))
		}
		if c.Port < 0 || c.Port > 65535 {
			errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
		}
	}
	if c.Retry != nil && c.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("invalid max_retries: %d", c.Retry.MaxRetries))
	}
	if c.StatementCache < 0 {
		errs = append(errs, fmt.Errorf("invalid statement_cache: %d", c.StatementCache))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid database config: %w", errors.Join(errs...))
	}
	return nil
}
