package redispool

import (
	"time"

	"github.com/reddit/redispool/redisconn"
)

// DefaultSweepInterval is the sweep interval used when Config.SweepInterval is
// not set.
const DefaultSweepInterval = 10 * time.Second

// Config configures a Pool.
//
// Can be deserialized from YAML.
//
// Example:
//
//	redis:
//	 name: sessions
//	 host: localhost
//	 port: 6379
//	 db: 2
//	 minConnections: 2
//	 maxConnections: 10
//	 sweepInterval: 10s
//	 connectTimeout: 1s
type Config struct {
	// Name identifies the pool in logs and metrics. Required.
	Name string `yaml:"name"`

	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// DB is the logical database selected on every connection.
	DB int `yaml:"db"`

	// MinConnections are opened eagerly by New.
	MinConnections int `yaml:"minConnections"`
	MaxConnections int `yaml:"maxConnections"`

	// Defaults to DefaultSweepInterval.
	SweepInterval time.Duration `yaml:"sweepInterval"`

	// Defaults to redisconn.DefaultConnectTimeout.
	ConnectTimeout time.Duration `yaml:"connectTimeout"`

	// 0 means no deadline, except for the sweep liveness check which then
	// waits at most ConnectTimeout.
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// Validate checks cfg and returns a *ConfigError on the first problem found.
func (cfg Config) Validate() error {
	switch {
	case cfg.Name == "":
		return &ConfigError{Field: "name", Reason: "is required"}
	case cfg.Host == "":
		return &ConfigError{Field: "host", Reason: "is required"}
	case cfg.Port <= 0 || cfg.Port > 65535:
		return &ConfigError{Field: "port", Reason: "must be in range [1, 65535]"}
	case cfg.DB < 0:
		return &ConfigError{Field: "db", Reason: "must not be negative"}
	case cfg.MinConnections < 0:
		return &ConfigError{Field: "minConnections", Reason: "must not be negative"}
	case cfg.MaxConnections <= 0:
		return &ConfigError{Field: "maxConnections", Reason: "must be positive"}
	case cfg.MinConnections > cfg.MaxConnections:
		return &ConfigError{Field: "minConnections", Reason: "must not exceed maxConnections"}
	case cfg.SweepInterval < 0:
		return &ConfigError{Field: "sweepInterval", Reason: "must not be negative"}
	case cfg.ConnectTimeout < 0:
		return &ConfigError{Field: "connectTimeout", Reason: "must not be negative"}
	case cfg.ReadTimeout < 0:
		return &ConfigError{Field: "readTimeout", Reason: "must not be negative"}
	case cfg.WriteTimeout < 0:
		return &ConfigError{Field: "writeTimeout", Reason: "must not be negative"}
	}
	return nil
}

func (cfg Config) sweepInterval() time.Duration {
	if cfg.SweepInterval == 0 {
		return DefaultSweepInterval
	}
	return cfg.SweepInterval
}

// ConnConfig returns the redisconn.Config every connection of the pool is
// created with.
func (cfg Config) ConnConfig() redisconn.Config {
	return redisconn.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		DB:             cfg.DB,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	}
}
