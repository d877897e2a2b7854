package main

import (
	"github.com/spf13/cobra"

	"github.com/reddit/redispool"
	"github.com/reddit/redispool/configbp"
	"github.com/reddit/redispool/log"
)

// fileConfig is the layout of the --config file.
type fileConfig struct {
	Log   log.Config       `yaml:"log"`
	Redis redispool.Config `yaml:"redis"`
}

func defaultConfig() fileConfig {
	return fileConfig{
		Log: log.Config{
			Level: log.WarnLevel,
		},
		Redis: redispool.Config{
			Name:           "redispool-cli",
			Host:           "localhost",
			Port:           6379,
			MinConnections: 1,
			MaxConnections: 4,
		},
	}
}

// options holds the global flags.
type options struct {
	configPath string
	logLevel   string
	name       string
	host       string
	port       int
	db         int
	min        int
	max        int
}

func (o *options) register(cmd *cobra.Command) {
	def := defaultConfig()
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&o.logLevel, "log-level", string(def.Log.Level), "Log level (debug, info, warn, error, nop)")
	flags.StringVar(&o.name, "name", def.Redis.Name, "Pool name, used in logs and metrics")
	flags.StringVar(&o.host, "host", def.Redis.Host, "Redis server host")
	flags.IntVarP(&o.port, "port", "p", def.Redis.Port, "Redis server port")
	flags.IntVarP(&o.db, "db", "n", def.Redis.DB, "Logical database index")
	flags.IntVar(&o.min, "min", def.Redis.MinConnections, "Connections opened at startup")
	flags.IntVar(&o.max, "max", def.Redis.MaxConnections, "Maximum number of connections")
}

// load builds the config from the defaults, the config file if any,
// and the flags explicitly set, in that order.
func (o *options) load(cmd *cobra.Command) (fileConfig, error) {
	cfg := defaultConfig()
	if o.configPath != "" {
		if err := configbp.ParseStrictFile(o.configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Log.Level = log.Level(o.logLevel)
	}
	if changed("name") {
		cfg.Redis.Name = o.name
	}
	if changed("host") {
		cfg.Redis.Host = o.host
	}
	if changed("port") {
		cfg.Redis.Port = o.port
	}
	if changed("db") {
		cfg.Redis.DB = o.db
	}
	if changed("min") {
		cfg.Redis.MinConnections = o.min
	}
	if changed("max") {
		cfg.Redis.MaxConnections = o.max
	}
	return cfg, cfg.Redis.Validate()
}
