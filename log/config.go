package log

// Config is the confuration struct for the log package.
//
// Can be deserialized from YAML.
type Config struct {
	// Level is the log level, defaults to info.
	Level Level `yaml:"level"`

	// JSON switches from the console format to the json format.
	JSON bool `yaml:"json"`
}

// InitFromConfig initializes the global logger using the given Config.
func InitFromConfig(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = InfoLevel
	}
	if cfg.JSON {
		InitLoggerJSON(cfg.Level)
		return
	}
	InitLogger(cfg.Level)
}
