package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4280,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Driver: "badger",
			Badger: BadgerConfig{
				Path: "./data/kabureco",
			},
			SQLite: SQLiteConfig{
				Path: "./data/kabureco.db",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
