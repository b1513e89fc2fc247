package config

import "github.com/spf13/viper"

// Config holds the runtime configuration of the service.
type Config struct {
	AppPort     string
	DatabaseDSN string
	APIKey      string
}

// Load reads configuration from environment variables with sane defaults.
// An empty DATABASE_DSN selects the embedded SQLite file, which keeps local
// runs dependency-free.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "products.db")
	viper.SetDefault("API_KEY", "")
	viper.AutomaticEnv()

	return &Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseDSN: viper.GetString("DATABASE_DSN"),
		APIKey:      viper.GetString("API_KEY"),
	}
}
