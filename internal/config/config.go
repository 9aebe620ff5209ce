package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver string
		Path   string
		DSN    string
	}
	Session struct {
		Cookie   string
		TTLHours int
		Secure   bool
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// .env fills the environment without overriding variables already set
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LOGINHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/loginhub.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("session.cookie", "loginhub_session")
	v.SetDefault("session.ttlhours", 720)
	v.SetDefault("session.secure", false)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
