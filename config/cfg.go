package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/shoplinehq/commerce-manager/internal/analytics"
	httpapi "github.com/shoplinehq/commerce-manager/internal/api/http"
	"github.com/shoplinehq/commerce-manager/internal/cache"
	"github.com/shoplinehq/commerce-manager/internal/store"
	"github.com/shoplinehq/commerce-manager/log"
)

// Config represents the global configuration for the service.
type Config struct {
	DB        store.Config     `mapstructure:"mysql"`
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	Analytics analytics.Config `mapstructure:"analytics"`
	Cache     cache.Config     `mapstructure:"cache"`
}

// LoadConfig loads the configuration from a file and/or environment
// variables. Environment variables take precedence over config file values.
// Nested config keys use double underscore, e.g. MYSQL__DSN for mysql.dsn.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/commerce-manager")
		// Config file is optional when env vars carry the settings.
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	return &config, nil
}

// bindEnvVars binds flat environment variable names to config keys, so both
// MYSQL__DSN and MYSQL_DSN work.
func bindEnvVars() {
	viper.BindEnv("mysql.dsn", "MYSQL_DSN")
	viper.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	viper.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	viper.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")

	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	viper.BindEnv("http.timeout_seconds", "HTTP_TIMEOUT_SECONDS")

	viper.BindEnv("analytics.revenue_statuses", "ANALYTICS_REVENUE_STATUSES")

	viper.BindEnv("cache.recently_viewed_capacity", "CACHE_RECENTLY_VIEWED_CAPACITY")
	viper.BindEnv("cache.comparison_capacity", "CACHE_COMPARISON_CAPACITY")
}
