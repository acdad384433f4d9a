// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"

	"github.com/spf13/viper"

	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver          string `mapstructure:"DB_DRIVER"`
	DBSource          string `mapstructure:"DB_SOURCE"`
	ServerAddress     string `mapstructure:"SERVER_ADDRESS"`
	Environement      string `mapstructure:"GO_ENV"`
	StoreBackend      string `mapstructure:"STORE_BACKEND"`
	DefaultCurrency   string `mapstructure:"DEFAULT_CURRENCY"`
	CodeRetryAttempts int    `mapstructure:"CODE_RETRY_ATTEMPTS"`
	StatementMaxLimit int32  `mapstructure:"STATEMENT_MAX_LIMIT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("STORE_BACKEND", StorePostgres)
	v.SetDefault("DEFAULT_CURRENCY", currencypkg.Default)
	v.SetDefault("CODE_RETRY_ATTEMPTS", 2)
	v.SetDefault("STATEMENT_MAX_LIMIT", 100)
}

// Load reads configuration from the app.env file in path and from environment variables.
//
// A missing config file is not an error: defaults and the environment are used.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if c.StoreBackend != StorePostgres && c.StoreBackend != StoreMemory {
		return c, errors.New("STORE_BACKEND must be postgres or memory")
	}

	c.DefaultCurrency = currencypkg.Normalize(c.DefaultCurrency, "")
	if !currencypkg.IsCode(c.DefaultCurrency) {
		return c, errors.New("DEFAULT_CURRENCY must be a three letter currency code")
	}

	return c, nil
}
