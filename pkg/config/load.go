// pkg/config/load.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "DSPROVISION"

// LoadConfig loads configuration from files, environment variables, and defaults.
// configPath: optional path to a specific configuration file.
// If configPath is empty, searches for "dsprovision.yaml" in standard locations.
func LoadConfig(configPath string) (Config, error) {
	v := viper.New()
	cfg := NewDefaultConfig()

	// 1. Defaults
	v.SetDefault("db.usePoolDriver", cfg.DB.UsePoolDriver)
	v.SetDefault("db.pool.maxOpenConns", cfg.DB.Pool.MaxOpenConns)
	v.SetDefault("db.pool.maxIdleConns", cfg.DB.Pool.MaxIdleConns)
	v.SetDefault("db.pool.connMaxLifetime", cfg.DB.Pool.ConnMaxLifetime)
	v.SetDefault("db.pool.connMaxIdleTime", cfg.DB.Pool.ConnMaxIdleTime)
	v.SetDefault("db.pool.connectionTimeout", cfg.DB.Pool.ConnectionTimeout)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)

	// 2. Environment. Keys without a default are bound explicitly so that
	// Unmarshal sees them; lists are comma-separated (DSPROVISION_DB_URL=a,b).
	// Indexed variables (DSPROVISION_DB_URL_0, DSPROVISION_DB_URL_1, ...) hold
	// one element each and take precedence, for values that contain commas
	// such as failover URLs.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"db.num", "db.url", "db.user", "db.password", "db.platform"} {
		if err := v.BindEnv(key); err != nil {
			return cfg, errors.Wrapf(err, "binding environment for %s", key)
		}
	}
	for _, key := range []string{"db.url", "db.user", "db.password"} {
		if list := indexedEnv(key); len(list) > 0 {
			v.Set(key, list)
		}
	}

	// 3. File
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("dsprovision")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.dsprovision")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is only fatal when the caller asked for a specific one.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return cfg, errors.Wrap(err, "error reading configuration file")
		}
	}

	// 4. Unmarshal
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "error unmarshaling configuration")
	}

	// 5. Validate
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate runs the struct-tag checks on cfg.
func Validate(cfg Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrap(err, "invalid configuration")
		}
		var msgs []string
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("Field '%s' failed validation on '%s'", fe.Namespace(), fe.Tag()))
		}
		return errors.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// indexedEnv collects <PREFIX>_<KEY>_0, _1, ... up to the first unset or
// empty variable.
func indexedEnv(key string) []string {
	base := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	var list []string
	for i := 0; ; i++ {
		value, ok := os.LookupEnv(fmt.Sprintf("%s_%d", base, i))
		if !ok || value == "" {
			return list
		}
		list = append(list, value)
	}
}
