// pkg/config/config.go
package config

import (
	"time"

	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

// DBConfig describes the external data sources to provision. Index i of URL,
// User and Password belongs to slot i; User and Password may be shorter than
// Num, in which case slot i falls back to element 0.
type DBConfig struct {
	Num      *int     `mapstructure:"num"      validate:"required,min=0"`
	URL      []string `mapstructure:"url"      validate:"min=1"`
	User     []string `mapstructure:"user"     validate:"min=1"`
	Password []string `mapstructure:"password" validate:"min=1"`
	Platform string   `mapstructure:"platform" validate:"required"` // Ex: "mysql", "oracle"

	// UsePoolDriver selects the dialect's pooling/XA driver instead of the
	// plain one, when the dialect declares one.
	UsePoolDriver bool `mapstructure:"usePoolDriver"`

	Pool common.PoolTuning `mapstructure:"pool"`
}

// Count returns Num, or 0 when it is not set.
func (c DBConfig) Count() int {
	if c.Num == nil {
		return 0
	}
	return *c.Num
}

// LoggingConfig define as configurações de logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// MetricsConfig controls the Prometheus collectors registered per pool.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config aggregates every setting.
type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// NewDefaultConfig cria uma configuração com valores padrão.
func NewDefaultConfig() Config {
	return Config{
		DB: DBConfig{
			// Num, URL, User, Password and Platform must come from the user.
			Pool: common.PoolTuning{
				MaxOpenConns:      20,
				MaxIdleConns:      2,
				ConnMaxLifetime:   30 * time.Minute,
				ConnMaxIdleTime:   10 * time.Minute,
				ConnectionTimeout: 3 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: "dsprovision",
		},
	}
}
