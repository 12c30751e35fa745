// pkg/dialects/common/interfaces.go
package common

import (
	"context"
	"database/sql"
	"time"
)

// PoolTuning carries the pool settings bound from configuration. They are
// passed through untouched to the pool implementation.
type PoolTuning struct {
	MaxOpenConns      int           `mapstructure:"maxOpenConns"`
	MaxIdleConns      int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime   time.Duration `mapstructure:"connMaxLifetime"`   // Ex: "30m"
	ConnMaxIdleTime   time.Duration `mapstructure:"connMaxIdleTime"`   // Ex: "10m"
	ConnectionTimeout time.Duration `mapstructure:"connectionTimeout"` // bound on opening + validating a pool
}

// PoolConfig describes one connection slot, built during provisioning and
// owned by the caller afterwards.
type PoolConfig struct {
	JDBCURL  string
	Username string
	Password string

	// DriverClassName is the JDBC driver identifier selected for the slot.
	// Empty means "let the pool infer it from the URL".
	DriverClassName string

	// ValidationQuery is the liveness probe. Empty means the driver's own ping.
	ValidationQuery string

	Tuning PoolTuning
}

// Connector translates a PoolConfig into something a database/sql driver
// understands. Driver packages register one per JDBC driver identifier.
type Connector interface {
	// DriverName returns the database/sql driver name (ex: "mysql", "pgx").
	DriverName() string

	// DSN builds the driver-specific data source name from the slot's JDBC
	// URL and credentials.
	DSN(cfg PoolConfig) (string, error)
}

// Pool is an opened, pooled connection handle. Implementations must be safe
// for concurrent use once handed to the caller.
type Pool interface {
	// ID uniquely identifies the pool for the lifetime of the process.
	ID() string

	// Config returns the slot configuration the pool was built from.
	Config() PoolConfig

	// DB exposes the underlying *sql.DB.
	DB() *sql.DB

	// Ping runs the validation query (or the driver ping when none is set).
	Ping(ctx context.Context) error

	Close() error
}
