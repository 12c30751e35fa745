// pkg/datasource/sqlpool.go
package datasource

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/chmenegatti/dsprovision/pkg/contract"
	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

// ErrDriverUnavailable is returned when no registered connector can serve a
// pool. Link the driver package (blank import) to make it available.
var ErrDriverUnavailable = errors.New("driver unavailable")

// SQLPool is a common.Pool backed by *sql.DB.
type SQLPool struct {
	id  string
	cfg common.PoolConfig
	db  *sql.DB
}

var _ common.Pool = (*SQLPool)(nil)

func (p *SQLPool) ID() string                { return p.id }
func (p *SQLPool) Config() common.PoolConfig { return p.cfg }
func (p *SQLPool) DB() *sql.DB               { return p.db }

// Ping runs the validation query, or the driver ping when none is set.
func (p *SQLPool) Ping(ctx context.Context) error {
	if p.cfg.ValidationQuery == "" {
		return p.db.PingContext(ctx)
	}
	_, err := p.db.ExecContext(ctx, p.cfg.ValidationQuery)
	return err
}

func (p *SQLPool) Close() error { return p.db.Close() }

// SQLPoolFactory is the default PoolFactory. It opens a *sql.DB through the
// connector registered for the slot's driver, applies the tuning and checks
// the pool once before handing it out.
type SQLPoolFactory struct {
	log zerolog.Logger
}

var _ PoolFactory = (*SQLPoolFactory)(nil)

// NewSQLPoolFactory returns a SQLPoolFactory.
func NewSQLPoolFactory(opts ...Option) *SQLPoolFactory {
	o := buildOptions(opts)
	return &SQLPoolFactory{log: o.log}
}

// Open implements PoolFactory.
func (f *SQLPoolFactory) Open(ctx context.Context, cfg common.PoolConfig) (common.Pool, error) {
	cfg.JDBCURL = strings.TrimSpace(cfg.JDBCURL)
	if err := contract.Check(cfg.JDBCURL != "", "jdbc url is empty"); err != nil {
		return nil, err
	}

	driver, connector, err := f.connector(cfg)
	if err != nil {
		return nil, err
	}
	cfg.DriverClassName = driver

	dsn, err := connector.DSN(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "building dsn for %s", cfg.JDBCURL)
	}
	db, err := sql.Open(connector.DriverName(), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s pool", connector.DriverName())
	}
	applyTuning(db, cfg.Tuning)

	pool := &SQLPool{id: uuid.NewString(), cfg: cfg, db: db}

	checkCtx := ctx
	if cfg.Tuning.ConnectionTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, cfg.Tuning.ConnectionTimeout)
		defer cancel()
	}
	if err := pool.Ping(checkCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "validating pool for %s", cfg.JDBCURL)
	}

	f.log.Info().
		Str("pool", pool.id).
		Str("url", cfg.JDBCURL).
		Str("driver", driver).
		Str("sqlDriver", connector.DriverName()).
		Msg("pool opened")
	return pool, nil
}

// connector resolves the slot's driver identifier to a registered connector.
// Without an identifier the driver is inferred from the URL's dialect.
func (f *SQLPoolFactory) connector(cfg common.PoolConfig) (string, common.Connector, error) {
	if cfg.DriverClassName != "" {
		c, ok := dialects.Lookup(cfg.DriverClassName)
		if !ok {
			return "", nil, errors.Wrapf(ErrDriverUnavailable, "no connector registered for %s", cfg.DriverClassName)
		}
		return cfg.DriverClassName, c, nil
	}

	d, err := dialects.ResolveByURL(cfg.JDBCURL)
	if err != nil {
		return "", nil, err
	}
	id, ok := dialects.FirstLoadable(dialects.SplitCandidates(d.DriverClassName()))
	if !ok {
		return "", nil, errors.Wrapf(ErrDriverUnavailable, "no connector for %s dialect of %s", d.Name(), cfg.JDBCURL)
	}
	f.log.Debug().Str("url", cfg.JDBCURL).Str("driver", id).Msg("driver inferred from url")
	c, _ := dialects.Lookup(id)
	return id, c, nil
}

func applyTuning(db *sql.DB, t common.PoolTuning) {
	if t.MaxOpenConns > 0 {
		db.SetMaxOpenConns(t.MaxOpenConns)
	}
	if t.MaxIdleConns > 0 {
		db.SetMaxIdleConns(t.MaxIdleConns)
	}
	if t.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(t.ConnMaxLifetime)
	}
	if t.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(t.ConnMaxIdleTime)
	}
}
