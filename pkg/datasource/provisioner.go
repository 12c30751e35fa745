// pkg/datasource/provisioner.go
package datasource

import (
	"context"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/chmenegatti/dsprovision/pkg/config"
	"github.com/chmenegatti/dsprovision/pkg/contract"
	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

// Callback is told about every pool right after it is opened, in slot order.
type Callback func(pool common.Pool)

// PoolFactory opens a pooled connection for one slot.
type PoolFactory interface {
	Open(ctx context.Context, cfg common.PoolConfig) (common.Pool, error)
}

// Option configures a Provisioner or a Service.
type Option func(*options)

type options struct {
	log      zerolog.Logger
	rollback Callback
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithRollback sets a function called for every pool that a failed Build
// closes again, after it is closed.
func WithRollback(fn Callback) Option {
	return func(o *options) { o.rollback = fn }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Provisioner builds the configured data sources, one pool per slot.
type Provisioner struct {
	factory PoolFactory
	log     zerolog.Logger

	// rollback is told about pools closed by a failed Build.
	rollback Callback

	// firstLoadable picks among driver candidates. Defaults to
	// dialects.FirstLoadable.
	firstLoadable func(candidates []string) (string, bool)
}

// NewProvisioner returns a Provisioner that opens pools through factory.
func NewProvisioner(factory PoolFactory, opts ...Option) *Provisioner {
	o := buildOptions(opts)
	return &Provisioner{
		factory:       factory,
		log:           o.log,
		rollback:      o.rollback,
		firstLoadable: dialects.FirstLoadable,
	}
}

// ValidateSettings checks the preconditions of Build without opening anything.
func ValidateSettings(cfg config.DBConfig) error {
	if cfg.Num == nil {
		return contract.Violation("db.num is null")
	}
	if err := contract.Check(*cfg.Num >= 0, "db.num is %d", *cfg.Num); err != nil {
		return err
	}
	if err := contract.Check(len(cfg.URL) >= *cfg.Num, "db.url has %d entries but db.num is %d", len(cfg.URL), *cfg.Num); err != nil {
		return err
	}
	if err := contract.Check(len(cfg.User) > 0, "db.user or db.user.[index] is null"); err != nil {
		return err
	}
	if err := contract.Check(len(cfg.Password) > 0, "db.password or db.password.[index] is null"); err != nil {
		return err
	}
	return contract.Check(strings.TrimSpace(cfg.Platform) != "", "db.platform is null")
}

// Build validates cfg, resolves the platform's dialect and opens cfg.Num
// pools in slot order, calling cb after each one. It either returns a
// non-empty list or an error; on error every pool it opened is closed again.
func (p *Provisioner) Build(ctx context.Context, cfg config.DBConfig, cb Callback) ([]common.Pool, error) {
	if err := ValidateSettings(cfg); err != nil {
		return nil, err
	}

	dialect := dialects.ResolveByProductName(cfg.Platform)
	driver := p.driverClassName(dialect, cfg.UsePoolDriver)
	// Every pool is probed with the MySQL statement whatever the platform.
	validationQuery := dialects.MySQL().ValidationQuery()

	p.log.Info().
		Str("platform", cfg.Platform).
		Str("dialect", dialect.Name()).
		Str("driver", driver).
		Int("num", *cfg.Num).
		Msg("provisioning data sources")

	pools := make([]common.Pool, 0, *cfg.Num)
	for i := 0; i < *cfg.Num; i++ {
		if err := contract.Check(i < len(cfg.URL), "db.url.%d is null", i); err != nil {
			return nil, p.closeAll(pools, err)
		}
		slot := common.PoolConfig{
			JDBCURL:         strings.TrimSpace(cfg.URL[i]),
			Username:        strings.TrimSpace(orFirst(cfg.User, i)),
			Password:        strings.TrimSpace(orFirst(cfg.Password, i)),
			DriverClassName: driver,
			ValidationQuery: validationQuery,
			Tuning:          cfg.Pool,
		}
		if err := contract.Check(slot.JDBCURL != "", "db.url.%d is empty", i); err != nil {
			return nil, p.closeAll(pools, err)
		}

		pool, err := p.factory.Open(ctx, slot)
		if err != nil {
			return nil, p.closeAll(pools, errors.Wrapf(err, "opening data source %d (%s)", i, slot.JDBCURL))
		}
		pools = append(pools, pool)
		if cb != nil {
			cb(pool)
		}
		p.log.Debug().Int("index", i).Str("url", slot.JDBCURL).Str("pool", pool.ID()).Msg("data source ready")
	}

	if err := contract.Check(len(pools) > 0, "no datasource available"); err != nil {
		return nil, err
	}
	return pools, nil
}

// driverClassName picks the driver identifier for a dialect. The MySQL family
// may list several candidates; the first loadable one wins and none leaves
// the choice to the pool.
func (p *Provisioner) driverClassName(d *dialects.Descriptor, usePoolDriver bool) string {
	name := d.DriverClassName()
	if usePoolDriver && d.PoolDriverClassName() != "" {
		name = d.PoolDriverClassName()
	}
	if d.ID() != dialects.MySQL().ID() {
		return name
	}

	candidates := dialects.SplitCandidates(name)
	if chosen, ok := p.firstLoadable(candidates); ok {
		return chosen
	}
	p.log.Warn().Strs("candidates", candidates).Msg("no candidate driver is loadable, leaving driver selection to the pool")
	return ""
}

// orFirst returns values[i], or values[0] when i is out of range.
func orFirst(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return values[0]
}

// closeAll closes pools, reports each one to the rollback function and folds
// any close failure into cause.
func (p *Provisioner) closeAll(pools []common.Pool, cause error) error {
	result := cause
	for _, pool := range pools {
		if err := pool.Close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "closing pool %s", pool.ID()))
		}
		if p.rollback != nil {
			p.rollback(pool)
		}
	}
	return result
}
