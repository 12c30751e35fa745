// pkg/datasource/service.go
package datasource

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/chmenegatti/dsprovision/pkg/config"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

// ServiceKind selects the storage-specific behaviour of a Service.
type ServiceKind string

const (
	ServiceMySQL  ServiceKind = "MYSQL"
	ServiceOracle ServiceKind = "ORACLE"
	ServiceDameng ServiceKind = "DAMENG"
)

// Health states reported per pool.
const (
	HealthUp   = "UP"
	HealthDown = "DOWN"
)

// SelectService maps a declared storage platform onto a ServiceKind.
// Anything unrecognised gets the MySQL implementation.
func SelectService(platform string) ServiceKind {
	switch strings.ToUpper(strings.TrimSpace(platform)) {
	case string(ServiceDameng):
		return ServiceDameng
	case string(ServiceOracle):
		return ServiceOracle
	case string(ServiceMySQL):
		return ServiceMySQL
	default:
		return ServiceMySQL
	}
}

// writableProbe tells whether the database behind a pool accepts writes.
type writableProbe struct {
	query    string
	writable func(value string) bool
}

var writableProbes = map[ServiceKind]writableProbe{
	ServiceMySQL: {
		query:    "SELECT @@read_only",
		writable: func(v string) bool { return v == "0" || strings.EqualFold(v, "OFF") },
	},
	ServiceOracle: {
		query:    "SELECT open_mode FROM v$database",
		writable: func(v string) bool { return strings.EqualFold(v, "READ WRITE") },
	},
	// Dameng has no probe: every reachable pool counts as writable.
}

// Service owns the provisioned pools of one deployment and tracks which of
// them is the current master.
type Service struct {
	kind        ServiceKind
	provisioner *Provisioner
	log         zerolog.Logger

	mu     sync.RWMutex
	pools  []common.Pool
	master int
}

// NewService returns an uninitialised Service for platform.
func NewService(platform string, provisioner *Provisioner, opts ...Option) *Service {
	o := buildOptions(opts)
	kind := SelectService(platform)
	return &Service{
		kind:        kind,
		provisioner: provisioner,
		log:         o.log.With().Str("service", string(kind)).Logger(),
	}
}

// Kind returns the selected implementation.
func (s *Service) Kind() ServiceKind { return s.kind }

// Init provisions the pools described by cfg. It fails while pools from an
// earlier Init are still open.
func (s *Service) Init(ctx context.Context, cfg config.DBConfig, cb Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pools != nil {
		return errors.New("datasource service already initialised")
	}
	pools, err := s.provisioner.Build(ctx, cfg, cb)
	if err != nil {
		return err
	}
	s.pools = pools
	s.master = 0
	return nil
}

// Pools returns the provisioned pools in slot order.
func (s *Service) Pools() []common.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]common.Pool(nil), s.pools...)
}

// CurrentURL returns the JDBC URL of the current master, or "" before Init.
func (s *Service) CurrentURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pools) == 0 {
		return ""
	}
	return s.pools[s.master].Config().JDBCURL
}

// CheckMasterWritable reports whether the current master accepts writes.
func (s *Service) CheckMasterWritable(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pools) == 0 {
		return false, errors.New("datasource service not initialised")
	}
	return s.writable(ctx, s.pools[s.master])
}

// SelectMaster makes the first writable pool the master and returns its index.
// The master is left unchanged when no pool is writable.
func (s *Service) SelectMaster(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pools) == 0 {
		return -1, errors.New("datasource service not initialised")
	}
	for i, pool := range s.pools {
		ok, err := s.writable(ctx, pool)
		if err != nil {
			s.log.Warn().Err(err).Str("url", pool.Config().JDBCURL).Msg("master probe failed")
			continue
		}
		if ok {
			if i != s.master {
				s.log.Info().Int("from", s.master).Int("to", i).Str("url", pool.Config().JDBCURL).Msg("master changed")
			}
			s.master = i
			return i, nil
		}
	}
	return s.master, errors.New("no writable data source found")
}

func (s *Service) writable(ctx context.Context, pool common.Pool) (bool, error) {
	probe, ok := writableProbes[s.kind]
	if !ok {
		return true, nil
	}
	var value string
	if err := pool.DB().QueryRowContext(ctx, probe.query).Scan(&value); err != nil {
		return false, errors.Wrapf(err, "probing %s", pool.Config().JDBCURL)
	}
	return probe.writable(strings.TrimSpace(value)), nil
}

// Health pings every pool concurrently and returns one state per pool, in
// slot order: "UP" or "DOWN:<url>".
func (s *Service) Health(ctx context.Context) []string {
	pools := s.Pools()
	states := make([]string, len(pools))

	var g errgroup.Group
	for i, pool := range pools {
		i, pool := i, pool
		g.Go(func() error {
			if err := pool.Ping(ctx); err != nil {
				s.log.Warn().Err(err).Str("url", pool.Config().JDBCURL).Msg("data source unhealthy")
				states[i] = HealthDown + ":" + pool.Config().JDBCURL
				return nil
			}
			states[i] = HealthUp
			return nil
		})
	}
	_ = g.Wait()
	return states
}

// Close closes every pool and returns the Service to its uninitialised state.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result error
	for _, pool := range s.pools {
		if err := pool.Close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "closing pool %s", pool.ID()))
		}
	}
	s.pools = nil
	return result
}
