// pkg/datasource/metrics.go
package datasource

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

// Metrics exports pool statistics to Prometheus.
type Metrics struct {
	registerer  prometheus.Registerer
	provisioned *prometheus.CounterVec
	log         zerolog.Logger

	mu         sync.Mutex
	collectors map[string]prometheus.Collector // by pool ID
}

// NewMetrics registers the provisioning counter on reg.
func NewMetrics(reg prometheus.Registerer, namespace string, opts ...Option) (*Metrics, error) {
	o := buildOptions(opts)
	provisioned := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pools_provisioned_total",
		Help:      "Number of connection pools opened, by dialect.",
	}, []string{"dialect"})
	if err := reg.Register(provisioned); err != nil {
		return nil, err
	}
	return &Metrics{
		registerer:  reg,
		provisioned: provisioned,
		log:         o.log,
		collectors:  make(map[string]prometheus.Collector),
	}, nil
}

// Callback returns a Callback that registers a sql.DBStats collector for each
// pool, counts it, and then calls next (which may be nil).
func (m *Metrics) Callback(next Callback) Callback {
	return func(pool common.Pool) {
		dialect := dialects.Unknown().ID()
		if d, err := dialects.ResolveByURL(pool.Config().JDBCURL); err == nil {
			dialect = d.ID()
		}
		m.provisioned.WithLabelValues(dialect).Inc()

		c := collectors.NewDBStatsCollector(pool.DB(), pool.ID())
		if err := m.registerer.Register(c); err != nil {
			m.log.Warn().Err(err).Str("pool", pool.ID()).Msg("pool stats collector not registered")
		} else {
			m.mu.Lock()
			m.collectors[pool.ID()] = c
			m.mu.Unlock()
		}
		if next != nil {
			next(pool)
		}
	}
}

// Forget unregisters the stats collector of a closed pool. It has the
// Callback signature, so it can be passed to WithRollback.
func (m *Metrics) Forget(pool common.Pool) {
	m.mu.Lock()
	c, ok := m.collectors[pool.ID()]
	delete(m.collectors, pool.ID())
	m.mu.Unlock()
	if ok {
		m.registerer.Unregister(c)
	}
}
