// pkg/datasource/driver_selection_test.go
package datasource

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmenegatti/dsprovision/pkg/config"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"

	_ "github.com/chmenegatti/dsprovision/pkg/dialects/sqlite"
)

// recordingFactory remembers the slot configs it was asked to open.
type recordingFactory struct {
	slots []common.PoolConfig
}

type recordedPool struct{ cfg common.PoolConfig }

func (p recordedPool) ID() string                 { return p.cfg.JDBCURL }
func (p recordedPool) Config() common.PoolConfig  { return p.cfg }
func (p recordedPool) DB() *sql.DB                { return nil }
func (p recordedPool) Ping(context.Context) error { return nil }
func (p recordedPool) Close() error               { return nil }

func (f *recordingFactory) Open(_ context.Context, cfg common.PoolConfig) (common.Pool, error) {
	f.slots = append(f.slots, cfg)
	return recordedPool{cfg: cfg}, nil
}

// linkedOnly behaves like dialects.FirstLoadable in a binary that links only ids.
func linkedOnly(seen *[]string, ids ...string) func([]string) (string, bool) {
	linked := make(map[string]bool, len(ids))
	for _, id := range ids {
		linked[id] = true
	}
	return func(candidates []string) (string, bool) {
		*seen = append(*seen, candidates...)
		for _, c := range candidates {
			if linked[c] {
				return c, true
			}
		}
		return "", false
	}
}

func selectionConfig(platform, url string) config.DBConfig {
	n := 1
	return config.DBConfig{Num: &n, URL: []string{url}, User: []string{"u"}, Password: []string{"p"}, Platform: platform}
}

func TestDriverSelection_LegacyMySQLConnector(t *testing.T) {
	var seen []string
	f := &recordingFactory{}
	p := NewProvisioner(f)
	p.firstLoadable = linkedOnly(&seen, "com.mysql.jdbc.Driver")

	_, err := p.Build(context.Background(), selectionConfig("mysql", "jdbc:mysql://h/db"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.mysql.cj.jdbc.Driver", "com.mysql.jdbc.Driver"}, seen, "candidates are tried in catalog order")
	require.Len(t, f.slots, 1)
	assert.Equal(t, "com.mysql.jdbc.Driver", f.slots[0].DriverClassName)
}

func TestDriverSelection_NoMySQLConnectorLinked(t *testing.T) {
	for _, platform := range []string{"mysql", "mariadb"} {
		t.Run(platform, func(t *testing.T) {
			var (
				seen []string
				buf  bytes.Buffer
			)
			f := &recordingFactory{}
			p := NewProvisioner(f, WithLogger(zerolog.New(&buf)))
			p.firstLoadable = linkedOnly(&seen)

			_, err := p.Build(context.Background(), selectionConfig(platform, "jdbc:mysql://h/db"), nil)
			require.NoError(t, err, "a missing driver is not fatal while provisioning")
			require.Len(t, f.slots, 1)
			assert.Equal(t, "", f.slots[0].DriverClassName)
			assert.Contains(t, buf.String(), "no candidate driver is loadable")
		})
	}
}

func TestDriverSelection_OtherDialectsAreNotProbed(t *testing.T) {
	var seen []string
	f := &recordingFactory{}
	p := NewProvisioner(f)
	p.firstLoadable = linkedOnly(&seen)

	_, err := p.Build(context.Background(), selectionConfig("oracle", "jdbc:oracle:thin:@//h:1521/XE"), nil)
	require.NoError(t, err)
	assert.Empty(t, seen)
	assert.Equal(t, "oracle.jdbc.OracleDriver", f.slots[0].DriverClassName)
}

func TestDriverSelection_PoolInfersDriverWhenNoneChosen(t *testing.T) {
	var seen []string
	p := NewProvisioner(NewSQLPoolFactory())
	p.firstLoadable = linkedOnly(&seen)

	pools, err := p.Build(context.Background(), selectionConfig("mysql", "jdbc:sqlite::memory:"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pools[0].Close() })

	assert.Equal(t, "org.sqlite.JDBC", pools[0].Config().DriverClassName, "the pool falls back to the URL's dialect")
	assert.NoError(t, pools[0].Ping(context.Background()))
}
