// pkg/dialects/sqlite/sqlite.go
package sqlite

import (
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers "sqlite"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

const prefix = "jdbc:sqlite:"

// Connector serves jdbc:sqlite:<path> URLs through the pure-Go modernc driver.
// Credentials are ignored; SQLite has none.
type Connector struct{}

var _ common.Connector = Connector{}

func (Connector) DriverName() string { return "sqlite" }

func (Connector) DSN(cfg common.PoolConfig) (string, error) {
	raw := strings.TrimSpace(cfg.JDBCURL)
	if !strings.HasPrefix(strings.ToLower(raw), prefix) {
		return "", errors.Errorf("sqlite: unsupported url %q", cfg.JDBCURL)
	}
	path := raw[len(prefix):]
	if path == "" {
		return "", errors.Errorf("sqlite: url %q has no database path", cfg.JDBCURL)
	}
	return path, nil
}

func init() {
	dialects.Register("org.sqlite.JDBC", Connector{})
}
