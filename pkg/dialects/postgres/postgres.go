// pkg/dialects/postgres/postgres.go
package postgres

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	"github.com/pkg/errors"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

const defaultPort = "5432"

// JDBC property name -> libpq keyword. Both pgx and lib/pq accept the libpq
// keywords; anything not listed is dropped.
var paramMap = map[string]string{
	"sslmode":          "sslmode",
	"sslcert":          "sslcert",
	"sslkey":           "sslkey",
	"sslrootcert":      "sslrootcert",
	"connectTimeout":   "connect_timeout",
	"ApplicationName":  "application_name",
	"applicationName":  "application_name",
	"currentSchema":    "search_path",
	"targetServerType": "target_session_attrs",
}

// Connector turns jdbc:postgresql:// URLs into postgres:// URLs for a given
// database/sql driver.
type Connector struct {
	driver string
}

var (
	// PGX serves the plain JDBC driver through jackc/pgx.
	PGX = Connector{driver: "pgx"}
	// PQ serves the XA data source identifier through lib/pq.
	PQ = Connector{driver: "postgres"}
)

var _ common.Connector = Connector{}

func (c Connector) DriverName() string { return c.driver }

func (c Connector) DSN(cfg common.PoolConfig) (string, error) {
	u, err := common.ParseJDBCURL(cfg.JDBCURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgresql" {
		return "", errors.Errorf("postgres: unsupported sub-protocol %q", u.Scheme)
	}

	query := url.Values{}
	in := u.Query()
	for key, values := range in {
		target, ok := paramMap[key]
		if !ok || len(values) == 0 {
			continue
		}
		query.Set(target, values[len(values)-1])
	}
	if query.Get("sslmode") == "" {
		if ssl, _ := strconv.ParseBool(in.Get("ssl")); ssl {
			query.Set("sslmode", "require")
		} else {
			query.Set("sslmode", "disable")
		}
	}
	if tst := query.Get("target_session_attrs"); tst != "" {
		// JDBC "primary"/"master" are libpq's "read-write".
		switch strings.ToLower(tst) {
		case "primary", "master":
			query.Set("target_session_attrs", "read-write")
		case "any":
		default:
			query.Del("target_session_attrs")
		}
	}

	out := url.URL{
		Scheme:   "postgres",
		Host:     hostPort(common.FirstHost(u.Host)),
		Path:     u.Path,
		RawQuery: query.Encode(),
	}
	if cfg.Username != "" || cfg.Password != "" {
		out.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return out.String(), nil
}

func hostPort(host string) string {
	if host == "" {
		return net.JoinHostPort("localhost", defaultPort)
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		return net.JoinHostPort(strings.Trim(host, "[]"), defaultPort)
	}
	return host
}

func init() {
	dialects.Register("org.postgresql.Driver", PGX)
	dialects.Register("org.postgresql.xa.PGXADataSource", PQ)
}
